package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/brianly1003/relaykit/internal/domain"
)

// Validate validates the configuration.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return err
	}

	if err := validateLogging(&cfg.Logging); err != nil {
		return err
	}

	if err := validateCounter(&cfg.Counter); err != nil {
		return err
	}

	if err := validateJournal(&cfg.Journal); err != nil {
		return err
	}

	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return domain.NewValidationError("server.port", "must be between 1 and 65535")
	}
	if strings.TrimSpace(cfg.Host) == "" {
		return domain.NewValidationError("server.host", "cannot be empty")
	}
	return nil
}

func validateLogging(cfg *LoggingConfig) error {
	if !slices.Contains(LogLevels, strings.ToLower(cfg.Level)) {
		return domain.NewValidationError("logging.level",
			fmt.Sprintf("must be one of: %s", strings.Join(LogLevels, ", ")))
	}
	if !slices.Contains(LogFormats, strings.ToLower(cfg.Format)) {
		return domain.NewValidationError("logging.format",
			fmt.Sprintf("must be one of: %s", strings.Join(LogFormats, ", ")))
	}
	return nil
}

func validateCounter(cfg *CounterConfig) error {
	if cfg.DebounceMS < 0 {
		return domain.NewValidationError("counter.debounce_ms", "cannot be negative")
	}
	if cfg.DebounceMS > MaxDebounceMS {
		return domain.NewValidationError("counter.debounce_ms",
			fmt.Sprintf("cannot exceed %dms", MaxDebounceMS))
	}
	return nil
}

func validateJournal(cfg *JournalConfig) error {
	if cfg.HistoryLimit < 1 {
		return domain.NewValidationError("journal.history_limit", "must be at least 1")
	}
	if cfg.HistoryLimit > MaxHistoryLimit {
		return domain.NewValidationError("journal.history_limit",
			fmt.Sprintf("cannot exceed %d", MaxHistoryLimit))
	}
	if cfg.Enabled && strings.TrimSpace(cfg.Path) == "" {
		return domain.NewValidationError("journal.path", "cannot be empty when the journal is enabled")
	}
	return nil
}
