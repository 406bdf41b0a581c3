package config

// Default configuration values. Load registers these with viper and Default
// returns them as a Config.
const (
	EnvPrefix = "RELAYKIT"

	DefaultHost         = "127.0.0.1"
	DefaultPort         = 8790
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultDebounceMS   = 100
	DefaultHistoryLimit = 50
	DefaultJournalFile  = "journal.db"

	// MaxDebounceMS caps counter.debounce_ms.
	MaxDebounceMS = 10000
	// MaxHistoryLimit caps journal.history_limit.
	MaxHistoryLimit = 10000
)

// LogLevels lists the accepted logging.level values.
var LogLevels = []string{"trace", "debug", "info", "warn", "error"}

// LogFormats lists the accepted logging.format values.
var LogFormats = []string{"console", "json"}
