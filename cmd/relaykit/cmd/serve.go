package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/brianly1003/relaykit/internal/adapters/journal"
	"github.com/brianly1003/relaykit/internal/adapters/watcher"
	"github.com/brianly1003/relaykit/internal/config"
	"github.com/brianly1003/relaykit/internal/server"
	"github.com/brianly1003/relaykit/internal/stream"
	"github.com/brianly1003/relaykit/internal/viewmodel"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// counterStream names the served counter in logs, events and the journal.
const counterStream = "counter"

var (
	servePort      int
	serveHost      string
	serveInputFile string
	serveJournal   bool
)

// serveCmd starts the counter server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a tap counter over HTTP and WebSocket",
	Long: `Serve a tap counter over HTTP and WebSocket.

Every connected WebSocket client receives the current value and each change.
The counter can also be driven by a file (counter.input_file) and every value
can be journaled to SQLite (journal.enabled), in which case the last value is
restored on start.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "server port (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (overrides config)")
	serveCmd.Flags().StringVar(&serveInputFile, "input-file", "", "file whose integer content drives the counter")
	serveCmd.Flags().BoolVar(&serveJournal, "journal", false, "record values to the journal (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := applyServeOverrides(cfg); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogging(cfg)

	log.Info().
		Str("version", version).
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Msg("starting relaykit")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initial := cfg.Counter.Initial

	var store *journal.Journal
	if cfg.Journal.Enabled {
		store, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer store.Close()

		if last, ok, err := store.Latest(counterStream); err != nil {
			log.Warn().Err(err).Msg("failed to restore counter from journal")
		} else if ok {
			initial = last
			log.Info().Int("value", last).Msg("restored counter from journal")
		}
	}

	counter := viewmodel.NewTapCounter(initial, nil, stream.WithLogger(log.Logger))
	defer counter.Close()

	bag := stream.NewDisposeBag()
	defer bag.Dispose()

	// A nil *Journal must not reach the server as a non-nil interface.
	var history server.HistoryStore
	if store != nil {
		history = store
		store.Attach(counterStream, counter.Changes()).DisposedBy(bag)
	}

	srv := server.New(cfg.Server.Host, cfg.Server.Port, counterStream, counter, history, cfg.Journal.HistoryLimit)

	var source *watcher.FileSource
	if cfg.Counter.InputFile != "" {
		source = watcher.NewFileSource(cfg.Counter.InputFile, counter.Input(), cfg.Counter.DebounceMS)
		if err := source.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch input file: %w", err)
		}
		defer source.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Int("value", counter.Value()).Msg("relaykit stopped")
	return nil
}

func applyServeOverrides(cfg *config.Config) error {
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if serveInputFile != "" {
		abs, err := filepath.Abs(serveInputFile)
		if err != nil {
			return fmt.Errorf("failed to resolve --input-file: %w", err)
		}
		cfg.Counter.InputFile = abs
	}
	if serveJournal && !cfg.Journal.Enabled {
		cfg.Journal.Enabled = true
		if cfg.Journal.Path == "" {
			if dir, err := config.GetConfigDir(); err == nil {
				cfg.Journal.Path = filepath.Join(dir, config.DefaultJournalFile)
			}
		}
	}
	return nil
}
