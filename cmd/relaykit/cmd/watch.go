package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brianly1003/relaykit/internal/adapters/watcher"
	"github.com/brianly1003/relaykit/internal/stream"
	"github.com/brianly1003/relaykit/internal/viewmodel"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	watchDebounce int
	watchDerived  bool
)

// watchCmd follows a file and prints every value read from it.
var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Print each integer value written to a file",
	Long: `Watch a file and print its integer content every time it settles
after a change. Content that does not parse as an integer is logged and
skipped.

With --derived, each value is also passed through the derived view model
and printed doubled.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce window in milliseconds (default from config)")
	watchCmd.Flags().BoolVar(&watchDerived, "derived", false, "also print the doubled value")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg)

	debounce := cfg.Counter.DebounceMS
	if watchDebounce > 0 {
		debounce = watchDebounce
	}

	out := cmd.OutOrStdout()
	bag := stream.NewDisposeBag()
	defer bag.Dispose()

	values := stream.NewPublishRelay[int](stream.WithName("watch"), stream.WithLogger(log.Logger))
	values.SubscribeNext(func(v int) {
		fmt.Fprintf(out, "value %d\n", v)
	}).DisposedBy(bag)

	if watchDerived {
		derived := viewmodel.NewDerived(values.AsObservable(), nil)
		defer derived.Close()
		derived.Output().SubscribeNext(func(v int) {
			fmt.Fprintf(out, "derived %d\n", v)
		}).DisposedBy(bag)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := watcher.NewFileSource(args[0], values.AsObserver(), debounce)
	if err := source.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch %s: %w", args[0], err)
	}
	defer source.Stop()

	log.Info().Str("path", source.Path()).Msg("watching")
	<-ctx.Done()
	return nil
}
