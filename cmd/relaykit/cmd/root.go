// Package cmd contains the CLI commands for relaykit.
package cmd

import (
	"fmt"
	"os"

	"github.com/brianly1003/relaykit/internal/config"
	"github.com/brianly1003/relaykit/internal/sync"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version info (set from main)
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"

	// Global flags
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "relaykit",
	Short: "Reactive relays, subjects and the view models built on them",
	Long: `relaykit is a small reactive stream toolkit: publish and behavior
subjects and relays, read-only and write-only views, Map and Bind.

It ships a catalog of view-model shapes you can run as demos, and a server
that exposes a counter over HTTP and WebSocket, optionally driven by a file
and journaled to SQLite.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets version information from the main package.
func SetVersionInfo(v, bt, gc string) {
	version = v
	buildTime = bt
	gitCommit = gc
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.relaykit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
}

// versionCmd displays version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		detection := "disabled"
		if sync.DetectionEnabled() {
			detection = "enabled"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "relaykit %s\n", version)
		fmt.Fprintf(out, "  Build time:         %s\n", buildTime)
		fmt.Fprintf(out, "  Git commit:         %s\n", gitCommit)
		fmt.Fprintf(out, "  Deadlock detection: %s\n", detection)
	},
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "console" || verbose {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
