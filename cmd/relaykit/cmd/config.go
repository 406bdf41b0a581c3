package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brianly1003/relaykit/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configInitLocal bool
	configInitForce bool
)

// configCmd displays or manages configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display and manage configuration",
	Long: `Display and manage relaykit configuration.

Without subcommands, shows the current effective configuration.

Examples:
  relaykit config                       # Show current config
  relaykit config init                  # Create config file with defaults
  relaykit config path                  # Show config file location
  relaykit config get <key>             # Get a config value
  relaykit config set <key> <value>     # Set a config value`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

// configInitCmd creates a config file with defaults.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with default settings",
	Long: `Create a config file with default settings and documentation.

By default, creates ~/.relaykit/config.yaml.
Use --local to create ./config.yaml in the current directory.`,
	RunE: runConfigInit,
}

// configPathCmd shows config file location.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file location",
	RunE:  runConfigPath,
}

// configGetCmd gets a config value.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by key.

Keys use dot notation to access nested values.

Examples:
  relaykit config get server.port
  relaykit config get counter.input_file`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a config value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value by key in ~/.relaykit/config.yaml.

Creates the config file if it doesn't exist.

Examples:
  relaykit config set server.port 9000
  relaykit config set journal.enabled true`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configInitLocal, "local", false, "create config in current directory instead of ~/.relaykit/")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	var configPath string

	if configInitLocal {
		configPath = "config.yaml"
	} else {
		configDir, err := config.EnsureConfigDir()
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		configPath = filepath.Join(configDir, "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil && !configInitForce {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", configPath)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config dir: %w", err)
	}

	locations := []string{
		"./config.yaml",
		filepath.Join(configDir, "config.yaml"),
		"/etc/relaykit/config.yaml",
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Config search paths (in order):")
	for i, loc := range locations {
		exists := "not found"
		if _, err := os.Stat(loc); err == nil {
			exists = "exists"
		}
		fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, loc, exists)
	}
	fmt.Fprintf(out, "\nConfig directory: %s\n", configDir)
	fmt.Fprintf(out, "Environment prefix: %s_\n", config.EnvPrefix)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	value, err := getConfigValue(cfg, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	configDir, err := config.EnsureConfigDir()
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	var data map[string]any
	if content, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(content, &data); err != nil {
			return fmt.Errorf("failed to parse existing config: %w", err)
		}
	}
	if data == nil {
		data = make(map[string]any)
	}

	if err := setNestedValue(data, key, value); err != nil {
		return err
	}

	content, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, configPath)
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintf(w, "Host:            %s\n", cfg.Server.Host)
	fmt.Fprintf(w, "Port:            %d\n", cfg.Server.Port)
	fmt.Fprintf(w, "Log Level:       %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "Log Format:      %s\n", cfg.Logging.Format)
	fmt.Fprintf(w, "Counter Initial: %d\n", cfg.Counter.Initial)
	fmt.Fprintf(w, "Input File:      %s\n", valueOrNone(cfg.Counter.InputFile))
	fmt.Fprintf(w, "Debounce:        %dms\n", cfg.Counter.DebounceMS)
	fmt.Fprintf(w, "Journal:         %t\n", cfg.Journal.Enabled)
	if cfg.Journal.Enabled {
		fmt.Fprintf(w, "Journal Path:    %s\n", cfg.Journal.Path)
	}
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// getConfigValue resolves a dotted key against cfg's YAML form.
func getConfigValue(cfg *config.Config, key string) (any, error) {
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(content, &tree); err != nil {
		return nil, err
	}

	var current any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown config key: %s", key)
		}
		if current, ok = m[part]; !ok {
			return nil, fmt.Errorf("unknown config key: %s", key)
		}
	}
	if _, ok := current.(map[string]any); ok {
		return nil, fmt.Errorf("invalid key: %s is a section", key)
	}
	return current, nil
}

func setNestedValue(data map[string]any, key string, value string) error {
	parts := strings.Split(key, ".")

	current := data
	for i := 0; i < len(parts)-1; i++ {
		if _, ok := current[parts[i]]; !ok {
			current[parts[i]] = make(map[string]any)
		}
		nested, ok := current[parts[i]].(map[string]any)
		if !ok {
			return fmt.Errorf("cannot set nested value: %s is not a map", parts[i])
		}
		current = nested
	}

	current[parts[len(parts)-1]] = parseValue(key, value)
	return nil
}

var intKeys = []string{"port", "initial", "debounce_ms", "history_limit"}

func parseValue(key string, value string) any {
	if value == "true" {
		return true
	}
	if value == "false" {
		return false
	}

	for _, k := range intKeys {
		if strings.HasSuffix(key, k) {
			if i, err := strconv.Atoi(value); err == nil {
				return i
			}
		}
	}

	return value
}

const defaultConfigYAML = `# relaykit configuration
# Every key can be overridden with RELAYKIT_<SECTION>_<KEY>, e.g. RELAYKIT_SERVER_PORT.

server:
  # Bind address (use 0.0.0.0 to allow external connections)
  host: "127.0.0.1"
  port: 8790

logging:
  # trace, debug, info, warn, error
  level: "info"
  # console (human-readable) or json
  format: "console"

counter:
  # Value the served counter starts at when the journal has nothing
  initial: 0
  # Optional file whose integer content is pushed into the counter
  # input_file: "./count.txt"
  # Quiet period before a changed file is read (milliseconds)
  debounce_ms: 100

journal:
  # Record every counter value to SQLite and restore it on start
  enabled: false
  # Defaults to ~/.relaykit/journal.db
  # path: ""
  # Maximum entries returned by /api/counter/history
  history_limit: 50
`
