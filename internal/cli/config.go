package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-studyguide/internal/config"
)

// configEnvVars maps each key to its environment fallback, for display.
var configEnvVars = map[string]string{
	config.KeyOutputDir:    config.EnvOutputDir,
	config.KeyDBPath:       config.EnvDBPath,
	config.KeyFrontendURL:  config.EnvFrontendURL,
	config.KeyLogMode:      config.EnvLogMode,
	config.KeyLanguage:     config.EnvLanguage,
	config.KeyGroqModels:   config.EnvGroqModels,
	config.KeyGeminiModels: config.EnvGeminiModels,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/go-studyguide/config.
Settings can also be overridden via environment variables.
API keys are never stored here; put them in .env.

Supported settings:
  output-dir     Default directory for analyze output (env: STUDYGUIDE_OUTPUT_DIR)
  db-path        History database file, or "off" (env: STUDYGUIDE_DB_PATH)
  frontend-url   Origin allowed by the API's CORS policy (env: FRONTEND_URL)
  log-mode       dev, prod or silent (env: STUDYGUIDE_LOG_MODE)
  lang           Preferred caption language (env: STUDYGUIDE_LANG)
  groq-models    Comma-separated Groq models, in try order (env: STUDYGUIDE_GROQ_MODELS)
  gemini-models  Comma-separated Gemini models, in try order (env: STUDYGUIDE_GEMINI_MODELS)`,
		Example: `  studyguide config set output-dir ~/Documents/study
  studyguide config set log-mode prod
  studyguide config get db-path
  studyguide config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Values are validated before saving. output-dir is created if missing.`,
		Example: `  studyguide config set output-dir ~/Documents/study
  studyguide config set groq-models llama-3.3-70b-versatile,llama-3.1-8b-instant`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  studyguide config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable overrides.`,
		Example: `  studyguide config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if err := config.Validate(key, value); err != nil {
		return err
	}

	// Store paths expanded for consistency.
	switch key {
	case config.KeyOutputDir, config.KeyDBPath:
		value = config.ExpandPath(value)
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if !config.IsKey(key) {
		return config.Validate(key, "")
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		value = env.Getenv(configEnvVars[key])
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}
	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for key, envVar := range configEnvVars {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(envVar); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys() {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(env.Stdout, "%s=%s\n", key, strings.TrimSpace(data[key]))
	}
	return nil
}
