package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/patzick/explore-openapi-snapshot/internal/term"
	_ "github.com/patzick/explore-openapi-snapshot/pkg/ci/github" // register the GitHub CI integration
	"github.com/patzick/explore-openapi-snapshot/pkg/config"
)

// Global logger instance with consistent styling.
var globalLogger *log.Logger

// configFile holds the path to the config file if specified via --config
// flag.
var configFile string

// initGlobalLogger initializes the global logger with styled levels.
func initGlobalLogger() {
	globalLogger = log.New(os.Stderr)
	globalLogger.SetStyles(&log.Styles{
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().
				SetString("DEBUG").
				Foreground(lipgloss.Color("#3F51B5")),
			log.InfoLevel: lipgloss.NewStyle().
				SetString("INFO").
				Foreground(lipgloss.Color("#4CAF50")),
			log.WarnLevel: lipgloss.NewStyle().
				SetString("WARN").
				Foreground(lipgloss.Color("#FF9800")),
			log.ErrorLevel: lipgloss.NewStyle().
				SetString("ERROR").
				Foreground(lipgloss.Color("#F44336")),
			log.FatalLevel: lipgloss.NewStyle().
				SetString("FATAL").
				Foreground(lipgloss.Color("#F44336")).
				Bold(true),
		},
		Key: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Bold(true),
		Value: lipgloss.NewStyle(),
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")),
	})
	globalLogger.SetLevel(parseLogLevel(viper.GetString("log.level")))
}

func parseLogLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info", "":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".openapi-snapshot")
		viper.SetConfigType("yaml")

		// Search in current and parent directories.
		viper.AddConfigPath(".")
		viper.AddConfigPath("..")
		viper.AddConfigPath("../..")
	}

	config.InitEnvironment()

	// Read config file if it exists (silently, logging happens after
	// logger init).
	_ = viper.ReadInConfig()
}

// Execute is the main entry point for the cobra commands.
func Execute() error {
	// Pre-parse config and log-level flags so the config file and log
	// level apply before command execution.
	var logLevel string
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			configFile = os.Args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			configFile = strings.TrimPrefix(arg, "--config=")
		}
		if arg == "--log-level" && i+1 < len(os.Args) {
			logLevel = os.Args[i+1]
		}
		if strings.HasPrefix(arg, "--log-level=") {
			logLevel = strings.TrimPrefix(arg, "--log-level=")
		}
	}

	initConfig()

	if logLevel != "" {
		viper.Set("log.level", logLevel)
	}

	for _, arg := range os.Args {
		if arg == "--no-color" {
			viper.Set("no_color", true)
			break
		}
	}

	initGlobalLogger()

	profile := term.ConfigureColors()
	globalLogger.SetColorProfile(profile)
	globalLogger.Debug("Color profile configured",
		"profile", term.ProfileName(profile),
		"github_actions", term.IsGitHubActions(),
		"ci", term.IsCI())
	if viper.ConfigFileUsed() != "" {
		globalLogger.Debug("Loaded config file", "file", viper.ConfigFileUsed())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:   "openapi-snapshot",
		Short: "Submit OpenAPI schema snapshots from CI and report results",
		Long: `openapi-snapshot reads an OpenAPI schema document, submits it as a
named snapshot to the snapshot service, and reports the outcome to the
pull-request conversation or the workflow run summary.

Snapshot names are derived from the triggering event (PR number, branch
or tag name) unless overridden, and pull-request snapshots are temporary
by default.`,
		Example: `  # Submit a schema in a pull-request workflow
  openapi-snapshot --schema-file=openapi.json --project=my-api

  # Keep a branch snapshot permanently under an explicit name
  openapi-snapshot --schema-file=openapi.json --project=my-api \
    --snapshot-name=release-candidate --permanent=true

  # Legacy static-token authentication
  openapi-snapshot --schema-file=openapi.json --project=my-api \
    --auth-token=$SNAPSHOT_TOKEN`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flag := cmd.Root().PersistentFlags().Lookup("log-level"); flag != nil {
				_ = viper.BindPFlag("log.level", flag)
			}
			if flag := cmd.Root().PersistentFlags().Lookup("no-color"); flag != nil {
				_ = viper.BindPFlag("no_color", flag)
				if viper.GetBool("no_color") {
					term.ConfigureColors()
				}
			}
			if level := viper.GetString("log.level"); level != "" {
				globalLogger.SetLevel(parseLogLevel(level))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(cmd.Context(), cmd, globalLogger)
		},
	}

	// Persistent flags (available to all subcommands).
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: .openapi-snapshot.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error, fatal (default: info)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")

	// Submission flags.
	rootCmd.Flags().String("schema-file", "", "Path to the schema document to submit")
	rootCmd.Flags().String("project", "", "Project identifier (tenant/namespace) for the snapshot")
	rootCmd.Flags().String("snapshot-name", "", "Override the derived snapshot name")
	rootCmd.Flags().String("permanent", "", "Override retention: true or false (default: derived from event)")
	rootCmd.Flags().String("auth-token", "", "Static auth token (legacy credential)")
	rootCmd.Flags().String("audience", "", "Identity-token audience")
	rootCmd.Flags().String("endpoint", "", "Snapshot service endpoint")
	rootCmd.Flags().String("github-token", "", "GitHub token for PR comment reporting")

	for _, key := range []string{
		config.KeySchemaFile,
		config.KeyProject,
		config.KeySnapshotName,
		config.KeyPermanent,
		config.KeyAuthToken,
		config.KeyAudience,
		config.KeyEndpoint,
		config.KeyGitHubToken,
	} {
		_ = viper.BindPFlag(key, rootCmd.Flags().Lookup(key))
	}

	rootCmd.AddCommand(newVersionCmd())

	// Use Fang to execute with proper signal handling.
	return fang.Execute(ctx, rootCmd)
}
