package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mossgarden/wpnav/internal/api"
	"github.com/mossgarden/wpnav/internal/config"
	"github.com/mossgarden/wpnav/internal/output"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Global flags
var (
	siteURL     string
	username    string
	appPassword string
	anonymous   bool
	outputFmt   string
	outputType  output.Format
	debug       bool
	configFile  string
	queryExpr   string
	queryFile   string
	errorFmt    string
	quietFlag   bool
	resultLimit int
)

// client is the shared API client
var client api.NavAPI

var rootCmd = &cobra.Command{
	Use:   "wpnav",
	Short: "Convert WordPress menus and pages into navigation blocks",
	Long: `wpnav converts classic WordPress navigation menus and page lists
into navigation block trees over the WordPress REST API.

It can list menus and pages, convert a menu (or all top-level pages)
into serialized block markup or block descriptors, and drive the
navigation creation flow interactively.

Environment Variables:
  WPNAV_SITE          Site base URL (e.g. https://example.com)
  WPNAV_USERNAME      WordPress username
  WPNAV_APP_PASSWORD  Application password for authentication`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true

		skipConfigLoad := isConfigCommand(cmd)
		var cfg *config.Config
		if !skipConfigLoad {
			loadedCfg, err := loadConfigFromFlag()
			if err != nil {
				return formatConfigLoadError(err)
			}
			cfg = loadedCfg
		}

		// Output format selection: --output > config > default
		formatStr := outputFmt
		if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") && cfg != nil && strings.TrimSpace(cfg.OutputFormat) != "" {
			formatStr = strings.TrimSpace(cfg.OutputFormat)
		}
		if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") && !isTerminal(cmd.OutOrStdout()) {
			formatStr = "json"
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format
		outputFmt = string(format)

		// jq query
		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = loaded
		}

		// Default quiet mode for non-interactive structured output
		if !flagChanged(cmd, "quiet") && !isTerminal(cmd.OutOrStdout()) && output.IsStructured(outputType) {
			quietFlag = true
		}

		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithQuiet(ctx, quietFlag)
		ctx = output.WithLimit(ctx, resultLimit)
		ctx = WithErrorFormat(ctx, errorFmt)
		cmd.SetContext(ctx)

		if err := validateErrorFormat(errorFmt); err != nil {
			return err
		}
		if effectiveErrorFormat(ctx) != "text" {
			cmd.SilenceUsage = true
		}

		if skipClientInit(cmd) {
			return nil
		}

		// Resolve credentials with consistent precedence.
		site, user, password, mode, err := resolveCredentials(cmd, cfg)
		if err != nil {
			return err
		}
		siteURL = site

		if siteURL == "" {
			return fmt.Errorf("Site URL required. Set WPNAV_SITE or use --site flag.")
		}

		if anonymous {
			mode = api.ModeAnonymous
			user, password = "", ""
		}

		opts := []api.ClientOption{}
		if debug {
			opts = append(opts, api.WithDebug(true))
		}
		client, err = newClientFromCredsFunc(siteURL, user, password, mode, opts...)
		if err != nil {
			return fmt.Errorf("failed to create API client: %w", err)
		}
		return nil
	},
}

// isConfigCommand reports whether cmd is `config` or one of its children.
func isConfigCommand(cmd *cobra.Command) bool {
	return cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
}

// skipClientInit reports whether cmd runs without an API client.
func skipClientInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "login", "logout", "status", "config", "completion", "help", "version":
		return true
	}
	if cmd.Parent() != nil {
		switch cmd.Parent().Name() {
		case "config", "auth", "completion":
			return true
		}
		// `convert empty` needs no site at all.
		if cmd.Parent().Name() == "convert" && cmd.Name() == "empty" {
			return true
		}
	}
	// Neither does `create --from empty`.
	if cmd.Name() == "create" && strings.EqualFold(strings.TrimSpace(createFrom), "empty") {
		return true
	}
	return false
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printCommandError(rootCmd.Context(), err)
		return err
	}
	return nil
}

// GetClient returns the initialized API client
func GetClient() api.NavAPI {
	return client
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("wpnav version %s (commit: %s, built: %s)\n", version, commit, date))

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&siteURL, "site", "s", "", "Site base URL (env: WPNAV_SITE)")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "", "WordPress username (env: WPNAV_USERNAME)")
	rootCmd.PersistentFlags().StringVar(&appPassword, "password", "", "Application password (env: WPNAV_APP_PASSWORD)")
	rootCmd.PersistentFlags().BoolVar(&anonymous, "anonymous", false, "Skip authentication (public endpoints only)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "format", "text", "Alias for --output")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	rootCmd.PersistentFlags().StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().IntVar(&resultLimit, "result-limit", 0, "Limit number of results in output (0 = unlimited)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/wpnav/config.yaml)")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
