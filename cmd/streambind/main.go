package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/streambind/internal/config"
	"github.com/vango-dev/streambind/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	debug      bool
	logFormat  string
	noColor    bool
}

func main() {
	os.Exit(runRoot(newRootCmd()))
}

// runRoot executes rootCmd and prints any error to its error stream.
func runRoot(rootCmd *cobra.Command) int {
	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "streambind",
		Short: "Drive component re-renders from reactive streams",
		Long: `streambind binds reactive streams passed as component props to the
component's render lifecycle.

Commands:
  serve    Run the live dashboard over WebSocket
  render   Mount the dashboard headless and print every frame
  bench    Load test the dashboard server in-process
  errors   Explain error codes
  version  Print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor || os.Getenv("NO_COLOR") != "" {
				errors.DisableColors()
			} else {
				errors.EnableColors()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file (default: streambind.yaml or streambind.json in the working directory)")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json (default from config)")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		serveCmd(flags),
		renderCmd(flags),
		benchCmd(),
		errorsCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig resolves the configuration and applies flag overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case flags.configPath != "":
		cfg, err = config.LoadFile(flags.configPath)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}

	if flags.debug {
		cfg.Debug = true
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the slog logger described by cfg.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Log.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, errors.New("E122").
			WithDetail(fmt.Sprintf("log.format %q must be text or json", cfg.Log.Format))
	}
	return slog.New(handler), nil
}
