package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dshills/bbake/internal/config"
	"github.com/dshills/bbake/internal/resolve"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Exit codes. ExitMissing is -1, which the shell sees as 255.
const (
	ExitSuccess      = 0
	ExitRuntimeError = 1
	ExitUsageError   = 2
	ExitMissing      = -1
)

var logLevels = []string{"debug", "info", "warn", "error"}

var flagLogLevel = newChoice("warn", logLevels...)

// lookupEnv supplies BBAKE_ variables; tests replace it.
var lookupEnv = config.OSEnv

// logger is set up by the root command before any subcommand runs.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var rootCmd = &cobra.Command{
	Use:   "bbake",
	Short: "Benchmark configuration and block metrics",
	Long: `bbake resolves layered JSON profiles and BBAKE_ environment overrides into
a bench.json for a benchmark network, and computes throughput metrics from
the blocks database a collector records.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(cmd.ErrOrStderr(), flagLogLevel.String())
		return nil
	},
}

// Run executes the root command against the process arguments and returns
// an exit code.
func Run() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	code := exitCodeFor(err)
	if err != nil && code != ExitMissing {
		// missing values were already reported with the document
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}

func exitCodeFor(err error) int {
	var uerr *usageError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, resolve.ErrMissing):
		return ExitMissing
	case errors.As(err, &uerr), errors.Is(err, resolve.ErrInvalidChoice):
		return ExitUsageError
	case strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsageError
	default:
		return ExitRuntimeError
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print bbake version",
	Args:  usageArgs(cobra.NoArgs),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bbake version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().Var(flagLogLevel, "log-level", "Log level: "+strings.Join(logLevels, ", "))
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.AddCommand(newConfigCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(requireCmd)
	rootCmd.AddCommand(shellExportCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(versionCmd)
}
