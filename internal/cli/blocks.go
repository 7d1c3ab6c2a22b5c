package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/bbake/internal/blocks"
	"github.com/dshills/bbake/internal/frame"
	"github.com/dshills/bbake/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagDB        string
	flagFirst     int64
	flagLast      int64
	flagTimescale float64
	flagPrefix    string
	flagFormat    = newChoice("text", output.Formats...)
	flagOut       string
	flagSeries    bool
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Inspect a collector blocks database",
}

var blocksRangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Print the lowest and highest recorded block",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := blocks.Open(cmd.Context(), flagDB)
		if err != nil {
			return err
		}
		defer store.Close()

		b := store.Bounds()
		fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", b.First, b.Last)
		return nil
	},
}

var blocksStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute block time, TPS and gas rates over a block range",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := blocks.Open(ctx, flagDB)
		if err != nil {
			return err
		}
		defer store.Close()

		var first, last *int64
		if cmd.Flags().Changed("first") {
			first = &flagFirst
		}
		if cmd.Flags().Changed("last") {
			last = &flagLast
		}
		r, err := store.CheckRange(first, last)
		if err != nil {
			return err
		}
		logger.Debug("block range", slog.Int64("first", r.First), slog.Int64("last", r.Last))

		bs, err := store.Load(ctx, r)
		if err != nil {
			return err
		}
		st, err := store.Stats(ctx, r)
		if err != nil {
			return err
		}
		f, err := frame.Combined(bs, flagTimescale)
		if err != nil {
			return err
		}

		format := flagFormat.String()
		report := output.NewReport(flagPrefix, store.Path(), r, st, f, flagSeries || format == "csv")
		if err := output.WriteReport(cmd.OutOrStdout(), report, format, flagOut); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		if flagOut != "" {
			logger.Info("report written", slog.String("path", flagOut), slog.String("format", format))
		}
		return nil
	},
}

func init() {
	blocksCmd.PersistentFlags().StringVar(&flagDB, "db", "blocks.db", "Blocks database written by the collector")

	f := blocksStatsCmd.Flags()
	f.Int64Var(&flagFirst, "first", 0, "First block (default lowest recorded)")
	f.Int64Var(&flagLast, "last", 0, "Last block; 0 or less means highest recorded")
	f.Float64Var(&flagTimescale, "timescale", 0, "Divide timestamps by this first, e.g. 1e9 for raft nanoseconds")
	f.StringVar(&flagPrefix, "prefix", "", "Report title prefix")
	f.Var(flagFormat, "format", "Output format: "+strings.Join(output.Formats, ", "))
	f.StringVarP(&flagOut, "out", "o", "", "Write the report to a file instead of stdout")
	f.BoolVar(&flagSeries, "series", false, "Include the per-block series")

	blocksCmd.AddCommand(blocksRangeCmd)
	blocksCmd.AddCommand(blocksStatsCmd)
}
