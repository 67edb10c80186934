package main

import (
	"context"
	"fmt"
	"os"

	"github.com/meschbach/tradeingest/internal/bench"
	"github.com/meschbach/tradeingest/internal/junk"
	"github.com/meschbach/tradeingest/internal/menu"
	"github.com/meschbach/tradeingest/internal/model"
	"github.com/meschbach/tradeingest/pkg/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	opts := sessionOptions{configFile: "config.txt"}
	var count int
	var threshold string

	parseThreshold := func() (decimal.Decimal, error) {
		value, err := decimal.NewFromString(threshold)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("threshold %q: %w", threshold, err)
		}
		return value, nil
	}

	interactive := func(cmd *cobra.Command, args []string) error {
		limit, err := parseThreshold()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		return withSession(cmd.Context(), "tradeingest.interactive", opts, out, func(ctx context.Context, s store.Store) error {
			runner := bench.NewRunner(s, out)
			dispatcher := menu.NewDispatcher(runner, menu.NewAsyncInput(cmd.InOrStdin()), out, menu.WithThreshold(limit))
			return dispatcher.Run(ctx)
		})
	}

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "Presents the menu of store operations",
		RunE:  interactive,
	}

	bulk := &cobra.Command{
		Use:   "bulk",
		Short: "Generates trades and stores them through the bulk ingestion path",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withSession(cmd.Context(), "tradeingest.bulk", opts, out, func(ctx context.Context, s store.Store) error {
				result, err := bench.NewRunner(s, out).BulkStore(ctx, model.GenerateSampleData(count))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Execution time: %dms\n", result.Milliseconds())
				return nil
			})
		},
	}

	batch := &cobra.Command{
		Use:   "batch",
		Short: "Generates trades and stores them through the generic SQL batch path",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withSession(cmd.Context(), "tradeingest.batch", opts, out, func(ctx context.Context, s store.Store) error {
				result := bench.NewRunner(s, out).BatchInsert(ctx, model.GenerateSampleData(count))
				if result.Err != nil {
					return result.Err
				}
				fmt.Fprintf(out, "Execution time: %dms\n", result.Milliseconds())
				return nil
			})
		},
	}

	compare := &cobra.Command{
		Use:   "compare",
		Short: "Stores the same generated trades through both paths and reports the difference",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withSession(cmd.Context(), "tradeingest.compare", opts, out, func(ctx context.Context, s store.Store) error {
				_, err := bench.NewRunner(s, out).Compare(ctx, model.GenerateSampleData(count))
				return err
			})
		},
	}

	for _, c := range []*cobra.Command{bulk, batch, compare} {
		c.Flags().IntVarP(&count, "count", "n", 1000, "Number of trades to generate")
	}

	view := &cobra.Command{
		Use:   "view",
		Short: "Retrieves stored trades, rewriting each stock name through the cursor",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := parseThreshold()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			keep := opts
			keep.skipReset = true
			return withSession(cmd.Context(), "tradeingest.view", keep, out, func(ctx context.Context, s store.Store) error {
				result, err := bench.NewRunner(s, out).ViewAll(ctx, limit)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Execution time: %dms\n", result.Milliseconds())
				return nil
			})
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Deletes the trade extent and imports the schema again",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), "tradeingest.reset", opts, cmd.OutOrStdout(), func(ctx context.Context, s store.Store) error {
				return nil
			})
		},
	}

	root := &cobra.Command{
		Use:           "tradeingest",
		Short:         "Compares bulk ingestion against generic SQL batch inserts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          interactive,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", opts.configFile, "key:value connection file")
	root.PersistentFlags().StringVar(&opts.envPrefix, "env-prefix", "", "Prefix applied to TRADEINGEST_* environment overrides")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Report each schema migration step")
	root.PersistentFlags().StringVarP(&threshold, "threshold", "t", "0", "Only retrieve trades priced above this")
	junk.Must(root.MarkPersistentFlagFilename("config", "txt"))
	root.AddCommand(interactiveCmd, bulk, batch, compare, view, reset)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Encountered error while servicing request: %s\n", err.Error())
		os.Exit(-1)
	}
}
