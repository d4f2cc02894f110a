package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Acehaidrey/acelife/internal/batch"
	"github.com/Acehaidrey/acelife/internal/extract"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/store"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse one archive or export into transaction and customer records",
	Long: "Infers the platform from the input filename, extracts per-order transactions " +
		"from mbox archives (or customer rows from CSV exports), merges split confirmations, " +
		"and writes the transaction, error, and customer artifacts.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		companion, _ := cmd.Flags().GetString("companion")

		opts := batch.Options{
			Input:     input,
			Companion: companion,
			OutputDir: output,
			Threshold: cfg.Similarity.Threshold,
			Store:     model.Store(cfg.Menufy.Store),
		}

		var ledger store.Ledger
		var run *model.Run
		if cfg.Store.Path != "" {
			l, err := store.NewSQLite(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer l.Close() //nolint:errcheck
			if err := l.Migrate(ctx); err != nil {
				return err
			}
			ledger = l

			platform, err := extract.PlatformFromPath(input)
			if err != nil {
				return err
			}
			run, err = ledger.CreateRun(ctx, platform, input, output)
			if err != nil {
				return err
			}
		}

		res, err := batch.Run(opts)
		if run != nil {
			status := model.RunStatusComplete
			var counts model.RunCounts
			if err != nil || (res != nil && res.ValidationFailed) {
				status = model.RunStatusFailed
			}
			if res != nil {
				counts = res.Counts
			}
			if ferr := ledger.FinishRun(ctx, run.ID, status, counts); ferr != nil {
				zap.L().Warn("record run", zap.Error(ferr))
			}
		}
		if err != nil {
			return err
		}

		if res.ValidationFailed {
			return eris.Errorf("parse: %s run did not reconcile, see log for details", res.Platform)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().String("input", "", "mbox archive or CSV export to parse (required)")
	parseCmd.Flags().String("output", "", "directory for run artifacts; prints customer records to stdout when unset")
	parseCmd.Flags().String("companion", "", "second CSV export for platforms that split customer data across files")
	_ = parseCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(parseCmd)
}
