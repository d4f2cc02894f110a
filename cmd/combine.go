package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Acehaidrey/acelife/internal/merge"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/report"
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Combine per-platform customer records into per-store rollups",
	Long: "Reads every *-customer.json artifact in the reports directory, merges customers " +
		"across platforms by phone number, and writes one rollup per store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Output.Dir
		}
		withXLSX, _ := cmd.Flags().GetBool("xlsx")

		customers, err := readCustomerArtifacts(dir)
		if err != nil {
			return err
		}
		if len(customers) == 0 {
			return eris.Errorf("combine: no customer artifacts in %s", dir)
		}

		merged := merge.MergeCustomersByPhone(customers, cfg.Similarity.Threshold)
		var kept []*model.CustomerRecord
		for _, c := range merged {
			if !merge.InformationMissing(c) {
				kept = append(kept, c)
			}
		}

		byStore := make(map[model.Store][]*model.CustomerRecord)
		for _, c := range kept {
			byStore[c.StoreName] = append(byStore[c.StoreName], c)
		}

		for store, records := range byStore {
			base := filepath.Join(dir, string(store)+"-combined-customer")
			if err := report.WriteJSON(base+".json", records); err != nil {
				return err
			}
			if err := report.WriteCustomerCSV(base+".csv", records); err != nil {
				return err
			}
			zap.L().Info("wrote store rollup",
				zap.String("store", string(store)),
				zap.Int("customers", len(records)))
		}

		if withXLSX {
			if err := report.WriteXLSX(filepath.Join(dir, "combined-customer.xlsx"), byStore); err != nil {
				return err
			}
		}
		return nil
	},
}

// readCustomerArtifacts loads every per-platform customer artifact in dir.
// Combined rollups from earlier runs are skipped so combine stays idempotent.
func readCustomerArtifacts(dir string) ([]*model.CustomerRecord, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*-customer.json"))
	if err != nil {
		return nil, eris.Wrap(err, "combine: glob artifacts")
	}

	var customers []*model.CustomerRecord
	for _, path := range paths {
		if strings.HasSuffix(path, "-combined-customer.json") {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "combine: read %s", path)
		}
		var records []*model.CustomerRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, eris.Wrapf(err, "combine: unmarshal %s", path)
		}
		customers = append(customers, records...)
	}
	return customers, nil
}

func init() {
	combineCmd.Flags().String("dir", "", "reports directory holding the per-platform customer artifacts")
	combineCmd.Flags().Bool("xlsx", false, "also write a combined workbook with one sheet per store")

	rootCmd.AddCommand(combineCmd)
}
