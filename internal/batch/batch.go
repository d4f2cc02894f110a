// Package batch orchestrates a parse run: read an input archive, extract
// per-order transactions, merge them, roll them into customer records, and
// write the run artifacts.
package batch

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Acehaidrey/acelife/internal/extract"
	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/merge"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/report"
)

// Options configures one parse run.
type Options struct {
	// Input is the mbox archive or CSV export to parse. The platform is
	// inferred from its name.
	Input string
	// Companion is the optional second CSV for platforms that split their
	// exports (Menufy addresses + emails).
	Companion string
	// OutputDir receives the run artifacts. Empty means print the customer
	// records to stdout instead of writing files.
	OutputDir string
	// Threshold is the similarity cutoff for fuzzy record matching; zero
	// means the default.
	Threshold float64
	// Store overrides the store identity for exports without a store column.
	Store model.Store
}

// Result is everything a parse run produced.
type Result struct {
	Platform     model.Platform
	Transactions []*model.TransactionRecord
	Errors       []*model.TransactionRecord
	Customers    []*model.CustomerRecord
	Counts       model.RunCounts

	// ValidationFailed is set when the reconciliation checks do not add up:
	// some parsed data was lost between extraction and aggregation.
	ValidationFailed bool
}

// Run executes one parse over opts.Input and writes its artifacts.
func Run(opts Options) (*Result, error) {
	platform, err := extract.PlatformFromPath(opts.Input)
	if err != nil {
		return nil, err
	}
	ext, err := extract.ForPlatform(platform)
	if err != nil {
		return nil, err
	}

	res := &Result{Platform: platform}
	if strings.HasSuffix(strings.ToLower(opts.Input), ".csv") {
		err = runCSV(ext, opts, res)
	} else {
		err = runMbox(ext, platform, opts, res)
	}
	if err != nil {
		return nil, err
	}

	if err := writeArtifacts(opts, res); err != nil {
		return nil, err
	}
	return res, nil
}

func runCSV(ext extract.Extractor, opts Options, res *Result) error {
	customers, err := ext.ExtractCustomers(extract.CustomerInput{
		CSVPath:      opts.Input,
		CompanionCSV: opts.Companion,
		Store:        opts.Store,
		Threshold:    opts.Threshold,
	})
	if err != nil {
		return err
	}
	res.Customers = customers
	res.Counts.Customers = len(customers)
	zap.L().Info("parsed csv export",
		zap.String("platform", string(res.Platform)),
		zap.Int("customers", len(customers)))
	return nil
}

func runMbox(ext extract.Extractor, platform model.Platform, opts Options, res *Result) error {
	f, err := os.Open(opts.Input)
	if err != nil {
		return eris.Wrap(err, "batch: open mbox")
	}
	defer f.Close()

	var transactions, errorRecords []*model.TransactionRecord
	count, err := mailbox.EachMessage(f, func(msg *mailbox.Message, err error) error {
		record := extractOne(ext, platform, msg, err)
		if record == nil {
			return nil
		}
		if record.Error {
			if record.Mail == "" && msg != nil {
				record.Mail = mailBody(msg)
			}
			errorRecords = append(errorRecords, record)
		} else {
			transactions = append(transactions, record)
		}
		return nil
	})
	if err != nil {
		return eris.Wrap(err, "batch: read mbox")
	}

	res.Counts.Messages = count
	res.Counts.Transactions = len(transactions)
	res.Counts.Errors = len(errorRecords)
	if count != len(transactions)+len(errorRecords) {
		zap.L().Error("message count does not reconcile",
			zap.Int("messages", count),
			zap.Int("transactions", len(transactions)),
			zap.Int("errors", len(errorRecords)))
		res.ValidationFailed = true
	}

	// The full archive has been read; only now is it safe to merge split
	// confirmations and roll up customer histories.
	merged := merge.MergeRecords(transactions)
	res.Transactions = merged
	res.Errors = merge.RemoveFalseErrorRecords(merged, errorRecords)

	customers, err := ext.ExtractCustomers(extract.CustomerInput{
		Transactions: merged,
		Threshold:    opts.Threshold,
	})
	if err != nil {
		return err
	}
	res.Customers = customers
	res.Counts.Customers = len(customers)

	if !spendReconciles(merged, customers) {
		zap.L().Error("customer spend does not reconcile with transactions",
			zap.String("platform", string(platform)))
		res.ValidationFailed = true
	}

	zap.L().Info("parsed mbox archive",
		zap.String("platform", string(platform)),
		zap.Int("messages", count),
		zap.Int("transactions", len(merged)),
		zap.Int("errors", len(res.Errors)),
		zap.Int("customers", len(customers)))
	return nil
}

// extractOne parses a single message, turning parse failures and extractor
// panics into error records instead of aborting the stream.
func extractOne(ext extract.Extractor, platform model.Platform, msg *mailbox.Message, readErr error) (record *model.TransactionRecord) {
	if readErr != nil {
		zap.L().Warn("unreadable message", zap.Error(readErr))
		record = model.NewTransactionRecord(platform, time.Time{})
		record.RecordError(model.ErrParsePanic)
		return record
	}
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("extractor panic", zap.Any("panic", r))
			record = model.NewTransactionRecord(platform, msg.Date)
			record.RecordError(model.ErrParsePanic)
			record.Mail = mailBody(msg)
		}
	}()
	record = ext.ExtractTransaction(msg)
	if record != nil && record.OrderDate.IsZero() {
		record.RecordError(model.ErrOrderDate)
	}
	return record
}

func mailBody(msg *mailbox.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	return msg.HTML
}

// spendReconciles checks, to the cent, that the aggregated customer spend
// equals the total of the merged clean transactions.
func spendReconciles(transactions []*model.TransactionRecord, customers []*model.CustomerRecord) bool {
	var txTotal, custTotal float64
	for _, r := range transactions {
		if !r.Error {
			txTotal += r.OrderAmount
		}
	}
	for _, c := range customers {
		custTotal += c.TotalSpend
	}
	return math.Abs(cents(txTotal)-cents(custTotal)) < 1
}

func cents(x float64) float64 {
	return math.Round(x * 100)
}

// ArtifactBase derives the artifact name prefix from the input filename.
func ArtifactBase(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeArtifacts(opts Options, res *Result) error {
	if opts.OutputDir == "" {
		return report.EncodeJSON(os.Stdout, res.Customers)
	}

	base := filepath.Join(opts.OutputDir, ArtifactBase(opts.Input))
	if res.Transactions != nil {
		if err := report.WriteJSON(base+"-transaction.json", res.Transactions); err != nil {
			return err
		}
	}
	if res.Errors != nil {
		if err := report.WriteJSON(base+"-error.json", res.Errors); err != nil {
			return err
		}
	}
	if err := report.WriteJSON(base+"-customer.json", res.Customers); err != nil {
		return err
	}
	return report.WriteCustomerCSV(base+"-customer.csv", res.Customers)
}
