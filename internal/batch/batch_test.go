package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acehaidrey/acelife/internal/extract"
	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/model"
)

func sliceOrderEmail(total string) string {
	return `From: orders@slicelife.com
Subject: New Order
Date: Sun, 14 Mar 2021 18:30:00 -0700
Content-Type: text/plain; charset=utf-8

Order placed at Aroma for DELIVERY

Customer:
John Smith
(949) 555-1234
123 Main St
Lake Forest, CA 92630

Payment Method: Cash
TOTAL: $` + total + `
`
}

const sliceJunkEmail = `From: news@slicelife.com
Subject: Newsletter
Date: Mon, 15 Mar 2021 09:00:00 -0700
Content-Type: text/plain; charset=utf-8

Your weekly Slice newsletter!
`

func writeMbox(t *testing.T, name string, messages ...string) string {
	t.Helper()
	var b strings.Builder
	for _, m := range messages {
		b.WriteString("From sender@example.com Sun Mar 14 18:30:00 2021\n")
		b.WriteString(m)
		b.WriteString("\n")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestRunMboxArchive(t *testing.T) {
	input := writeMbox(t, "Slice.mbox",
		sliceOrderEmail("25.50"),
		sliceOrderEmail("30.25"),
		sliceJunkEmail)
	outDir := t.TempDir()

	res, err := Run(Options{Input: input, OutputDir: outDir})
	require.NoError(t, err)

	assert.Equal(t, model.PlatformSlice, res.Platform)
	assert.False(t, res.ValidationFailed)
	assert.Equal(t, 3, res.Counts.Messages)
	assert.Equal(t, 2, res.Counts.Transactions)
	assert.Equal(t, 1, res.Counts.Errors)
	assert.Equal(t, 1, res.Counts.Customers)

	var transactions []*model.TransactionRecord
	readJSON(t, filepath.Join(outDir, "Slice-transaction.json"), &transactions)
	require.Len(t, transactions, 2)
	assert.Equal(t, "JOHN SMITH", transactions[0].CustomerName)

	var errorRecords []*model.TransactionRecord
	readJSON(t, filepath.Join(outDir, "Slice-error.json"), &errorRecords)
	require.Len(t, errorRecords, 1)
	assert.True(t, errorRecords[0].Error)
	assert.NotEmpty(t, errorRecords[0].Mail)

	var customers []*model.CustomerRecord
	readJSON(t, filepath.Join(outDir, "Slice-customer.json"), &customers)
	require.Len(t, customers, 1)
	assert.Equal(t, int64(9495551234), customers[0].CustomerNumber)
	assert.Equal(t, 2, customers[0].OrderCount)
	assert.Equal(t, 55.75, customers[0].TotalSpend)

	csvData, err := os.ReadFile(filepath.Join(outDir, "Slice-customer.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "JOHN SMITH")
}

func TestRunCSVExport(t *testing.T) {
	const export = `firstName,lastName,phones,emails,totalVisits,averageSpend,lastVisitDate
John,Smith,9495551234,john@example.com,4,25.00,2021-06-01
`
	input := filepath.Join(t.TempDir(), "Toast.csv")
	require.NoError(t, os.WriteFile(input, []byte(export), 0o644))
	outDir := t.TempDir()

	res, err := Run(Options{Input: input, OutputDir: outDir, Store: model.StoreAmeci})
	require.NoError(t, err)

	assert.Equal(t, model.PlatformToast, res.Platform)
	assert.Nil(t, res.Transactions)
	assert.Equal(t, 1, res.Counts.Customers)

	var customers []*model.CustomerRecord
	readJSON(t, filepath.Join(outDir, "Toast-customer.json"), &customers)
	require.Len(t, customers, 1)
	assert.Equal(t, model.StoreAmeci, customers[0].StoreName)

	// CSV exports carry no per-order transactions, so no transaction or
	// error artifacts are written.
	_, err = os.Stat(filepath.Join(outDir, "Toast-transaction.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outDir, "Toast-error.json"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(outDir, "Toast-customer.csv"))
	assert.NoError(t, err)
}

func TestRunRejectsUnknownInput(t *testing.T) {
	_, err := Run(Options{Input: "notes.txt"})
	assert.Error(t, err)
}

func TestRunMissingMbox(t *testing.T) {
	_, err := Run(Options{Input: filepath.Join(t.TempDir(), "Slice.mbox")})
	assert.Error(t, err)
}

func TestArtifactBase(t *testing.T) {
	assert.Equal(t, "Slice", ArtifactBase("archives/Slice.mbox"))
	assert.Equal(t, "Toast-2021", ArtifactBase("Toast-2021.csv"))
	assert.Equal(t, "Grubhub", ArtifactBase("Grubhub"))
}

type panicExtractor struct{}

func (panicExtractor) ExtractTransaction(*mailbox.Message) *model.TransactionRecord {
	panic("boom")
}

func (panicExtractor) ExtractCustomers(extract.CustomerInput) ([]*model.CustomerRecord, error) {
	return nil, nil
}

func TestExtractOneRecoversPanic(t *testing.T) {
	msg := &mailbox.Message{
		Date: time.Date(2021, 3, 14, 18, 0, 0, 0, time.UTC),
		Text: "body",
	}

	r := extractOne(panicExtractor{}, model.PlatformSlice, msg, nil)
	require.NotNil(t, r)
	assert.True(t, r.Error)
	assert.True(t, r.HasErrorTag(model.ErrParsePanic))
	assert.Equal(t, msg.Date, r.OrderDate)
	assert.Equal(t, "body", r.Mail)
}

func TestExtractOneUnreadableMessage(t *testing.T) {
	r := extractOne(panicExtractor{}, model.PlatformSlice, nil, assert.AnError)
	require.NotNil(t, r)
	assert.True(t, r.HasErrorTag(model.ErrParsePanic))
	assert.True(t, r.OrderDate.IsZero())
}

func TestSpendReconciles(t *testing.T) {
	txn := model.NewTransactionRecord(model.PlatformSlice, time.Now())
	txn.OrderAmount = 25.50
	bad := model.NewTransactionRecord(model.PlatformSlice, time.Now())
	bad.OrderAmount = 99.99
	bad.RecordError(model.ErrOrderAmount)

	customer := &model.CustomerRecord{TotalSpend: 25.50}

	// Errored transactions do not count toward the total.
	assert.True(t, spendReconciles(
		[]*model.TransactionRecord{txn, bad},
		[]*model.CustomerRecord{customer}))
	assert.False(t, spendReconciles(
		[]*model.TransactionRecord{txn, bad},
		[]*model.CustomerRecord{customer, {TotalSpend: 0.02}}))
}
