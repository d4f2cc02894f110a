package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/Acehaidrey/acelife/internal/model"
)

func sampleCustomer() *model.CustomerRecord {
	c := model.NewCustomerRecord(model.StoreAroma, 9495551234)
	c.Platforms.Add("SLICE")
	c.Platforms.Add("TOAST")
	c.CustomerNames.Add("JOHN SMITH")
	c.CustomerAddresses.Add("123 MAIN ST, LAKE FOREST, CA 92630")
	c.CustomerEmails.Add("john@example.com")
	c.CustomerEmails.Add("j.smith@example.com")
	c.FirstOrderDate = time.Date(2021, 1, 5, 10, 0, 0, 0, time.UTC)
	c.LastOrderDate = time.Date(2021, 6, 1, 20, 0, 0, 0, time.UTC)
	c.OrderCount = 5
	c.TotalSpend = 125.50
	return c
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "customers.json")
	require.NoError(t, WriteJSON(path, []*model.CustomerRecord{sampleCustomer()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []*model.CustomerRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, int64(9495551234), decoded[0].CustomerNumber)
	assert.Equal(t, []string{"SLICE", "TOAST"}, decoded[0].Platforms.Values())
	assert.Equal(t, 125.50, decoded[0].TotalSpend)
}

func TestWriteJSONLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteJSON(filepath.Join(dir, "x.json"), map[string]int{"a": 1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x.json", entries[0].Name())
}

func TestExpandCustomerOneRowPerEmail(t *testing.T) {
	rows := expandCustomer(sampleCustomer())
	require.Len(t, rows, 2)

	assert.Equal(t, "SLICE;TOAST", rows[0].Platforms)
	assert.Equal(t, "AROMA", rows[0].StoreName)
	assert.Equal(t, "john@example.com", rows[0].CustomerEmail)
	assert.Equal(t, "j.smith@example.com", rows[1].CustomerEmail)
	assert.Equal(t, "2021-01-05", rows[0].FirstOrderDate)
	assert.Equal(t, "2021-06-01", rows[0].LastOrderDate)
	assert.Equal(t, 5, rows[0].OrderCount)
}

func TestExpandCustomerNoEmails(t *testing.T) {
	c := model.NewCustomerRecord(model.StoreAmeci, 9495559876)
	c.CustomerNames.Add("JANE DOE")

	rows := expandCustomer(c)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].CustomerEmail)
	assert.Empty(t, rows[0].FirstOrderDate)
}

func TestWriteCustomerCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, WriteCustomerCSV(path, []*model.CustomerRecord{sampleCustomer()}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + one row per email

	header := strings.Join(records[0], ",")
	assert.Equal(t, "platforms,storeName,customerNumber,customerNames,customerAddresses,customerEmails,lastOrderDate,firstOrderDate,orderCount,totalSpend", header)
	assert.Equal(t, "SLICE;TOAST", records[1][0])
	assert.Equal(t, "9495551234", records[1][2])
	assert.Equal(t, "john@example.com", records[1][5])
	assert.Equal(t, "j.smith@example.com", records[2][5])
}

func TestWriteXLSXSheetPerStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined.xlsx")

	ameci := model.NewCustomerRecord(model.StoreAmeci, 9495559876)
	ameci.CustomerNames.Add("JANE DOE")

	byStore := map[model.Store][]*model.CustomerRecord{
		model.StoreAroma: {sampleCustomer()},
		model.StoreAmeci: {ameci},
	}
	require.NoError(t, WriteXLSX(path, byStore))

	wb, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2)

	// Sheets are sorted by store name for stable output.
	assert.Equal(t, "AMECI", wb.Sheets[0].Name)
	assert.Equal(t, "AROMA", wb.Sheets[1].Name)

	aroma := wb.Sheets[1]
	require.GreaterOrEqual(t, len(aroma.Rows), 3)
	assert.Equal(t, "platforms", aroma.Rows[0].Cells[0].String())
	assert.Equal(t, "SLICE;TOAST", aroma.Rows[1].Cells[0].String())
}
