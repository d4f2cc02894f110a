package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acehaidrey/acelife/internal/model"
)

const toastExport = `firstName,lastName,phones,emails,totalVisits,averageSpend,lastVisitDate
John,Smith,9495551234,john@example.com,4,25.00,2021-06-01
Jane,Doe,9495559876;9495550000,jane@example.com;j.doe@example.com,2,10.00,2021-03-14
,,,,,0,
`

func TestToastExport(t *testing.T) {
	path := writeCSV(t, "Toast.csv", toastExport)

	customers, err := (&Toast{}).ExtractCustomers(CustomerInput{CSVPath: path})
	require.NoError(t, err)
	require.Len(t, customers, 3)

	john := customers[0]
	assert.Equal(t, model.StoreAroma, john.StoreName)
	assert.Equal(t, int64(9495551234), john.CustomerNumber)
	assert.Equal(t, []string{"JOHN SMITH"}, john.CustomerNames.Values())
	assert.Equal(t, []string{"john@example.com"}, john.CustomerEmails.Values())
	assert.Equal(t, 4, john.OrderCount)
	// Spend is reconstructed from average x visits.
	assert.Equal(t, 100.0, john.TotalSpend)
	assert.Equal(t, "2021-06-01", john.LastOrderDate.Format("2006-01-02"))

	// Jane's two phones stay distinct identities.
	assert.Equal(t, int64(9495559876), customers[1].CustomerNumber)
	assert.Equal(t, int64(9495550000), customers[2].CustomerNumber)
	assert.ElementsMatch(t, []string{"jane@example.com", "j.doe@example.com"}, customers[1].CustomerEmails.Values())
}

func TestToastSkipsEmptyRows(t *testing.T) {
	path := writeCSV(t, "Toast.csv", "firstName,lastName,phones,emails,totalVisits,averageSpend,lastVisitDate\n,,,,,,\n")

	customers, err := (&Toast{}).ExtractCustomers(CustomerInput{CSVPath: path})
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestToastStoreOverride(t *testing.T) {
	path := writeCSV(t, "Toast.csv", "firstName,lastName,phones,emails,totalVisits,averageSpend,lastVisitDate\nJohn,Smith,9495551234,,1,5.00,\n")

	customers, err := (&Toast{}).ExtractCustomers(CustomerInput{CSVPath: path, Store: model.StoreAmeci})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, model.StoreAmeci, customers[0].StoreName)
}

func TestSplitMultiValue(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitMultiValue("a; b"))
	assert.Equal(t, []string{"a"}, splitMultiValue("a;"))
	assert.Nil(t, splitMultiValue(""))
	assert.Nil(t, splitMultiValue("NULL"))
}
