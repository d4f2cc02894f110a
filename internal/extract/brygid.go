package extract

import (
	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/merge"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

// brygidRow mirrors the Brygid web-ordering customer export columns.
type brygidRow struct {
	Store     string `csv:"STORE"`
	FirstName string `csv:"FIRST_NAME"`
	LastName  string `csv:"LAST_NAME"`
	Phone     string `csv:"PHONE"`
	Email     string `csv:"EMAIL"`
	Date      string `csv:"DATE"`
	Orders    string `csv:"ORDERS"`
	Purchase  string `csv:"PURCHASE"`
	Street    string `csv:"STREET"`
	SuiteApt  string `csv:"SUITE_APT"`
	City      string `csv:"CITY"`
	State     string `csv:"STATE"`
	Zip       string `csv:"ZIP"`
}

// Brygid derives customer records from the periodic customer export; rows
// without a STORE value are report footer noise and skipped.
type Brygid struct{}

func (b *Brygid) ExtractTransaction(_ *mailbox.Message) *model.TransactionRecord {
	return nil
}

func (b *Brygid) ExtractCustomers(in CustomerInput) ([]*model.CustomerRecord, error) {
	rows, err := decodeCSV[brygidRow](in.CSVPath)
	if err != nil {
		return nil, err
	}
	store := in.Store
	if store == "" {
		store = model.StoreAmeci
	}

	var records []*model.CustomerRecord
	for _, row := range rows {
		if cell(row.Store) == "" {
			continue
		}
		record := model.NewCustomerRecord(store, normalize.FormatPhoneNumber(cell(row.Phone)))
		record.Platforms.Add(string(model.PlatformBrygid))
		record.CustomerNames.Add(normalize.FullName(cell(row.FirstName), cell(row.LastName)))
		record.CustomerEmails.Add(cell(row.Email))
		record.LastOrderDate = normalize.ParseLooseDate(cell(row.Date))
		record.OrderCount = cellInt(row.Orders)
		record.TotalSpend = cellFloat(row.Purchase)

		street := cell(row.Street)
		if suite := cell(row.SuiteApt); street != "" && suite != "" {
			street += " #" + suite
		}
		record.CustomerAddresses.Add(normalize.FullAddress(street, cell(row.City), cell(row.State), cellInt(row.Zip)))
		records = append(records, record)
	}

	return merge.FormatCustomerRecords(records, in.threshold()), nil
}
