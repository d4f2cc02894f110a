package extract

import (
	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/merge"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

// menufyRow spans both Menufy report schemas. The delivery-address export
// carries phone and address columns, the customer-email export carries email
// and order-date columns; whichever file a row came from leaves the other
// schema's fields empty.
type menufyRow struct {
	FirstName  string `csv:"First Name"`
	LastName   string `csv:"Last Name"`
	Phone      string `csv:"Phone"`
	Email      string `csv:"Email"`
	Address1   string `csv:"Address1"`
	City       string `csv:"City"`
	State      string `csv:"State"`
	ZipCode    string `csv:"ZipCode"`
	FirstOrder string `csv:"First Order Date"`
	LastOrder  string `csv:"Last Order Date"`
}

// Menufy derives customer records from the two Menufy reports. Neither file
// carries a shared customer id, so rows are joined on the exact full name
// when a companion file is supplied.
type Menufy struct{}

func (m *Menufy) ExtractTransaction(_ *mailbox.Message) *model.TransactionRecord {
	return nil
}

func (m *Menufy) ExtractCustomers(in CustomerInput) ([]*model.CustomerRecord, error) {
	rows, err := decodeCSV[menufyRow](in.CSVPath)
	if err != nil {
		return nil, err
	}
	if in.CompanionCSV != "" {
		companion, err := decodeCSV[menufyRow](in.CompanionCSV)
		if err != nil {
			return nil, err
		}
		rows = append(rows, companion...)
	}
	store := in.Store
	if store == "" {
		store = model.StoreAroma
	}

	byName := make(map[string]*model.CustomerRecord)
	var order []string
	for _, row := range rows {
		name := normalize.FullName(cell(row.FirstName), cell(row.LastName))
		if name == "" {
			continue
		}
		record, ok := byName[name]
		if !ok {
			record = model.NewCustomerRecord(store, 0)
			record.Platforms.Add(string(model.PlatformMenufy))
			record.CustomerNames.Add(name)
			byName[name] = record
			order = append(order, name)
		}
		m.applyRow(record, row)
	}

	var records []*model.CustomerRecord
	for _, name := range order {
		record := byName[name]
		if !merge.InformationMissing(record) {
			records = append(records, record)
		}
	}

	return merge.MergeCustomersByPhone(records, in.threshold()), nil
}

func (m *Menufy) applyRow(record *model.CustomerRecord, row menufyRow) {
	if phone := normalize.FormatPhoneNumber(cell(row.Phone)); phone != 0 {
		record.CustomerNumber = phone
	}
	record.CustomerEmails.Add(cell(row.Email))
	if street := normalize.FormatString(cell(row.Address1)); street != "" {
		state := normalize.ShortStateName(cell(row.State))
		zip := normalize.ZipForCity(cellInt(row.ZipCode), cell(row.City))
		record.CustomerAddresses.Add(normalize.FullAddress(street, cell(row.City), state, zip))
	}
	record.ExtendDates(normalize.ParseLooseDate(cell(row.FirstOrder)))
	record.ExtendDates(normalize.ParseLooseDate(cell(row.LastOrder)))
}
