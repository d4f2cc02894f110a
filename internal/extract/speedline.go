package extract

import (
	"strings"

	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/merge"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

// speedlineRow mirrors the SpeedLine POS customer export columns.
type speedlineRow struct {
	Phone           string `csv:"Phone"`
	FirstName       string `csv:"FirstName"`
	LastName        string `csv:"LastName"`
	Email           string `csv:"Email"`
	FirstOrder      string `csv:"FirstOrder"`
	LastOrder       string `csv:"LastOrder"`
	TotalOrders     string `csv:"TotalOrders"`
	TotalOrderValue string `csv:"TotalOrderValue"`
	StreetNumber    string `csv:"StreetNumber"`
	StreetName      string `csv:"StreetName"`
	Apartment       string `csv:"Apartment"`
	City            string `csv:"City"`
	State           string `csv:"State"`
	Zip             string `csv:"Zip"`
}

// Speedline derives customer records from the POS customer export. Street
// addresses arrive decomposed (number, name, apartment) and are recomposed
// here; missing zipcodes are inferred from the city when possible.
type Speedline struct{}

func (s *Speedline) ExtractTransaction(_ *mailbox.Message) *model.TransactionRecord {
	return nil
}

func (s *Speedline) ExtractCustomers(in CustomerInput) ([]*model.CustomerRecord, error) {
	rows, err := decodeCSV[speedlineRow](in.CSVPath)
	if err != nil {
		return nil, err
	}
	store := in.Store
	if store == "" {
		store = model.StoreAmeci
	}

	var records []*model.CustomerRecord
	for _, row := range rows {
		record := model.NewCustomerRecord(store, normalize.FormatPhoneNumber(cell(row.Phone)))
		record.Platforms.Add(string(model.PlatformSpeedline))
		record.CustomerNames.Add(normalize.FullName(cell(row.FirstName), cell(row.LastName)))
		record.CustomerEmails.Add(cell(row.Email))
		record.FirstOrderDate = normalize.ParseLooseDate(cell(row.FirstOrder))
		record.LastOrderDate = normalize.ParseLooseDate(cell(row.LastOrder))
		record.OrderCount = cellInt(row.TotalOrders)
		record.TotalSpend = cellFloat(row.TotalOrderValue)

		if street := s.composeStreet(row); street != "" {
			city := cell(row.City)
			zip := normalize.ZipForCity(cellInt(row.Zip), city)
			state := normalize.ShortStateName(cell(row.State))
			record.CustomerAddresses.Add(normalize.FullAddress(street, city, state, zip))
		}

		if !merge.InformationMissing(record) {
			records = append(records, record)
		}
	}

	return merge.MergeCustomersByPhone(records, in.threshold()), nil
}

func (s *Speedline) composeStreet(row speedlineRow) string {
	var parts []string
	if num := normalize.FormatString(cell(row.StreetNumber)); num != "" {
		parts = append(parts, num)
	}
	if name := normalize.FormatString(cell(row.StreetName)); name != "" {
		parts = append(parts, name)
	}
	street := strings.Join(parts, " ")
	if apt := normalize.FormatString(cell(row.Apartment)); apt != "" && street != "" {
		street += " #" + strings.ReplaceAll(apt, "#", "")
	}
	return street
}
