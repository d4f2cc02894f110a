package extract

import (
	"strings"

	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/merge"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

// toastRow mirrors the Toast POS customer-report columns.
type toastRow struct {
	FirstName     string `csv:"firstName"`
	LastName      string `csv:"lastName"`
	Phones        string `csv:"phones"`
	Emails        string `csv:"emails"`
	TotalVisits   string `csv:"totalVisits"`
	AverageSpend  string `csv:"averageSpend"`
	LastVisitDate string `csv:"lastVisitDate"`
}

// Toast derives customer records from the POS customer report; order
// confirmation emails carry no reliable per-order signal. Rows may list
// several phones and emails joined with semicolons; each phone becomes its
// own record and the phone merge pass reconciles them.
type Toast struct{}

func (t *Toast) ExtractTransaction(_ *mailbox.Message) *model.TransactionRecord {
	return nil
}

func (t *Toast) ExtractCustomers(in CustomerInput) ([]*model.CustomerRecord, error) {
	rows, err := decodeCSV[toastRow](in.CSVPath)
	if err != nil {
		return nil, err
	}
	store := in.Store
	if store == "" {
		store = model.StoreAroma
	}

	var records []*model.CustomerRecord
	for _, row := range rows {
		phones := splitMultiValue(row.Phones)
		if len(phones) == 0 {
			phones = []string{""}
		}
		for _, phone := range phones {
			record := model.NewCustomerRecord(store, normalize.FormatPhoneNumber(phone))
			record.Platforms.Add(string(model.PlatformToast))
			record.CustomerNames.Add(normalize.FullName(cell(row.FirstName), cell(row.LastName)))
			record.OrderCount = cellInt(row.TotalVisits)
			record.TotalSpend = cellFloat(row.AverageSpend) * float64(record.OrderCount)
			record.LastOrderDate = normalize.ParseLooseDate(cell(row.LastVisitDate))
			for _, email := range splitMultiValue(row.Emails) {
				record.CustomerEmails.Add(email)
			}
			if !merge.InformationMissing(record) {
				records = append(records, record)
			}
		}
	}

	return merge.MergeCustomersByPhone(records, in.threshold()), nil
}

// splitMultiValue splits a semicolon-joined cell into its non-empty parts.
func splitMultiValue(s string) []string {
	var out []string
	for _, part := range strings.Split(cell(s), ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
