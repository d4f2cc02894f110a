package extract

import (
	"regexp"
	"strings"

	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

var (
	doordashCustomerNameRe = regexp.MustCompile(`from (.*) for`)
	doordashStoreNameRe    = regexp.MustCompile(`(?i)for (Aroma|Ameci)`)
	doordashOrderIDRe      = regexp.MustCompile(`Order #\s*(\w+)`)
)

// Doordash extracts everything it can from the subject line alone; the body
// is a PDF attachment the pipeline treats as opaque. Aggregation keys on
// customer name since the subject carries no phone number.
type Doordash struct{}

func (d *Doordash) ExtractTransaction(msg *mailbox.Message) *model.TransactionRecord {
	record := model.NewTransactionRecord(model.PlatformDoordash, msg.Date)
	subject := msg.Subject

	if m := doordashCustomerNameRe.FindStringSubmatch(subject); m != nil {
		record.CustomerName = normalize.FormatString(strings.ToUpper(m[1]))
	} else {
		record.RecordError(model.ErrCustomerName)
	}
	if m := doordashStoreNameRe.FindStringSubmatch(subject); m != nil {
		record.StoreName = model.Store(normalize.FormatString(strings.ToUpper(m[1])))
	} else {
		record.RecordError(model.ErrStoreName)
	}
	if m := doordashOrderIDRe.FindStringSubmatch(subject); m != nil {
		record.OrderID = normalize.FormatString(m[1])
	} else {
		record.RecordError(model.ErrOrderID)
	}

	// DoorDash handles all payment collection itself.
	record.PaymentType = model.PaymentCredit

	if record.Error {
		record.Mail = subject
	}
	return record
}

func (d *Doordash) ExtractCustomers(in CustomerInput) ([]*model.CustomerRecord, error) {
	return aggregateClean(in, model.KeyName), nil
}
