package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

var (
	menustarStoreNameRe       = regexp.MustCompile(`(?i)(ameci|aroma)`)
	menustarOrderIDRe         = regexp.MustCompile(`Order Number:\s+([^<\s]+(?:\s+[^<\s]+)*)`)
	menustarPhoneRe           = regexp.MustCompile(`Phone Number:\s*\((\d{3})\)\s*(\d{3})-(\d{4})`)
	menustarCustomerNameRe    = regexp.MustCompile(`(?i)<td[^>]*>\s*Customer:\s*(.*?)\s*</td>`)
	menustarOrderTypeRe       = regexp.MustCompile(`(?i)<span>(FUTURE\s+)?(Pickup|Delivery)\s*</span>`)
	menustarOrderTypeBackupRe = regexp.MustCompile(`(pickup|delivery)\.png`)
	menustarPaymentRe         = regexp.MustCompile(`PLEASE CHARGE|DO NOT CHARGE`)
	menustarOrderTotalRe      = regexp.MustCompile(`Total:[^$]*\$(\d+\.\d{2})`)
	menustarAddressRe         = regexp.MustCompile(`Delivery Address:</div>\s*<div>([\s\S]{1,50}?)\s*,\s*<br/>([\s\S]{1,50}?)\s*,\s*([A-Z]{2})\s*(\d{5})?`)
)

// Menustar confirmations are dense table-layout HTML; every fact is pulled
// with an anchored regex over the whitespace-collapsed markup. The payment
// directive ("PLEASE CHARGE" vs "DO NOT CHARGE") tells the store whether to
// collect cash.
type Menustar struct{}

func (m *Menustar) ExtractTransaction(msg *mailbox.Message) *model.TransactionRecord {
	record := model.NewTransactionRecord(model.PlatformMenustar, msg.Date)
	body := normalize.FormatString(msg.HTML)

	if g := menustarStoreNameRe.FindStringSubmatch(body); g != nil {
		record.StoreName = model.Store(strings.ToUpper(g[1]))
	} else {
		record.RecordError(model.ErrStoreName)
	}
	if g := menustarOrderIDRe.FindStringSubmatch(body); g != nil {
		record.OrderID = normalize.FormatString(g[1])
	} else {
		record.RecordError(model.ErrOrderID)
	}

	if g := menustarOrderTypeRe.FindStringSubmatch(body); g != nil {
		record.OrderType = model.OrderType(strings.ToUpper(normalize.FormatString(g[2])))
	} else if g := menustarOrderTypeBackupRe.FindStringSubmatch(body); g != nil {
		record.OrderType = model.OrderType(strings.ToUpper(g[1]))
	} else {
		record.RecordError(model.ErrOrderType)
	}

	if g := menustarPaymentRe.FindString(body); g != "" {
		record.PaymentType = normalize.PaymentTypeForCharge(g)
	}
	if record.PaymentType == "" {
		record.RecordError(model.ErrPaymentType)
	}

	if g := menustarPhoneRe.FindStringSubmatch(body); g != nil {
		record.CustomerNumber = normalize.FormatPhoneNumber(fmt.Sprintf("%s-%s-%s", g[1], g[2], g[3]))
	} else {
		record.RecordError(model.ErrCustomerNumber)
	}
	if g := menustarCustomerNameRe.FindStringSubmatch(body); g != nil {
		record.CustomerName = normalize.FormatString(strings.ToUpper(g[1]))
	} else {
		record.RecordError(model.ErrCustomerName)
	}
	if g := menustarOrderTotalRe.FindStringSubmatch(body); g != nil {
		record.OrderAmount, _ = strconv.ParseFloat(g[1], 64)
	} else {
		record.RecordError(model.ErrOrderAmount)
	}

	if g := menustarAddressRe.FindStringSubmatch(body); g != nil {
		record.Street = strings.ToUpper(strings.TrimSpace(g[1]))
		record.City = strings.ToUpper(strings.TrimSpace(g[2]))
		record.State = normalize.ShortStateName(strings.TrimSpace(g[3]))
		if g[4] != "" {
			record.Zipcode, _ = strconv.Atoi(strings.TrimSpace(g[4]))
		}
		record.CustomerAddress = normalize.FullAddress(record.Street, record.City, record.State, record.Zipcode)
	} else if record.OrderType == model.OrderDelivery {
		// Pickup orders legitimately carry no address.
		record.RecordError(model.ErrCustomerAddress)
	}

	if record.Error {
		record.Mail = body
	}
	return record
}

func (m *Menustar) ExtractCustomers(in CustomerInput) ([]*model.CustomerRecord, error) {
	return aggregateClean(in, model.KeyPhone), nil
}
