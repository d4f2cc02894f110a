package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

var (
	sliceOrderTypeRe    = regexp.MustCompile(`Order placed.*\b(DELIVERY|PICKUP)\b`)
	sliceStoreNameRe    = regexp.MustCompile(`\b(Aroma|Ameci)\b`)
	sliceCustomerInfoRe = regexp.MustCompile(`(?s)Customer:\s*(.*?)\n\n`)
	sliceCityStateZipRe = regexp.MustCompile(`^([\w\s]+),?\s([\w\s]+)\s(\d{5})(-\d{4})?$`)
	sliceCostRe         = regexp.MustCompile(`TOTAL:\s*\$(\d+\.\d+)`)
	slicePaymentRe      = regexp.MustCompile(`Payment Method:\s*(\w+)`)
)

// Slice parses plain-text Slice order confirmations. Slice emails carry no
// order id, so customer aggregation keys on phone number.
type Slice struct{}

func (s *Slice) ExtractTransaction(msg *mailbox.Message) *model.TransactionRecord {
	record := model.NewTransactionRecord(model.PlatformSlice, msg.Date)
	text := msg.Text

	if m := sliceOrderTypeRe.FindStringSubmatch(text); m != nil {
		record.OrderType = model.OrderType(strings.ToUpper(m[1]))
	} else {
		record.RecordError(model.ErrOrderType)
	}
	if m := sliceStoreNameRe.FindStringSubmatch(text); m != nil {
		record.StoreName = model.Store(strings.ToUpper(m[1]))
	} else {
		record.RecordError(model.ErrStoreName)
	}
	if m := sliceCostRe.FindStringSubmatch(text); m != nil {
		record.OrderAmount, _ = strconv.ParseFloat(m[1], 64)
	} else {
		record.RecordError(model.ErrOrderAmount)
	}
	if m := slicePaymentRe.FindStringSubmatch(text); m != nil {
		if strings.EqualFold(m[1], "Cash") {
			record.PaymentType = model.PaymentCash
		} else {
			record.PaymentType = model.PaymentCredit
		}
	} else {
		record.RecordError(model.ErrPaymentType)
	}

	// The customer block keeps its line structure, so only the
	// quoted-printable artifacts are stripped before splitting.
	cleaned := strings.NewReplacer("=0D", "", "=3D", "", "\r", "").Replace(text)
	if m := sliceCustomerInfoRe.FindStringSubmatch(cleaned); m != nil {
		s.parseCustomerBlock(record, m[1])
	} else {
		record.RecordError(model.ErrCustomerName)
		record.RecordError(model.ErrCustomerNumber)
	}

	if record.Error {
		record.Mail = cleaned
	}
	return record
}

// parseCustomerBlock reads the line-oriented customer section: name, phone,
// then street and city/state/zip for delivery orders.
func (s *Slice) parseCustomerBlock(record *model.TransactionRecord, block string) {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		lines = append(lines, normalize.FormatString(line))
	}

	record.CustomerName = strings.ToUpper(lines[0])
	if len(lines) < 2 {
		record.RecordError(model.ErrCustomerNumber)
		return
	}
	record.CustomerNumber = normalize.FormatPhoneNumber(lines[1])

	// Pickup blocks have two lines; delivery blocks have four.
	if record.OrderType == model.OrderDelivery && len(lines) != 4 {
		record.RecordError(model.ErrCustomerAddress)
	}
	if record.OrderType != model.OrderDelivery || len(lines) < 4 {
		return
	}

	street := strings.ToUpper(lines[2])
	cityInfo := strings.ToUpper(lines[3])
	record.Street = street
	record.CustomerAddress = street + ", " + cityInfo

	if m := sliceCityStateZipRe.FindStringSubmatch(cityInfo); m != nil {
		record.City = normalize.FormatString(m[1])
		record.State = normalize.ShortStateName(normalize.FormatString(m[2]))
		record.Zipcode, _ = strconv.Atoi(m[3])
		record.CustomerAddress = normalize.FullAddress(record.Street, record.City, record.State, record.Zipcode)
	} else {
		record.RecordError(model.ErrCity)
		record.RecordError(model.ErrState)
		record.RecordError(model.ErrZipcode)
	}
}

func (s *Slice) ExtractCustomers(in CustomerInput) ([]*model.CustomerRecord, error) {
	return aggregateClean(in, model.KeyPhone), nil
}
