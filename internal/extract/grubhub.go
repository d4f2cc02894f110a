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
	grubhubStoreNameRe    = regexp.MustCompile(`(?i)(Aroma|Ameci)`)
	grubhubOrderIDRe      = regexp.MustCompile(`(?i)Order (.*) Confirmation`)
	grubhubCustomerNameRe = regexp.MustCompile(`(Pickup by|Deliver to):\s+([A-Za-z\-]+(?:\s+[A-Za-z]+)*\s+[A-Za-z.\-]+\s*\b)`)
	grubhubAddressRe      = regexp.MustCompile(`(?s)^(.*?), \((\d{3})\)\s*\d{3}-\d{4}`)
	grubhubCityStZipRe    = regexp.MustCompile(`^(.*),\s*([A-Za-z\s]+),\s*([A-Z]{2})\s*(\d{5})$`)
	grubhubCommaRunRe     = regexp.MustCompile(`,{2,}`)
	grubhubSpaceRunRe     = regexp.MustCompile(`\s{4}`)
)

// Grubhub order confirmations are HTML with machine-readable div[data-field]
// annotations for the order facts; the customer block is free text inside
// the pickup-delivery-box element. Addresses only appear on self-delivery
// orders (Grubhub's own couriers never expose them).
type Grubhub struct{}

func (g *Grubhub) ExtractTransaction(msg *mailbox.Message) *model.TransactionRecord {
	record := model.NewTransactionRecord(model.PlatformGrubhub, msg.Date)

	doc, err := parseHTML(msg.HTML)
	if err != nil {
		record.RecordError(model.ErrJSONBody)
		record.Mail = msg.HTML
		return record
	}

	for _, div := range elementsWithAttr(doc, "data-field") {
		field, _ := attrValue(div, "data-field")
		text := nodeText(div)
		switch field {
		case "phone":
			record.CustomerNumber = normalize.FormatPhoneNumber(text)
		case "service-type":
			record.OrderType = model.OrderType(strings.ToUpper(normalize.FormatString(text)))
		case "total":
			amount := normalize.FormatString(strings.ReplaceAll(text, "$", ""))
			record.OrderAmount, _ = strconv.ParseFloat(amount, 64)
		case "restaurant-name":
			g.setStoreName(record, text)
		case "payment-is-cash":
			if strings.TrimSpace(strings.ToLower(text)) == "true" {
				record.PaymentType = model.PaymentCash
			} else {
				record.PaymentType = model.PaymentCredit
			}
		}
	}

	if m := grubhubOrderIDRe.FindStringSubmatch(msg.Subject); m != nil {
		record.OrderID = normalize.FormatString(m[1])
	}

	if box := firstByClass(doc, "pickup-delivery-box"); box != nil {
		g.parseCustomerBox(record, nodeText(box), msg.HTML)
	} else {
		record.RecordError(model.ErrCustomerName)
	}

	g.tagMissingFields(record)
	if record.Error {
		record.Mail = msg.HTML
	}
	return record
}

// setStoreName resolves the restaurant name, aliasing virtual brands to
// their parent store while retaining the brand name.
func (g *Grubhub) setStoreName(record *model.TransactionRecord, text string) {
	if m := grubhubStoreNameRe.FindStringSubmatch(text); m != nil {
		record.StoreName = model.Store(normalize.FormatString(strings.ToUpper(m[1])))
		return
	}
	name := normalize.FormatString(text)
	if parent, ok := model.VirtualBrands[name]; ok {
		record.StoreBrand = name
		record.StoreName = parent
		return
	}
	record.StoreName = model.Store(name)
}

// parseCustomerBox pulls the customer name, and for self-delivery orders
// the address, out of the pickup/delivery text block.
func (g *Grubhub) parseCustomerBox(record *model.TransactionRecord, box, rawHTML string) {
	if m := grubhubCustomerNameRe.FindStringSubmatch(box); m != nil {
		record.CustomerName = normalize.FormatString(strings.ToUpper(m[2]))
	}

	if !strings.Contains(strings.ToLower(rawHTML), "self delivery") {
		return
	}

	address := normalize.FormatString(grubhubSpaceRunRe.ReplaceAllString(box, ","))
	address = strings.ToUpper(address)
	address = strings.TrimSpace(strings.Replace(address, "DELIVER TO:", "", 1))
	address = strings.TrimSpace(strings.Replace(address, record.CustomerName, "", 1))
	address = strings.TrimSpace(grubhubCommaRunRe.ReplaceAllString(address, ","))
	address = strings.TrimSpace(strings.Trim(address, ","))

	m := grubhubAddressRe.FindStringSubmatch(address)
	if m == nil {
		record.RecordError(model.ErrCustomerAddress)
		return
	}
	record.CustomerAddress = normalize.FormatString(m[1])

	parts := grubhubCityStZipRe.FindStringSubmatch(record.CustomerAddress)
	if parts == nil {
		record.RecordError(model.ErrStreet)
		record.RecordError(model.ErrCity)
		record.RecordError(model.ErrState)
		record.RecordError(model.ErrZipcode)
		return
	}
	record.Street = parts[1]
	record.City = parts[2]
	record.State = parts[3]
	record.Zipcode, _ = strconv.Atoi(parts[4])
}

// tagMissingFields appends an error tag for every required field that ended
// up empty after extraction.
func (g *Grubhub) tagMissingFields(record *model.TransactionRecord) {
	if record.StoreName == "" {
		record.RecordError(model.ErrStoreName)
	}
	if record.OrderType == "" {
		record.RecordError(model.ErrOrderType)
	}
	if record.OrderAmount == 0 {
		record.RecordError(model.ErrOrderAmount)
	}
	if record.OrderID == "" {
		record.RecordError(model.ErrOrderID)
	}
	if record.PaymentType == "" {
		record.RecordError(model.ErrPaymentType)
	}
	if record.CustomerNumber == 0 {
		record.RecordError(model.ErrCustomerNumber)
	}
	if record.CustomerName == "" {
		record.RecordError(model.ErrCustomerName)
	}
}

func (g *Grubhub) ExtractCustomers(in CustomerInput) ([]*model.CustomerRecord, error) {
	return aggregateClean(in, model.KeyPhone), nil
}
