package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

var (
	eatstreetStoreNameRe    = regexp.MustCompile(`(?i)(ameci|aroma)`)
	eatstreetCustomerNameRe = regexp.MustCompile(`Customer Info:\s*</span>\s*<br />\s*<span.*?>(.*?)</span>`)
)

const eatstreetOrderMarker = `<div id="orderInfo"`

// Eatstreet embeds the full order as a JSON blob inside an orderInfo div;
// the markup around it only supplies the store and customer name. Absent
// JSON keys are recorded as field errors, a missing or unparseable blob as
// a malformed-JSON error.
type Eatstreet struct{}

func (e *Eatstreet) ExtractTransaction(msg *mailbox.Message) *model.TransactionRecord {
	record := model.NewTransactionRecord(model.PlatformEatstreet, msg.Date)
	body := normalize.FormatString(strings.ReplaceAll(msg.HTML, "&quot;", `"`))

	if m := eatstreetStoreNameRe.FindStringSubmatch(body); m != nil {
		record.StoreName = model.Store(strings.ToUpper(m[1]))
	} else {
		record.RecordError(model.ErrStoreName)
	}
	if m := eatstreetCustomerNameRe.FindStringSubmatch(body); m != nil {
		record.CustomerName = normalize.FormatString(strings.ToUpper(m[1]))
	} else {
		record.RecordError(model.ErrCustomerName)
	}

	if blob, ok := embeddedJSON(body, eatstreetOrderMarker); ok {
		e.parseOrderJSON(record, blob)
	} else {
		record.RecordError(model.ErrJSONBody)
	}

	if record.Error {
		record.Mail = body
	}
	return record
}

// parseOrderJSON maps the embedded order object onto the record. Key
// presence is checked per field: the platform omits keys rather than
// sending nulls.
func (e *Eatstreet) parseOrderJSON(record *model.TransactionRecord, blob string) {
	var order map[string]any
	if err := json.Unmarshal([]byte(blob), &order); err != nil {
		record.RecordError(model.ErrJSONBody)
		return
	}

	if id, ok := order["id"]; ok {
		record.OrderID = jsonString(id)
	} else {
		record.RecordError(model.ErrOrderID)
	}
	if delivery, ok := order["delivery"]; ok {
		if isDelivery, _ := delivery.(bool); isDelivery {
			record.OrderType = model.OrderDelivery
		} else {
			record.OrderType = model.OrderPickup
		}
	} else {
		record.RecordError(model.ErrOrderType)
	}
	if total, ok := order["total"]; ok {
		record.OrderAmount, _ = total.(float64)
	} else {
		record.RecordError(model.ErrOrderAmount)
	}
	if payment, ok := order["payment"]; ok {
		record.PaymentType = normalize.PaymentTypeForCharge(jsonString(payment))
	} else {
		record.RecordError(model.ErrPaymentType)
	}
	if phone, ok := order["phoneNumber"]; ok {
		record.CustomerNumber = normalize.FormatPhoneNumber(jsonString(phone))
	} else {
		record.RecordError(model.ErrCustomerNumber)
	}
	if zip, ok := order["zip"]; ok {
		if z := jsonString(zip); z != "" {
			record.Zipcode, _ = strconv.Atoi(z)
		}
	} else {
		record.RecordError(model.ErrZipcode)
	}
	if state, ok := order["state"]; ok {
		record.State = normalize.ShortStateName(jsonString(state))
	} else {
		record.RecordError(model.ErrState)
	}
	if city, ok := order["city"]; ok {
		record.City = strings.ToUpper(jsonString(city))
	} else {
		record.RecordError(model.ErrCity)
	}
	if street, ok := order["streetAddress"]; ok {
		record.Street = strings.ToUpper(jsonString(street))
		if apt, ok := order["apartment"]; ok && record.Street != "" {
			if a := jsonString(apt); a != "" {
				record.Street += " Apt " + a
			}
		}
	} else {
		record.RecordError(model.ErrStreet)
	}

	record.CustomerAddress = normalize.FullAddress(record.Street, record.City, record.State, record.Zipcode)
}

// jsonString renders a decoded JSON scalar as a string. Integral floats
// drop their fractional part so numeric ids and zips round-trip cleanly.
func jsonString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func (e *Eatstreet) ExtractCustomers(in CustomerInput) ([]*model.CustomerRecord, error) {
	return aggregateClean(in, model.KeyPhone), nil
}
