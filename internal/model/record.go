// Package model defines the transaction and customer record shapes shared by
// the extractors, the merge engine, and the report writers.
package model

import "time"

// Platform identifies the ordering/delivery/POS service an input came from.
type Platform string

const (
	PlatformSlice     Platform = "SLICE"
	PlatformMenustar  Platform = "MENUSTAR"
	PlatformDoordash  Platform = "DOORDASH"
	PlatformMenufy    Platform = "MENUFY"
	PlatformEatstreet Platform = "EATSTREET"
	PlatformGrubhub   Platform = "GRUBHUB"
	PlatformBrygid    Platform = "BRYGID"
	PlatformSpeedline Platform = "SPEEDLINE"
	PlatformToast     Platform = "TOAST"
)

// Store identifies a physical store. Virtual brands alias to one of these.
type Store string

const (
	StoreAmeci Store = "AMECI"
	StoreAroma Store = "AROMA"
)

// VirtualBrands maps virtual-restaurant storefront names to the physical
// store whose books they belong to. The brand name is retained on the
// record as StoreBrand.
var VirtualBrands = map[string]Store{
	"Trattoria Contadina": StoreAroma,
	"The Wing Shop":       StoreAroma,
	"The Wing Stop":       StoreAroma,
}

// OrderType distinguishes delivery from pickup orders.
type OrderType string

const (
	OrderDelivery OrderType = "DELIVERY"
	OrderPickup   OrderType = "PICKUP"
)

// PaymentType distinguishes cash from credit orders.
type PaymentType string

const (
	PaymentCash   PaymentType = "CASH"
	PaymentCredit PaymentType = "CREDIT"
)

// KeyType selects the field customer aggregation groups on.
type KeyType string

const (
	KeyPhone KeyType = "phoneNumber"
	KeyName  KeyType = "name"
)

// TransactionRecord is one parsed order. Extractors always populate Platform
// and OrderDate; every other field is best-effort, with absences recorded as
// error tags rather than silently left empty.
type TransactionRecord struct {
	Platform        Platform    `json:"platform"`
	OrderDate       time.Time   `json:"orderDate"`
	OrderID         string      `json:"orderId,omitempty"`
	StoreName       Store       `json:"storeName,omitempty"`
	StoreBrand      string      `json:"storeVRName,omitempty"`
	OrderType       OrderType   `json:"orderType,omitempty"`
	PaymentType     PaymentType `json:"paymentType,omitempty"`
	OrderAmount     float64     `json:"orderAmount"`
	CustomerName    string      `json:"customerName,omitempty"`
	CustomerNumber  int64       `json:"customerNumber,omitempty"`
	CustomerEmail   string      `json:"customerEmail,omitempty"`
	CustomerAddress string      `json:"customerAddress,omitempty"`
	Street          string      `json:"street,omitempty"`
	City            string      `json:"city,omitempty"`
	State           string      `json:"state,omitempty"`
	Zipcode         int         `json:"zipcode,omitempty"`
	Error           bool        `json:"error"`
	ErrorReason     []ErrorTag  `json:"errorReason,omitempty"`

	// Mail holds the raw message body for manual triage. Only set when the
	// record is erroneous.
	Mail string `json:"mail,omitempty"`
}

// NewTransactionRecord creates a record with the two invariant fields set.
func NewTransactionRecord(platform Platform, orderDate time.Time) *TransactionRecord {
	return &TransactionRecord{Platform: platform, OrderDate: orderDate}
}

// RecordError appends a reason tag and marks the record erroneous. A record
// may accumulate several tags; it is never discarded for having them.
func (r *TransactionRecord) RecordError(tag ErrorTag) {
	r.Error = true
	r.ErrorReason = append(r.ErrorReason, tag)
}

// HasErrorTag reports whether the record carries the given tag.
func (r *TransactionRecord) HasErrorTag(tag ErrorTag) bool {
	for _, t := range r.ErrorReason {
		if t == tag {
			return true
		}
	}
	return false
}

// CustomerRecord is one aggregated customer identity at a store.
type CustomerRecord struct {
	StoreName         Store     `json:"storeName"`
	CustomerNumber    int64     `json:"customerNumber,omitempty"`
	Platforms         *Set      `json:"platforms"`
	CustomerNames     *Set      `json:"customerNames"`
	CustomerAddresses *Set      `json:"customerAddresses"`
	CustomerEmails    *Set      `json:"customerEmails"`
	FirstOrderDate    time.Time `json:"firstOrderDate,omitzero"`
	LastOrderDate     time.Time `json:"lastOrderDate,omitzero"`
	OrderCount        int       `json:"orderCount"`
	TotalSpend        float64   `json:"totalSpend"`
}

// NewCustomerRecord creates a customer identity with empty set fields.
func NewCustomerRecord(store Store, number int64) *CustomerRecord {
	return &CustomerRecord{
		StoreName:         store,
		CustomerNumber:    number,
		Platforms:         NewSet(),
		CustomerNames:     NewSet(),
		CustomerAddresses: NewSet(),
		CustomerEmails:    NewSet(),
	}
}

// ExtendDates widens the first/last order range to include t. The zero time
// is ignored so records built from CSVs without date columns stay unset.
func (c *CustomerRecord) ExtendDates(t time.Time) {
	if t.IsZero() {
		return
	}
	if c.FirstOrderDate.IsZero() || t.Before(c.FirstOrderDate) {
		c.FirstOrderDate = t
	}
	if c.LastOrderDate.IsZero() || t.After(c.LastOrderDate) {
		c.LastOrderDate = t
	}
}
