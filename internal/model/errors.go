package model

// ErrorTag names the reason a field could not be extracted from a message.
// Tags form a closed set so call sites that branch on a reason (e.g. the
// not-a-transaction-email filter) can be checked exhaustively.
type ErrorTag string

const (
	ErrPlatform        ErrorTag = "PLATFORM"
	ErrStoreName       ErrorTag = "STORE_NAME"
	ErrPaymentType     ErrorTag = "PAYMENT_TYPE"
	ErrOrderDate       ErrorTag = "ORDER_DATE"
	ErrOrderType       ErrorTag = "ORDER_TYPE"
	ErrOrderAmount     ErrorTag = "ORDER_AMOUNT"
	ErrOrderID         ErrorTag = "ORDER_ID"
	ErrCustomerName    ErrorTag = "CUSTOMER_NAME"
	ErrCustomerNumber  ErrorTag = "CUSTOMER_NUMBER"
	ErrCustomerEmail   ErrorTag = "CUSTOMER_EMAIL"
	ErrCustomerAddress ErrorTag = "CUSTOMER_ADDRESS"
	ErrStreet          ErrorTag = "STREET"
	ErrCity            ErrorTag = "CITY"
	ErrState           ErrorTag = "STATE"
	ErrZipcode         ErrorTag = "ZIPCODE"

	// ErrJSONBody marks a message whose embedded JSON blob was missing or
	// failed to parse.
	ErrJSONBody ErrorTag = "JSON_BODY"

	// ErrNotTransactionEmail marks messages that are not order
	// confirmations at all (support threads, automated replies).
	ErrNotTransactionEmail ErrorTag = "NOT_TRANSACTION_EMAIL"

	// ErrParsePanic is the generic reason attached when extraction of a
	// single message failed outright; the batch continues past it.
	ErrParsePanic ErrorTag = "PARSE_PANIC"
)
