// Package normalize holds the string, phone, name, and address
// canonicalization rules every extractor funnels its raw matches through.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Acehaidrey/acelife/internal/model"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonDigitRe   = regexp.MustCompile(`\D`)
)

// FormatString strips quoted-printable artifacts (=0D, =3D) and carriage
// returns, collapses whitespace runs to a single space, and trims.
func FormatString(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "=0D", "")
	s = strings.ReplaceAll(s, "=3D", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FormatPhoneNumber strips all formatting and keeps exactly the last 10
// digits as an integer. Longer digit strings (country codes, malformed
// input) are truncated from the left; this matches historical behavior and
// is deliberately not corrected for international numbers. Returns 0 when
// no digits remain.
func FormatPhoneNumber(s string) int64 {
	digits := nonDigitRe.ReplaceAllString(strings.TrimSpace(s), "")
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ShortStateName uppercases a state name and collapses it to the two-letter
// code. All orders are in California, so only CALIFORNIA is special-cased;
// everything else passes through uppercased.
func ShortStateName(state string) string {
	state = strings.ToUpper(state)
	if state == "CALIFORNIA" {
		return "CA"
	}
	return state
}

// ZipForCity infers a missing zipcode from a hard-coded city map. Returns
// zip unchanged when already set.
func ZipForCity(zip int, city string) int {
	if zip != 0 {
		return zip
	}
	if strings.ToUpper(city) == "LAKE FOREST" {
		return 92630
	}
	return 0
}

// FullAddress joins the present address components into one uppercased
// string: "STREET, CITY, ST ZIP". Absent components are omitted without
// leaving stray separators.
func FullAddress(street, city, state string, zip int) string {
	var b strings.Builder
	if street != "" {
		b.WriteString(FormatString(strings.ToUpper(street)))
		b.WriteString(", ")
	}
	if city != "" {
		b.WriteString(FormatString(strings.ToUpper(city)))
		b.WriteString(", ")
	}
	if state != "" {
		b.WriteString(ShortStateName(state))
		b.WriteString(" ")
	}
	if zip != 0 {
		b.WriteString(strconv.Itoa(zip))
	}
	out := strings.TrimSpace(b.String())
	out = strings.Trim(out, ",")
	out = strings.ReplaceAll(out, ", ,", ",")
	return strings.TrimSpace(out)
}

// FullName uppercases and joins a first and last name with a single space.
// Returns "" when both parts are absent.
func FullName(first, last string) string {
	var b strings.Builder
	if first != "" {
		b.WriteString(strings.ToUpper(first))
		b.WriteString(" ")
	}
	if last != "" {
		b.WriteString(strings.ToUpper(last))
	}
	return strings.TrimSpace(b.String())
}

// PaymentTypeForCharge maps the charge directives Menustar and Eatstreet
// embed in order emails to a payment type. Unrecognized input yields "".
func PaymentTypeForCharge(input string) model.PaymentType {
	switch input {
	case "PLEASE CHARGE", "COLLECT PAYMENT":
		return model.PaymentCash
	case "DO NOT CHARGE":
		return model.PaymentCredit
	}
	return ""
}

// DateOnly formats a timestamp as YYYY-MM-DD. The zero time yields "".
func DateOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// csvDateLayouts are tried in order when parsing dates out of platform CSV
// exports, which disagree on formatting.
var csvDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
}

// ParseLooseDate parses a date string in any of the formats the platform
// CSV exports use. Returns the zero time when the input is empty or
// unparseable.
func ParseLooseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
