package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Acehaidrey/acelife/internal/model"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"quoted printable artifacts", "123 Main=0D St=3D", "123 Main St"},
		{"carriage returns", "a\r\nb", "a b"},
		{"whitespace runs", "  JOHN    SMITH \t ", "JOHN SMITH"},
		{"already clean", "JOHN SMITH", "JOHN SMITH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatString(tt.in))
		})
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"formatted", "(949) 555-1234", 9495551234},
		{"dashes", "949-555-1234", 9495551234},
		{"country code truncated from left", "+1 949 555 1234", 9495551234},
		{"no digits", "n/a", 0},
		{"empty", "", 0},
		{"short number kept as-is", "555-1234", 5551234},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhoneNumber(tt.in))
		})
	}
}

func TestShortStateName(t *testing.T) {
	assert.Equal(t, "CA", ShortStateName("California"))
	assert.Equal(t, "CA", ShortStateName("CALIFORNIA"))
	assert.Equal(t, "CA", ShortStateName("ca"))
	assert.Equal(t, "NEVADA", ShortStateName("Nevada"))
}

func TestZipForCity(t *testing.T) {
	assert.Equal(t, 92630, ZipForCity(0, "Lake Forest"))
	assert.Equal(t, 92630, ZipForCity(0, "LAKE FOREST"))
	assert.Equal(t, 92614, ZipForCity(92614, "Lake Forest"))
	assert.Equal(t, 0, ZipForCity(0, "Irvine"))
}

func TestFullAddress(t *testing.T) {
	tests := []struct {
		name   string
		street string
		city   string
		state  string
		zip    int
		want   string
	}{
		{"complete", "123 Main St", "Lake Forest", "California", 92630, "123 MAIN ST, LAKE FOREST, CA 92630"},
		{"no zip", "123 Main St", "Lake Forest", "CA", 0, "123 MAIN ST, LAKE FOREST, CA"},
		{"street only", "123 Main St", "", "", 0, "123 MAIN ST"},
		{"empty", "", "", "", 0, ""},
		{"no street", "", "Lake Forest", "CA", 92630, "LAKE FOREST, CA 92630"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FullAddress(tt.street, tt.city, tt.state, tt.zip))
		})
	}
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "JOHN SMITH", FullName("John", "Smith"))
	assert.Equal(t, "JOHN", FullName("John", ""))
	assert.Equal(t, "SMITH", FullName("", "Smith"))
	assert.Equal(t, "", FullName("", ""))
}

func TestPaymentTypeForCharge(t *testing.T) {
	assert.Equal(t, model.PaymentCash, PaymentTypeForCharge("PLEASE CHARGE"))
	assert.Equal(t, model.PaymentCash, PaymentTypeForCharge("COLLECT PAYMENT"))
	assert.Equal(t, model.PaymentCredit, PaymentTypeForCharge("DO NOT CHARGE"))
	assert.Equal(t, model.PaymentType(""), PaymentTypeForCharge("CHARGE MAYBE"))
}

func TestDateOnly(t *testing.T) {
	assert.Equal(t, "2021-03-14", DateOnly(time.Date(2021, 3, 14, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, "", DateOnly(time.Time{}))
}

func TestParseLooseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2021-03-14", time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"2021-03-14 18:30:00", time.Date(2021, 3, 14, 18, 30, 0, 0, time.UTC)},
		{"03/14/2021", time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"3/4/2021", time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"not a date", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLooseDate(tt.in))
		})
	}
}
