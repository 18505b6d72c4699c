package validate

import (
	"strings"

	"github.com/ttacon/libphonenumber"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// PhoneNumber parses a customer phone number, assuming region for numbers
// written without a country code, and returns it in E.164 form.
// An empty input yields "" and no error: the customer phone is optional.
func PhoneNumber(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	num, err := libphonenumber.Parse(raw, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return "", domain.NewValidationError("customer_phone", "not a valid phone number")
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
