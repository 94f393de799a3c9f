package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/models"
)

// mapAddress normalizes the policy address, defaulting missing pieces the
// way downstream consumers expect ("N/A" for text, null for postal code).
func mapAddress(address *models.RawAddress) models.CanonicalAddress {
	if address == nil {
		address = &models.RawAddress{}
	}

	line1 := address.AddressLine1
	if line1 == "" {
		line1 = "N/A"
	}

	city := "N/A"
	if address.City != "" {
		city = titleCase(address.City)
	}

	state := "N/A"
	if address.State != "" {
		state = mapStateCode(address.State)
	}

	country := address.Country
	if country == "" {
		country = "USA"
	}

	return models.CanonicalAddress{
		AddressLine1: line1,
		AddressLine2: address.AddressLine2,
		City:         city,
		State:        state,
		PostalCode:   validatePostalCode(address.PostalCode),
		Country:      country,
	}
}

// mapStateCode expands a two-letter US state code to its full name,
// case-insensitively. Unrecognized codes pass through unchanged.
func mapStateCode(code string) string {
	if name, ok := stateNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

var leadingFiveDigits = regexp.MustCompile(`^\d{5}`)

// validatePostalCode extracts the leading 5-digit run from the string-coerced
// postal code. Carriers send postal codes as strings or numbers; anything
// without five leading digits maps to null.
func validatePostalCode(raw any) *string {
	var coerced string
	switch v := raw.(type) {
	case string:
		coerced = v
	case float64:
		coerced = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		coerced = strconv.Itoa(v)
	default:
		return nil
	}

	match := leadingFiveDigits.FindString(coerced)
	if match == "" {
		return nil
	}
	return &match
}
