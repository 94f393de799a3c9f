// Package normalize converts carrier-specific policy payloads into the
// canonical policy schema. Everything here is pure: no I/O, no retries,
// deterministic for identical input and clock.
package normalize

import (
	"strings"
	"time"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/models"
)

// isoLayout renders timestamps the way downstream consumers already expect:
// millisecond precision, UTC.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Normalize maps a raw carrier payload into the canonical schema.
func Normalize(raw models.RawPolicy, carrierID string) models.CanonicalPolicy {
	return normalizeAt(raw, carrierID, time.Now())
}

// normalizeAt is Normalize with an injectable clock for tests.
func normalizeAt(raw models.RawPolicy, carrierID string, now time.Time) models.CanonicalPolicy {
	effective := validateDate(raw.Agreement.EffectiveDate)
	expiration := validateDate(raw.Agreement.EndDate)

	carrier := carrierID
	if carrier == "" {
		carrier = "unknown"
	}

	policyNumber := raw.Agreement.DisplayNumber
	if policyNumber == "" {
		policyNumber = "N/A"
	}

	coverages := []models.CoverageRecord{}
	for _, c := range raw.Coverages {
		coverages = append(coverages, mapCoverage(c)...)
	}

	return models.CanonicalPolicy{
		Carrier:        carrier,
		Type:           determinePolicyType(raw.Agreement),
		PolicyNumber:   policyNumber,
		IsActive:       isActive(now, effective, expiration),
		EffectiveDate:  isoString(effective),
		ExpirationDate: isoString(expiration),
		Address:        mapAddress(raw.Agreement.PolicyAddress),
		Coverages:      coverages,
		Properties:     []models.PropertyRecord{mapVehicle(raw.Vehicle, now)},
	}
}

var policyTypes = map[string]string{
	"A": "auto",
	"H": "home",
	"L": "life",
	"B": "business",
}

// determinePolicyType resolves the policy type from the product line code,
// falling back to "auto" for private-passenger descriptions or agreements
// that carry a vehicles field at all, else "unknown".
func determinePolicyType(agreement models.RawAgreement) string {
	if t, ok := policyTypes[agreement.ProductLineCode]; ok {
		return t
	}
	description := strings.ToUpper(agreement.ProductDescriptionText)
	if strings.Contains(description, "PRIVATE PASSENGER") || agreement.HasVehicles() {
		return "auto"
	}
	return "unknown"
}

// dateLayouts covers the formats carriers have been seen sending.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// validateDate parses a carrier date, returning nil when unparseable.
func validateDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func isoString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(isoLayout)
	return &s
}

// isActive reports whether now falls inside [effective, expiration]
// inclusive. Absent bounds compare as the epoch, mirroring how the legacy
// mapper coerced null dates; an absent expiration therefore reads inactive.
func isActive(now time.Time, effective, expiration *time.Time) bool {
	start := time.Unix(0, 0).UTC()
	end := start
	if effective != nil {
		start = *effective
	}
	if expiration != nil {
		end = *expiration
	}
	return !now.Before(start) && !now.After(end)
}

// titleCase uppercases the first rune of the whole string and lowercases the
// rest. It intentionally does NOT title-case each word: "new york" becomes
// "New york", matching the behavior downstream consumers have relied on.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
}
