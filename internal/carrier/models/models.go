// Package models holds the request-scoped data shapes of the carrier
// pipeline: inbound credentials, the session context produced by the
// handshake, the raw carrier payload, and the canonical output schema.
package models

import "encoding/json"

// Credentials is the end-user login pair received per request. It is never
// persisted; logs must redact the password.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionContext carries everything the policy fetch needs. All three fields
// must be populated before a fetch may run.
type SessionContext struct {
	AccessToken  string
	SessionToken string
	PolicyNumber string
}

// Complete reports whether every field of the session context is populated.
func (s SessionContext) Complete() bool {
	return s.AccessToken != "" && s.SessionToken != "" && s.PolicyNumber != ""
}

// RawPolicy is the carrier-specific policy document as fetched. It exists
// only inside one request.
type RawPolicy struct {
	Agreement RawAgreement  `json:"agreement"`
	Coverages []RawCoverage `json:"coverages"`
	Vehicle   RawVehicle    `json:"vehicle"`
}

// RawAgreement mirrors the carrier's agreement block.
type RawAgreement struct {
	EffectiveDate          string          `json:"effectiveDate"`
	EndDate                string          `json:"endDate"`
	DisplayNumber          string          `json:"displayNumber"`
	ProductLineCode        string          `json:"productLineCode"`
	ProductDescriptionText string          `json:"productDescriptionText"`
	PolicyAddress          *RawAddress     `json:"policyAddress"`
	Vehicles               json.RawMessage `json:"vehicles,omitempty"`
}

// HasVehicles reports whether the agreement carries a vehicles field at all.
// Presence alone (even an empty list) marks the agreement as an auto policy.
func (a RawAgreement) HasVehicles() bool {
	return len(a.Vehicles) > 0 && string(a.Vehicles) != "null"
}

// RawAddress is the carrier's policy address. PostalCode is typed loosely
// because some carriers send it as a number.
type RawAddress struct {
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   any     `json:"postalCode"`
	Country      string  `json:"country"`
}

// RawCoverage is one carrier coverage entry with free-text line details.
type RawCoverage struct {
	Name        string          `json:"name"`
	LineDetails []RawLineDetail `json:"lineDetails"`
}

// RawLineDetail is a single free-text detail line such as
// "Limit Per Accident $100,000".
type RawLineDetail struct {
	Value string `json:"value"`
}

// RawVehicle mirrors the carrier's vehicle block. Year arrives as either a
// string or a number depending on the carrier.
type RawVehicle struct {
	BodyStyle string `json:"bodyStyle"`
	VIN       string `json:"vin"`
	Model     string `json:"model"`
	Year      any    `json:"year"`
	Make      string `json:"make"`
}

// CanonicalPolicy is the carrier-agnostic output contract.
type CanonicalPolicy struct {
	Carrier        string           `json:"carrier"`
	Type           string           `json:"type"`
	PolicyNumber   string           `json:"policyNumber"`
	IsActive       bool             `json:"isActive"`
	EffectiveDate  *string          `json:"effectiveDate"`
	ExpirationDate *string          `json:"expirationDate"`
	Address        CanonicalAddress `json:"address"`
	Coverages      []CoverageRecord `json:"coverages"`
	Properties     []PropertyRecord `json:"properties"`
}

// CanonicalAddress is the normalized policy address.
type CanonicalAddress struct {
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   *string `json:"postalCode"`
	Country      string  `json:"country"`
}

// CoverageRecord is one normalized coverage. Numeric fields stay null when
// the carrier detail lines carry no derivable amount.
type CoverageRecord struct {
	Code             string   `json:"code"`
	Label            string   `json:"label"`
	Deductible       *float64 `json:"deductible"`
	LimitPerAccident *float64 `json:"limitPerAccident"`
	LimitPerPerson   *float64 `json:"limitPerPerson"`
}

// PropertyRecord wraps an insured property. Vehicles are the only property
// type carriers send today.
type PropertyRecord struct {
	Type string      `json:"type"`
	Data VehicleData `json:"data"`
}

// VehicleData is the normalized vehicle description.
type VehicleData struct {
	BodyStyle string `json:"bodyStyle"`
	VIN       string `json:"vin"`
	Model     string `json:"model"`
	Year      string `json:"year"`
	Make      string `json:"make"`
}
