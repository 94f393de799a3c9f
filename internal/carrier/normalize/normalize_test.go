package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/models"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestNormalizeActivePolicy(t *testing.T) {
	raw := models.RawPolicy{
		Agreement: models.RawAgreement{
			EffectiveDate:   "2024-01-01",
			EndDate:         "2025-01-01",
			DisplayNumber:   "POL-778",
			ProductLineCode: "A",
			PolicyAddress: &models.RawAddress{
				AddressLine1: "12 Main St",
				City:         "springfield",
				State:        "IL",
				PostalCode:   "62704-1234",
			},
		},
		Vehicle: models.RawVehicle{
			BodyStyle: "sedan",
			VIN:       "1HGCM82633A004352",
			Model:     "accord",
			Year:      "2003",
			Make:      "honda",
		},
	}

	got := normalizeAt(raw, "mock-carrier", testNow)

	assert.Equal(t, "mock-carrier", got.Carrier)
	assert.Equal(t, "auto", got.Type)
	assert.Equal(t, "POL-778", got.PolicyNumber)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.EffectiveDate)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", *got.EffectiveDate)
	require.NotNil(t, got.ExpirationDate)
	assert.Equal(t, "2025-01-01T00:00:00.000Z", *got.ExpirationDate)

	assert.Equal(t, "12 Main St", got.Address.AddressLine1)
	assert.Equal(t, "Springfield", got.Address.City)
	assert.Equal(t, "Illinois", got.Address.State)
	require.NotNil(t, got.Address.PostalCode)
	assert.Equal(t, "62704", *got.Address.PostalCode)
	assert.Equal(t, "USA", got.Address.Country)

	require.Len(t, got.Properties, 1)
	assert.Equal(t, "vehicle", got.Properties[0].Type)
	assert.Equal(t, models.VehicleData{
		BodyStyle: "SEDAN",
		VIN:       "1HGCM82633A004352",
		Model:     "Accord",
		Year:      "2003",
		Make:      "Honda",
	}, got.Properties[0].Data)

	assert.Empty(t, got.Coverages)
}

func TestNormalizeDefaults(t *testing.T) {
	got := normalizeAt(models.RawPolicy{}, "", testNow)

	assert.Equal(t, "unknown", got.Carrier)
	assert.Equal(t, "unknown", got.Type)
	assert.Equal(t, "N/A", got.PolicyNumber)
	assert.False(t, got.IsActive, "absent bounds compare as the epoch")
	assert.Nil(t, got.EffectiveDate)
	assert.Nil(t, got.ExpirationDate)
	assert.Equal(t, models.CanonicalAddress{
		AddressLine1: "N/A",
		City:         "N/A",
		State:        "N/A",
		Country:      "USA",
	}, got.Address)
	require.Len(t, got.Properties, 1)
	assert.Equal(t, models.VehicleData{
		BodyStyle: "N/A",
		VIN:       "INVALID_VIN",
		Model:     "N/A",
		Year:      "N/A",
		Make:      "N/A",
	}, got.Properties[0].Data)
}

func TestDeterminePolicyType(t *testing.T) {
	cases := []struct {
		name      string
		agreement models.RawAgreement
		want      string
	}{
		{"line code A", models.RawAgreement{ProductLineCode: "A"}, "auto"},
		{"line code H", models.RawAgreement{ProductLineCode: "H"}, "home"},
		{"line code L", models.RawAgreement{ProductLineCode: "L"}, "life"},
		{"line code B", models.RawAgreement{ProductLineCode: "B"}, "business"},
		{"description fallback", models.RawAgreement{
			ProductDescriptionText: "Private Passenger vehicle policy",
		}, "auto"},
		{"vehicles field fallback", models.RawAgreement{
			Vehicles: json.RawMessage(`[]`),
		}, "auto"},
		{"vehicles null is absent", models.RawAgreement{
			Vehicles: json.RawMessage(`null`),
		}, "unknown"},
		{"unknown", models.RawAgreement{ProductLineCode: "X"}, "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, determinePolicyType(tc.agreement))
		})
	}
}

func TestIsActiveBounds(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, isActive(start, &start, &end), "inclusive lower bound")
	assert.True(t, isActive(end, &start, &end), "inclusive upper bound")
	assert.False(t, isActive(end.Add(time.Second), &start, &end))
	assert.False(t, isActive(testNow, &start, nil), "nil expiration reads as epoch")
	assert.True(t, isActive(testNow, nil, &end), "nil effective reads as epoch")
}

func TestValidateDate(t *testing.T) {
	assert.Nil(t, validateDate(""))
	assert.Nil(t, validateDate("not-a-date"))
	require.NotNil(t, validateDate("2024-03-05"))
	require.NotNil(t, validateDate("2024-03-05T10:30:00Z"))
	require.NotNil(t, validateDate("03/05/2024"))
}

func TestTitleCaseQuirk(t *testing.T) {
	// Only the first rune of the whole string is uppercased.
	assert.Equal(t, "New york", titleCase("new york"))
	assert.Equal(t, "Los angeles", titleCase("LOS ANGELES"))
	assert.Equal(t, "X", titleCase("x"))
	assert.Equal(t, "", titleCase(""))
}

func TestMapStateCode(t *testing.T) {
	assert.Equal(t, "California", mapStateCode("ca"))
	assert.Equal(t, "California", mapStateCode("CA"))
	assert.Equal(t, "New Hampshire", mapStateCode("nh"))
	assert.Equal(t, "zz", mapStateCode("zz"), "unmatched codes pass through unchanged")
}

func TestValidatePostalCode(t *testing.T) {
	five := func(s string) *string { return &s }

	assert.Equal(t, five("12345"), validatePostalCode("12345-6789"))
	assert.Equal(t, five("62704"), validatePostalCode("627041234"))
	assert.Equal(t, five("12345"), validatePostalCode(float64(12345)))
	assert.Nil(t, validatePostalCode("abc"))
	assert.Nil(t, validatePostalCode("1234"))
	assert.Nil(t, validatePostalCode(" 12345"), "match is anchored at the start")
	assert.Nil(t, validatePostalCode(nil))
}

func TestMapVehicleValidation(t *testing.T) {
	valid := mapVehicle(models.RawVehicle{VIN: "1HGCM82633A004352", Year: "2003"}, testNow)
	assert.Equal(t, "1HGCM82633A004352", valid.Data.VIN)
	assert.Equal(t, "2003", valid.Data.Year)

	invalid := mapVehicle(models.RawVehicle{VIN: "123"}, testNow)
	assert.Equal(t, "INVALID_VIN", invalid.Data.VIN)
}

func TestValidateYear(t *testing.T) {
	cases := []struct {
		name string
		year any
		want string
	}{
		{"string year", "2003", "2003"},
		{"numeric year", float64(1999), "1999"},
		{"current year", float64(testNow.Year()), "2024"},
		{"future year", "2031", "N/A"},
		{"pre-automobile", "1885", "N/A"},
		{"first model year", "1886", "1886"},
		{"garbage", "soon", "N/A"},
		{"missing", nil, "N/A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, validateYear(tc.year, testNow))
		})
	}
}
