package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/models"
)

// vinLength is the fixed length of a well-formed VIN.
const vinLength = 17

// firstModelYear: Benz Patent-Motorwagen. Nothing insurable predates it.
const firstModelYear = 1886

// mapVehicle normalizes the vehicle block into a property record.
func mapVehicle(vehicle models.RawVehicle, now time.Time) models.PropertyRecord {
	bodyStyle := "N/A"
	if vehicle.BodyStyle != "" {
		bodyStyle = strings.ToUpper(vehicle.BodyStyle)
	}

	model := "N/A"
	if vehicle.Model != "" {
		model = titleCase(vehicle.Model)
	}

	vehicleMake := "N/A"
	if vehicle.Make != "" {
		vehicleMake = titleCase(vehicle.Make)
	}

	return models.PropertyRecord{
		Type: "vehicle",
		Data: models.VehicleData{
			BodyStyle: bodyStyle,
			VIN:       validateVIN(vehicle.VIN),
			Model:     model,
			Year:      validateYear(vehicle.Year, now),
			Make:      vehicleMake,
		},
	}
}

// validateVIN passes a VIN through only when it has exactly 17 characters.
func validateVIN(vin string) string {
	if len(vin) == vinLength {
		return vin
	}
	return "INVALID_VIN"
}

var leadingInteger = regexp.MustCompile(`^[+-]?\d+`)

// validateYear keeps the year as a string only when it parses as an integer
// within [1886, current year]. Carriers send years as strings or numbers.
func validateYear(year any, now time.Time) string {
	var parsed int
	switch y := year.(type) {
	case string:
		match := leadingInteger.FindString(strings.TrimSpace(y))
		if match == "" {
			return "N/A"
		}
		n, err := strconv.Atoi(match)
		if err != nil {
			return "N/A"
		}
		parsed = n
	case float64:
		parsed = int(y)
	case int:
		parsed = y
	default:
		return "N/A"
	}

	if parsed < firstModelYear || parsed > now.Year() {
		return "N/A"
	}
	return strconv.Itoa(parsed)
}
