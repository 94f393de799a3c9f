package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/models"
)

// uninsuredMotoristCategory is the one coverage name that expands into two
// records (bodily injury and property damage).
const uninsuredMotoristCategory = "UNINSURED_MOTOR_VEHICLE_CTGRY"

// umpdDeductibleFromBodilyInjury preserves a legacy mapping inconsistency:
// the UMPD record's deductible is extracted from the UMBI detail bucket, not
// the UMPD bucket. Pending product clarification; flip to false to source it
// from the UMPD bucket.
const umpdDeductibleFromBodilyInjury = true

var coverageCodes = map[string]string{
	"BODILY_INJURY":          "BI",
	"PROPERTY_DAMAGE":        "PD",
	"MEDICAL_PAYMENTS":       "MED",
	"EMERGENCY_ROAD_SERVICE": "ERS",
	"CAR_RENTAL":             "REN",
	"COMPREHENSIVE":          "COMP",
	"COLLISION":              "COLL",
}

var coverageLabels = map[string]string{
	"BODILY_INJURY":          "Bodily Injury Liability",
	"PROPERTY_DAMAGE":        "Property Damage Liability",
	"MEDICAL_PAYMENTS":       "Medical Payments",
	"EMERGENCY_ROAD_SERVICE": "Emergency Road Service",
	"CAR_RENTAL":             "Car Rental",
	"COMPREHENSIVE":          "Comprehensive",
	"COLLISION":              "Collision",
}

// mapCoverage maps one raw coverage entry into zero, one, or two records.
func mapCoverage(coverage models.RawCoverage) []models.CoverageRecord {
	if coverage.Name == uninsuredMotoristCategory {
		return splitUninsuredMotorist(coverage.LineDetails)
	}

	code, label := "UNKNOWN", "Unknown Coverage"
	if c, ok := coverageCodes[coverage.Name]; ok {
		code = c
	}
	if l, ok := coverageLabels[coverage.Name]; ok {
		label = l
	}

	return []models.CoverageRecord{{
		Code:             code,
		Label:            label,
		Deductible:       extractAmount(coverage.LineDetails, "Deductible"),
		LimitPerAccident: extractAmount(coverage.LineDetails, "Limit Per Accident"),
		LimitPerPerson:   extractAmount(coverage.LineDetails, "Limit Per Person"),
	}}
}

// splitUninsuredMotorist partitions the category's detail lines into bodily
// injury and property damage buckets. Detail lines are contextual: a line
// naming a coverage sets the context, and amount lines bind to whichever
// context is current.
func splitUninsuredMotorist(details []models.RawLineDetail) []models.CoverageRecord {
	const (
		contextNone = ""
		contextUMBI = "UMBI"
		contextUMPD = "UMPD"
	)

	var umbi, umpd []models.RawLineDetail
	context := contextNone

	for _, detail := range details {
		text := detail.Value
		switch {
		case strings.Contains(text, "UE BI ") || strings.Contains(text, "Bodily Injury"):
			context = contextUMBI
			umbi = append(umbi, detail)
		case strings.Contains(text, "UE PD ") || strings.Contains(text, "Property Damage"):
			context = contextUMPD
			umpd = append(umpd, detail)
		case strings.Contains(text, "Limit Per Accident"):
			if context == contextUMBI {
				umbi = append(umbi, detail)
			} else if context == contextUMPD {
				umpd = append(umpd, detail)
			}
		case strings.Contains(text, "Limit Per Person") && context == contextUMBI:
			umbi = append(umbi, detail)
		case strings.Contains(text, "Deductible") && context == contextUMPD:
			umpd = append(umpd, detail)
		}
	}

	umbiRecord := models.CoverageRecord{
		Code:             "UMBI",
		Label:            "Uninsured Motorists Bodily Injury Liability",
		Deductible:       extractAmount(umbi, "Deductible"),
		LimitPerAccident: extractAmount(umbi, "Limit Per Accident"),
		LimitPerPerson:   extractAmount(umbi, "Limit Per Person"),
	}

	umpdDeductibleBucket := umpd
	if umpdDeductibleFromBodilyInjury {
		umpdDeductibleBucket = umbi
	}
	umpdRecord := models.CoverageRecord{
		Code:             "UMPD",
		Label:            "Uninsured Motorists Property Damage Liability",
		Deductible:       extractAmount(umpdDeductibleBucket, "Deductible"),
		LimitPerAccident: extractAmount(umpd, "Limit Per Accident"),
	}

	records := []models.CoverageRecord{}
	if hasAmount(umbiRecord) {
		records = append(records, umbiRecord)
	}
	if hasAmount(umpdRecord) {
		records = append(records, umpdRecord)
	}
	return records
}

func hasAmount(r models.CoverageRecord) bool {
	return r.Deductible != nil || r.LimitPerAccident != nil || r.LimitPerPerson != nil
}

var monetaryAmount = regexp.MustCompile(`\$([0-9,]+)`)

// extractAmount scans detail lines for the first one that both mentions the
// key phrase and carries a $-prefixed amount, returning the amount with
// commas stripped, or nil when no line qualifies.
func extractAmount(details []models.RawLineDetail, keyPhrase string) *float64 {
	for _, detail := range details {
		if !strings.Contains(detail.Value, keyPhrase) {
			continue
		}
		match := monetaryAmount.FindStringSubmatch(detail.Value)
		if match == nil {
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return &amount
	}
	return nil
}
