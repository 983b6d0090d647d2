package workflow

import (
	"encoding/json"
	"strings"

	"iledu-loan/internal/core/domain"

	"github.com/xeipuuv/gojsonschema"
)

// The multipart form carries the first two stages as JSON strings. These
// schemas check their shape before decoding so a malformed payload turns
// into field errors instead of a decode failure.
const userDetailsSchema = `{
	"type": "object",
	"properties": {
		"applicantFirstName": {"type": ["string", "null"]},
		"applicantLastName":  {"type": ["string", "null"]},
		"purpose":            {"type": ["string", "null"]},
		"amountRequested":    {"type": ["string", "number", "null"]},
		"dob":                {"type": ["string", "null"]}
	}
}`

const familyDetailsSchema = `{
	"type": "object",
	"properties": {
		"fatherFirstName":    {"type": ["string", "null"]},
		"fatherLastName":     {"type": ["string", "null"]},
		"fatherOccupation":   {"type": ["string", "null"]},
		"fatherIncome":       {"type": ["string", "number", "null"]},
		"motherFirstName":    {"type": ["string", "null"]},
		"motherLastName":     {"type": ["string", "null"]},
		"motherOccupation":   {"type": ["string", "null"]},
		"motherIncome":       {"type": ["string", "number", "null"]},
		"guardianFirstName":  {"type": ["string", "null"]},
		"guardianLastName":   {"type": ["string", "null"]},
		"guardianOccupation": {"type": ["string", "null"]}
	}
}`

var (
	userSchema   = mustSchema(userDetailsSchema)
	familySchema = mustSchema(familyDetailsSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

// DecodeLoanDetails parses the userDetails form field.
func DecodeLoanDetails(raw string) (LoanDetails, domain.FieldErrors) {
	var out LoanDetails
	errs := decode(sectionUser, userSchema, raw, &out)
	return out, errs
}

// DecodeFamilyDetails parses the familyDetails form field.
func DecodeFamilyDetails(raw string) (FamilyDetails, domain.FieldErrors) {
	var out FamilyDetails
	errs := decode(sectionFamily, familySchema, raw, &out)
	return out, errs
}

func decode(section string, schema *gojsonschema.Schema, raw string, dst interface{}) domain.FieldErrors {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.FieldErrors{{Field: section, Message: section + " is required"}}
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return domain.FieldErrors{{Field: section, Message: section + " must be valid JSON"}}
	}
	if !result.Valid() {
		var errs domain.FieldErrors
		for _, re := range result.Errors() {
			path := section
			if f := re.Field(); f != "" && f != "(root)" {
				path = section + "." + f
			}
			errs = errs.Add(path, re.Description())
		}
		return errs
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return domain.FieldErrors{{Field: section, Message: err.Error()}}
	}
	return nil
}
