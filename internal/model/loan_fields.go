package model

import (
	"math"
	"strconv"
	"strings"
)

// Loan application field names, as extracted from the conversation and as
// pushed to the client in field events.
const (
	FieldFirstName       = "first_name"
	FieldDateOfBirth     = "date_of_birth"
	FieldMonthlySalary   = "monthly_salary"
	FieldPhoneNumber     = "phone_number"
	FieldEmailAddress    = "email_address"
	FieldLoanAmount      = "loan_amount"
	FieldLoanTenureYears = "loan_tenure_years"
	FieldEmailConsent    = "email_consent"
)

// LoanFields is the fixed extraction schema. Every field is nullable except
// EmailConsent, which defaults to false. The zero value is the defined
// "extraction failed" result.
type LoanFields struct {
	FirstName       *string `json:"first_name"`
	DateOfBirth     *string `json:"date_of_birth"`
	MonthlySalary   *int64  `json:"monthly_salary"`
	PhoneNumber     *string `json:"phone_number"`
	EmailAddress    *string `json:"email_address"`
	LoanAmount      *int64  `json:"loan_amount"`
	LoanTenureYears *int    `json:"loan_tenure_years"`
	EmailConsent    bool    `json:"email_consent"`
}

// FieldValue is an ordered field/value pair for client events.
type FieldValue struct {
	Field string
	Value interface{}
}

// Present lists the fields that carry a value, in schema order. EmailConsent
// is always included since false is meaningful (declined or silent).
func (f LoanFields) Present() []FieldValue {
	out := make([]FieldValue, 0, 8)
	if f.FirstName != nil {
		out = append(out, FieldValue{FieldFirstName, *f.FirstName})
	}
	if f.DateOfBirth != nil {
		out = append(out, FieldValue{FieldDateOfBirth, *f.DateOfBirth})
	}
	if f.MonthlySalary != nil {
		out = append(out, FieldValue{FieldMonthlySalary, *f.MonthlySalary})
	}
	if f.PhoneNumber != nil {
		out = append(out, FieldValue{FieldPhoneNumber, *f.PhoneNumber})
	}
	if f.EmailAddress != nil {
		out = append(out, FieldValue{FieldEmailAddress, *f.EmailAddress})
	}
	if f.LoanAmount != nil {
		out = append(out, FieldValue{FieldLoanAmount, *f.LoanAmount})
	}
	if f.LoanTenureYears != nil {
		out = append(out, FieldValue{FieldLoanTenureYears, *f.LoanTenureYears})
	}
	out = append(out, FieldValue{FieldEmailConsent, f.EmailConsent})
	return out
}

// LoanFieldsFromMap builds the schema from a loosely-typed parsed JSON object.
// The model is asked for integers but may emit numbers as floats or quoted
// strings; unparseable values degrade to null rather than failing the whole
// extraction.
func LoanFieldsFromMap(raw map[string]interface{}) LoanFields {
	tenure := asInt(raw[FieldLoanTenureYears])
	var tenurePtr *int
	if tenure != nil {
		t := int(*tenure)
		tenurePtr = &t
	}

	return LoanFields{
		FirstName:       asString(raw[FieldFirstName]),
		DateOfBirth:     asString(raw[FieldDateOfBirth]),
		MonthlySalary:   asInt(raw[FieldMonthlySalary]),
		PhoneNumber:     asString(raw[FieldPhoneNumber]),
		EmailAddress:    asString(raw[FieldEmailAddress]),
		LoanAmount:      asInt(raw[FieldLoanAmount]),
		LoanTenureYears: tenurePtr,
		EmailConsent:    asBool(raw[FieldEmailConsent]),
	}
}

func asString(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}

func asInt(v interface{}) *int64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		i := int64(math.Round(n))
		return &i
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if i, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
			return &i
		}
		return nil
	default:
		return nil
	}
}

func asBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}
