package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoanFieldsFromMap(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want LoanFields
	}{
		{
			name: "typical model output",
			raw: map[string]interface{}{
				"first_name":        "Ravi",
				"monthly_salary":    float64(75000),
				"loan_amount":       float64(3000000),
				"loan_tenure_years": float64(20),
				"email_address":     "ravi@example.com",
				"email_consent":     true,
			},
			want: LoanFields{
				FirstName:       strPtr("Ravi"),
				MonthlySalary:   int64Ptr(75000),
				LoanAmount:      int64Ptr(3000000),
				LoanTenureYears: intPtr(20),
				EmailAddress:    strPtr("ravi@example.com"),
				EmailConsent:    true,
			},
		},
		{
			name: "numbers as comma strings",
			raw: map[string]interface{}{
				"monthly_salary": "75,000",
				"loan_amount":    " 30,00,000 ",
			},
			want: LoanFields{
				MonthlySalary: int64Ptr(75000),
				LoanAmount:    int64Ptr(3000000),
			},
		},
		{
			name: "consent as string",
			raw:  map[string]interface{}{"email_consent": "True"},
			want: LoanFields{EmailConsent: true},
		},
		{
			name: "null-ish strings degrade to nil",
			raw: map[string]interface{}{
				"first_name":     "null",
				"phone_number":   "   ",
				"monthly_salary": "not a number",
				"email_consent":  "nope",
			},
			want: LoanFields{},
		},
		{
			name: "wrong types degrade to nil",
			raw: map[string]interface{}{
				"first_name":    float64(42),
				"loan_amount":   true,
				"email_consent": float64(1),
			},
			want: LoanFields{},
		},
		{
			name: "empty map",
			raw:  map[string]interface{}{},
			want: LoanFields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoanFieldsFromMap(tt.raw))
		})
	}
}

func TestPresentOrderingAndConsent(t *testing.T) {
	f := LoanFields{
		FirstName:  strPtr("Anita"),
		LoanAmount: int64Ptr(500000),
	}

	got := f.Present()
	if assert.Len(t, got, 3) {
		assert.Equal(t, FieldValue{FieldFirstName, "Anita"}, got[0])
		assert.Equal(t, FieldValue{FieldLoanAmount, int64(500000)}, got[1])
		// Consent is always last, even when false.
		assert.Equal(t, FieldValue{FieldEmailConsent, false}, got[2])
	}

	// The zero schema still reports consent.
	empty := LoanFields{}.Present()
	if assert.Len(t, empty, 1) {
		assert.Equal(t, FieldValue{FieldEmailConsent, false}, empty[0])
	}
}

func TestFieldState(t *testing.T) {
	s := NewFieldState()

	s.SetPending("city", "Pune")
	s.SetConfirmed("first_name", "Ravi")
	s.SetPending("first_name", "Ravindra")

	assert.Equal(t, map[string]interface{}{"city": "Pune", "first_name": "Ravindra"}, s.Pending())
	assert.Equal(t, map[string]interface{}{"first_name": "Ravi"}, s.Confirmed())

	p, c := s.Counts()
	assert.Equal(t, 2, p)
	assert.Equal(t, 1, c)

	// Returned maps are copies.
	s.Pending()["city"] = "Delhi"
	assert.Equal(t, "Pune", s.Pending()["city"])
}

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
