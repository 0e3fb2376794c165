package loan

import (
	"fmt"
	"math"

	"loan-voice-be/pkg/utils"
)

// Inputs are the three fields the eligibility check needs. Nil means the
// conversation has not produced the value yet; zero is treated the same way.
type Inputs struct {
	MonthlySalary   *int64
	LoanAmount      *int64
	LoanTenureYears *int
}

// Result is pushed to the client as-is under the "loan_calculations" event.
// Monetary fields are nil whenever they could not be computed.
type Result struct {
	Eligible          bool     `json:"eligible"`
	EMIAmount         *int64   `json:"emi_amount"`
	MaxEligibleAmount *float64 `json:"max_eligible_amount"`
	LoanAmount        *int64   `json:"loan_amount,omitempty"`
	LoanTenureYears   *int     `json:"loan_tenure_years,omitempty"`
	MonthlySalary     *int64   `json:"monthly_salary,omitempty"`
	InterestRate      *float64 `json:"interest_rate,omitempty"`
	TotalPayable      *int64   `json:"total_payable"`
	TotalInterest     *int64   `json:"total_interest"`
	Reason            string   `json:"reason"`
}

// Calculator computes eligibility and EMI figures. It never panics: bad input
// degrades to a defined ineligible result with a reason.
type Calculator struct {
	annualRatePct  float64
	salaryMultiple float64
}

func NewCalculator(annualRatePct, salaryMultiple float64) *Calculator {
	if annualRatePct <= 0 {
		annualRatePct = 9.0
	}
	if salaryMultiple <= 0 {
		salaryMultiple = 5.0
	}
	return &Calculator{
		annualRatePct:  annualRatePct,
		salaryMultiple: salaryMultiple,
	}
}

func (c *Calculator) Calculate(in Inputs) Result {
	if isMissing(in.MonthlySalary) || isMissing(in.LoanAmount) || in.LoanTenureYears == nil || *in.LoanTenureYears == 0 {
		return Result{
			Eligible: false,
			Reason:   "Waiting for salary, loan amount, and tenure data",
		}
	}

	salary := *in.MonthlySalary
	amount := *in.LoanAmount
	tenure := *in.LoanTenureYears

	annualSalary := float64(salary) * 12
	maxEligible := annualSalary * c.salaryMultiple
	rate := c.annualRatePct

	if float64(amount) > maxEligible {
		return Result{
			Eligible:          false,
			MaxEligibleAmount: &maxEligible,
			LoanAmount:        &amount,
			LoanTenureYears:   &tenure,
			MonthlySalary:     &salary,
			InterestRate:      &rate,
			Reason:            fmt.Sprintf("Loan amount exceeds maximum eligible amount of ₹%s", utils.GroupDigits(int64(math.Round(maxEligible)))),
		}
	}

	monthlyRate := c.annualRatePct / 12 / 100
	months := float64(tenure) * 12

	// EMI = P*r*(1+r)^n / ((1+r)^n - 1)
	factor := math.Pow(1+monthlyRate, months)
	emi := (float64(amount) * monthlyRate * factor) / (factor - 1)

	if math.IsNaN(emi) || math.IsInf(emi, 0) || emi <= 0 {
		return Result{
			Eligible: false,
			Reason:   fmt.Sprintf("Calculation error: EMI undefined for tenure %d years", tenure),
		}
	}

	emiAmount := int64(math.Round(emi))
	totalPayable := int64(math.Round(emi * months))
	totalInterest := totalPayable - amount

	return Result{
		Eligible:          true,
		EMIAmount:         &emiAmount,
		MaxEligibleAmount: &maxEligible,
		LoanAmount:        &amount,
		LoanTenureYears:   &tenure,
		MonthlySalary:     &salary,
		InterestRate:      &rate,
		TotalPayable:      &totalPayable,
		TotalInterest:     &totalInterest,
		Reason:            "Eligible",
	}
}

func isMissing(v *int64) bool {
	return v == nil || *v == 0
}
