// Package risk computes the underwriting decision for a loan request: a
// 0-100 composite risk score plus a verdict driven by the credit-score
// cutoff and pre-approved-limit multiples.
package risk

import (
	"context"
	"fmt"
	"math"

	"github.com/NamanSoni18/Finmate-Backend/internal/customer"
	"github.com/NamanSoni18/Finmate-Backend/internal/errors"
)

// Status is the underwriting verdict.
type Status string

const (
	StatusApproved        Status = "approved"
	StatusPendingDocument Status = "pending_document"
	StatusRejected        Status = "rejected"
	StatusError           Status = "error"
)

// Decision is an immutable underwriting outcome. It is produced for one
// transition and never stored on the session.
type Decision struct {
	Status           Status
	RiskScore        int
	CreditScore      int
	PreApprovedLimit int64
	ApprovedAmount   int64
	MaxEMIPercent    int
	Reason           string
}

// CreditLookup resolves a credit score for a phone number.
type CreditLookup interface {
	GetCreditScore(ctx context.Context, phone string) (int, error)
}

// CustomerLookup resolves a customer record for a phone number.
type CustomerLookup interface {
	LookupByPhone(ctx context.Context, phone string) (*customer.Customer, error)
}

// Engine applies the underwriting rules. The scoring itself is pure; only
// Assess touches collaborators.
type Engine struct {
	credit         CreditLookup
	customers      CustomerLookup
	minCreditScore int
	maxEMIPercent  int
}

func NewEngine(credit CreditLookup, customers CustomerLookup, minCreditScore, maxEMIPercent int) *Engine {
	if minCreditScore <= 0 {
		minCreditScore = 700
	}
	if maxEMIPercent <= 0 {
		maxEMIPercent = 50
	}
	return &Engine{
		credit:         credit,
		customers:      customers,
		minCreditScore: minCreditScore,
		maxEMIPercent:  maxEMIPercent,
	}
}

// Assess resolves the collaborator inputs and evaluates the request.
// Collaborator failure surfaces as a StatusError decision, never a hang or a
// panic; no session state is touched here.
func (e *Engine) Assess(ctx context.Context, phone string, requestedAmount int64) Decision {
	if phone == "" {
		return Decision{Status: StatusError, Reason: "phone number cannot be empty"}
	}
	if requestedAmount <= 0 {
		return Decision{Status: StatusError, Reason: "requested amount must be a positive integer"}
	}

	creditScore, err := e.credit.GetCreditScore(ctx, phone)
	if err != nil {
		return Decision{Status: StatusError, Reason: "credit report unavailable, please try again later"}
	}

	c, err := e.customers.LookupByPhone(ctx, phone)
	if err != nil {
		if errors.IsCategory(err, errors.ErrCustomerNotFound) {
			return Decision{Status: StatusError, Reason: "customer not found"}
		}
		return Decision{Status: StatusError, Reason: "customer service unavailable, please try again later"}
	}

	return e.Evaluate(creditScore, c.PreApprovedLimit, requestedAmount)
}

// Evaluate is the pure decision function: identical inputs always yield the
// identical risk score and status.
func (e *Engine) Evaluate(creditScore int, preApprovedLimit, requestedAmount int64) Decision {
	score := Score(creditScore, preApprovedLimit, requestedAmount)

	d := Decision{
		RiskScore:        score,
		CreditScore:      creditScore,
		PreApprovedLimit: preApprovedLimit,
		MaxEMIPercent:    e.maxEMIPercent,
	}

	switch {
	case creditScore < e.minCreditScore:
		d.Status = StatusRejected
		d.Reason = fmt.Sprintf(
			"your application could not be approved as your credit score (%d) is below our minimum requirement",
			creditScore)
	case requestedAmount <= preApprovedLimit:
		d.Status = StatusApproved
		d.ApprovedAmount = requestedAmount
		d.Reason = "your loan has been instantly approved based on your pre-approved offer"
	case preApprovedLimit > 0 && requestedAmount <= 2*preApprovedLimit:
		d.Status = StatusPendingDocument
		d.Reason = "to proceed, please upload your latest salary slip for verification"
	default:
		d.Status = StatusRejected
		d.Reason = fmt.Sprintf(
			"we cannot approve the requested amount; the maximum we can offer is %d",
			2*preApprovedLimit)
	}
	return d
}

// Score computes the 0-100 composite: up to 70 points from the credit score,
// up to 30 from utilization. Used only for reporting; the verdict gates are
// the cutoff and limit multiples.
func Score(creditScore int, preApprovedLimit, requestedAmount int64) int {
	creditComponent := clamp(0, 70, int(math.Round(float64(creditScore-600)*0.35)))

	utilization := 1.0
	if preApprovedLimit > 0 {
		utilization = float64(requestedAmount) / float64(preApprovedLimit)
	}
	utilizationComponent := clamp(0, 30, int(math.Round((2.0-utilization)*15)))

	return clamp(0, 100, creditComponent+utilizationComponent)
}

// VerifySalarySlip applies the document-verification rule: the EMI for the
// requested amount must stay within maxEMIPercent of monthly salary. A
// missing salary auto-passes, mirroring the directory records that predate
// salary capture.
func (e *Engine) VerifySalarySlip(monthlySalary, requestedAmount int64, annualRatePercent float64, tenureMonths int) (bool, int64) {
	emi := EMI(requestedAmount, annualRatePercent, tenureMonths)
	if monthlySalary <= 0 {
		return true, emi
	}
	limit := float64(e.maxEMIPercent) / 100.0 * float64(monthlySalary)
	return float64(emi) <= limit, emi
}

func clamp(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
