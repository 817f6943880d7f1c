package risk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamanSoni18/Finmate-Backend/internal/customer"
	"github.com/NamanSoni18/Finmate-Backend/internal/errors"
)

type stubCredit struct {
	score int
	err   error
}

func (s stubCredit) GetCreditScore(ctx context.Context, phone string) (int, error) {
	return s.score, s.err
}

type stubCustomers struct {
	c   *customer.Customer
	err error
}

func (s stubCustomers) LookupByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	return s.c, s.err
}

func newTestEngine(score int, limit int64) *Engine {
	return NewEngine(
		stubCredit{score: score},
		stubCustomers{c: &customer.Customer{Phone: "9876543210", PreApprovedLimit: limit}},
		700, 50,
	)
}

func TestEvaluateWithinLimit(t *testing.T) {
	e := newTestEngine(750, 500000)
	d := e.Evaluate(750, 500000, 400000)

	assert.Equal(t, StatusApproved, d.Status)
	assert.Equal(t, int64(400000), d.ApprovedAmount)
	assert.Equal(t, 750, d.CreditScore)
	assert.Equal(t, int64(500000), d.PreApprovedLimit)
}

func TestEvaluatePendingDocument(t *testing.T) {
	e := newTestEngine(750, 500000)
	d := e.Evaluate(750, 500000, 800000)

	assert.Equal(t, StatusPendingDocument, d.Status)
	assert.Equal(t, 50, d.MaxEMIPercent)
}

func TestEvaluateLowCreditScoreRejects(t *testing.T) {
	e := newTestEngine(650, 500000)

	for _, amount := range []int64{1, 100000, 400000, 800000, 5000000} {
		d := e.Evaluate(650, 500000, amount)
		assert.Equal(t, StatusRejected, d.Status, "amount %d", amount)
		assert.Contains(t, d.Reason, "650")
	}
}

func TestEvaluateBeyondDoubleLimitRejects(t *testing.T) {
	e := newTestEngine(780, 500000)
	d := e.Evaluate(780, 500000, 1200000)

	assert.Equal(t, StatusRejected, d.Status)
	assert.Contains(t, d.Reason, "1000000")
}

func TestEvaluateIsPure(t *testing.T) {
	e := newTestEngine(750, 500000)
	first := e.Evaluate(750, 500000, 400000)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Evaluate(750, 500000, 400000))
	}
}

func TestScoreComponents(t *testing.T) {
	// credit: round((750-600)*0.35)=53, utilization 0.8: round((2-0.8)*15)=18
	assert.Equal(t, 71, Score(750, 500000, 400000))

	// zero limit treated as utilization 1.0
	assert.Equal(t, 53+15, Score(750, 0, 400000))

	// clamps hold at the extremes
	assert.Equal(t, 100, Score(900, 1000000, 1))
	assert.Equal(t, 0, Score(400, 100, 10000000))
	for _, score := range []int{Score(900, 1, 1), Score(0, 0, 1)} {
		require.GreaterOrEqual(t, score, 0)
		require.LessOrEqual(t, score, 100)
	}
}

func TestAssessValidation(t *testing.T) {
	e := newTestEngine(750, 500000)

	d := e.Assess(context.Background(), "", 400000)
	assert.Equal(t, StatusError, d.Status)

	d = e.Assess(context.Background(), "9876543210", 0)
	assert.Equal(t, StatusError, d.Status)
}

func TestAssessCollaboratorFailures(t *testing.T) {
	e := NewEngine(
		stubCredit{err: errors.Unavailable("bureau down")},
		stubCustomers{c: &customer.Customer{PreApprovedLimit: 500000}},
		700, 50,
	)
	d := e.Assess(context.Background(), "9876543210", 400000)
	assert.Equal(t, StatusError, d.Status)

	e = NewEngine(
		stubCredit{score: 750},
		stubCustomers{err: errors.NotFound("missing")},
		700, 50,
	)
	d = e.Assess(context.Background(), "9876543210", 400000)
	assert.Equal(t, StatusError, d.Status)
	assert.Contains(t, d.Reason, "not found")
}

func TestAssessHappyPath(t *testing.T) {
	e := newTestEngine(750, 500000)
	d := e.Assess(context.Background(), "9876543210", 400000)

	assert.Equal(t, StatusApproved, d.Status)
	assert.Equal(t, int64(400000), d.ApprovedAmount)
}

func TestVerifySalarySlip(t *testing.T) {
	e := newTestEngine(750, 500000)

	// EMI(800000, 10.99%, 60) ~ 17390, within half of an 80k salary
	ok, emi := e.VerifySalarySlip(80000, 800000, 10.99, 60)
	assert.True(t, ok)
	assert.Greater(t, emi, int64(0))

	// tiny salary fails the 50% rule
	ok, _ = e.VerifySalarySlip(10000, 800000, 10.99, 60)
	assert.False(t, ok)

	// unknown salary auto-passes
	ok, _ = e.VerifySalarySlip(0, 800000, 10.99, 60)
	assert.True(t, ok)
}
