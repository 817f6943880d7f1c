package dialogue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamanSoni18/Finmate-Backend/internal/customer"
	"github.com/NamanSoni18/Finmate-Backend/internal/errors"
	"github.com/NamanSoni18/Finmate-Backend/internal/risk"
	"github.com/NamanSoni18/Finmate-Backend/internal/session"
)

type fakeBackend struct {
	customers map[string]*customer.Customer
	scores    map[string]int
	creditErr error
}

func (f *fakeBackend) LookupByPhone(_ context.Context, phone string) (*customer.Customer, error) {
	c, ok := f.customers[phone]
	if !ok {
		return nil, errors.NotFound("no customer for phone " + phone)
	}
	clone := *c
	return &clone, nil
}

func (f *fakeBackend) GetCreditScore(_ context.Context, phone string) (int, error) {
	if f.creditErr != nil {
		return 0, f.creditErr
	}
	return f.scores[phone], nil
}

func newTestMachine(backend *fakeBackend) *Machine {
	engine := risk.NewEngine(backend, backend, 700, 50)
	return NewMachine(backend, engine, Config{
		AnnualRatePercent:   10.99,
		TenureLowMonths:     60,
		TenureHighMonths:    72,
		TenureCutoverAmount: 500000,
	})
}

func defaultBackend() *fakeBackend {
	return &fakeBackend{
		customers: map[string]*customer.Customer{
			"9876543210": {
				ID: "CUST001", Name: "Rajesh Kumar", Phone: "9876543210",
				PreApprovedLimit: 500000, CreditScore: 750, Salary: 80000,
			},
			"9876543211": {
				ID: "CUST002", Name: "Priya Sharma", Phone: "9876543211",
				PreApprovedLimit: 750000, CreditScore: 780, Salary: 120000,
			},
		},
		scores: map[string]int{"9876543210": 750, "9876543211": 780},
	}
}

func newSession() *session.Session {
	return &session.Session{ID: "test-session", State: session.AwaitingPhone}
}

func TestHappyPathWithinLimit(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	got := m.HandleTurn(ctx, sess, "hi, my number is 9876543210")
	require.Equal(t, IntentNeedAmount, got.Type)
	assert.Equal(t, "Rajesh Kumar", got.CustomerName)
	assert.Equal(t, int64(500000), got.PreApprovedLimit)
	assert.Equal(t, session.AwaitingLoanAmount, sess.State)

	got = m.HandleTurn(ctx, sess, "I need 4 lakh")
	require.Equal(t, IntentNeedTenure, got.Type)
	assert.Equal(t, int64(400000), sess.Loan.RequestedAmount)

	got = m.HandleTurn(ctx, sess, "5 years")
	require.Equal(t, IntentShowPreview, got.Type)
	assert.Equal(t, 60, got.TenureMonths)
	assert.Equal(t, risk.EMI(400000, 10.99, 60), got.EMI)
	assert.Equal(t, session.AwaitingConfirmation, sess.State)

	got = m.HandleTurn(ctx, sess, "yes, go ahead")
	require.Equal(t, IntentApproved, got.Type)
	assert.Equal(t, int64(400000), got.Amount)
	assert.False(t, got.AfterDocument)
	assert.Equal(t, session.ConversationEnd, sess.State)
	assert.Equal(t, int64(400000), sess.Loan.FinalAmount)
}

func TestAmountAndTenureInOneMessage(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	got := m.HandleTurn(ctx, sess, "5 lakh for 5 years")
	require.Equal(t, IntentShowPreview, got.Type)
	assert.Equal(t, int64(500000), got.Amount)
	assert.Equal(t, 60, got.TenureMonths)
	assert.Equal(t, session.AwaitingConfirmation, sess.State)
}

func TestSuggestionAccepted(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	m.HandleTurn(ctx, sess, "8 lakh")
	m.HandleTurn(ctx, sess, "60 months")

	got := m.HandleTurn(ctx, sess, "yes")
	require.Equal(t, IntentNeedSuggestionChoice, got.Type)
	assert.Equal(t, int64(500000), got.Suggested)
	assert.Equal(t, int64(800000), got.Requested)
	assert.Equal(t, session.AwaitingSuggestionConfirm, sess.State)

	got = m.HandleTurn(ctx, sess, "okay")
	require.Equal(t, IntentApproved, got.Type)
	assert.Equal(t, int64(500000), got.Amount)
	assert.Equal(t, int64(500000), sess.Loan.FinalAmount)
	assert.Equal(t, session.ConversationEnd, sess.State)
}

func TestSuggestionDeclinedGoesToSalaryUpload(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	m.HandleTurn(ctx, sess, "8 lakh")
	m.HandleTurn(ctx, sess, "5 years")
	m.HandleTurn(ctx, sess, "yes")

	got := m.HandleTurn(ctx, sess, "no, I want the full amount")
	require.Equal(t, IntentPendingDocument, got.Type)
	assert.Equal(t, session.AwaitingSalaryUpload, sess.State)
	assert.Equal(t, int64(800000), sess.Pending.AwaitingDocsForAmount)

	// anything without the upload keyword re-prompts
	got = m.HandleTurn(ctx, sess, "what do you need from me")
	require.Equal(t, IntentPendingDocument, got.Type)
	assert.Equal(t, session.AwaitingSalaryUpload, sess.State)

	// EMI(800000, 10.99, 60) is well under half of an 80k salary
	got = m.HandleTurn(ctx, sess, "uploaded the salary slip")
	require.Equal(t, IntentApproved, got.Type)
	assert.True(t, got.AfterDocument)
	assert.Equal(t, int64(800000), got.Amount)
	assert.Equal(t, session.ConversationEnd, sess.State)
}

func TestSalarySlipFailureRejects(t *testing.T) {
	backend := defaultBackend()
	backend.customers["9876543210"].Salary = 20000
	m := newTestMachine(backend)
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	m.HandleTurn(ctx, sess, "8 lakh")
	m.HandleTurn(ctx, sess, "5 years")
	m.HandleTurn(ctx, sess, "yes")
	m.HandleTurn(ctx, sess, "no")

	got := m.HandleTurn(ctx, sess, "upload done")
	require.Equal(t, IntentRejected, got.Type)
	assert.Contains(t, got.Reason, "salary")
	assert.Equal(t, session.ConversationEnd, sess.State)
}

func TestLowCreditScoreRejects(t *testing.T) {
	backend := defaultBackend()
	backend.scores["9876543210"] = 650
	m := newTestMachine(backend)
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	m.HandleTurn(ctx, sess, "3 lakh")
	m.HandleTurn(ctx, sess, "48 months")

	got := m.HandleTurn(ctx, sess, "yes")
	require.Equal(t, IntentRejected, got.Type)
	assert.Contains(t, got.Reason, "650")
	assert.Equal(t, session.ConversationEnd, sess.State)
}

func TestBeyondDoubleLimitRejects(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	m.HandleTurn(ctx, sess, "12 lakh")
	m.HandleTurn(ctx, sess, "5 years")
	m.HandleTurn(ctx, sess, "yes")

	got := m.HandleTurn(ctx, sess, "no, 12 lakh or nothing")
	require.Equal(t, IntentRejected, got.Type)
	assert.Contains(t, got.Reason, "1000000")
	assert.Equal(t, session.ConversationEnd, sess.State)
}

func TestCreditUnavailableEndsWithRejection(t *testing.T) {
	backend := defaultBackend()
	backend.creditErr = errors.Unavailable("bureau timeout")
	m := newTestMachine(backend)
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	m.HandleTurn(ctx, sess, "3 lakh")
	m.HandleTurn(ctx, sess, "36 months")

	got := m.HandleTurn(ctx, sess, "yes")
	require.Equal(t, IntentRejected, got.Type)
	assert.Contains(t, got.Reason, "try again later")
	assert.Equal(t, session.ConversationEnd, sess.State)
}

func TestUnknownPhoneReprompts(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()

	got := m.HandleTurn(context.Background(), sess, "1234567890")
	require.Equal(t, IntentNeedPhone, got.Type)
	assert.True(t, got.NotFound)
	assert.Equal(t, session.AwaitingPhone, sess.State)
}

func TestAmbiguousAmountAsksForChoice(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	got := m.HandleTurn(ctx, sess, "maybe 3 lakh or 5 lakh")
	require.Equal(t, IntentAmbiguousAmount, got.Type)
	assert.Equal(t, []int64{300000, 500000}, got.Candidates)
	assert.Equal(t, session.AwaitingLoanAmount, sess.State)

	// the follow-up picks one of them
	got = m.HandleTurn(ctx, sess, "3 lakh")
	require.Equal(t, IntentNeedTenure, got.Type)
}

func TestRangeAmountAsksForSingleFigure(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	got := m.HandleTurn(ctx, sess, "somewhere between 2 and 5 lakh")
	require.Equal(t, IntentNeedAmount, got.Type)
	assert.True(t, got.RangeGiven)
	assert.Equal(t, session.AwaitingLoanAmount, sess.State)
	assert.Zero(t, sess.Loan.RequestedAmount)

	got = m.HandleTurn(ctx, sess, "4 lakh")
	require.Equal(t, IntentNeedTenure, got.Type)
	assert.Equal(t, int64(400000), sess.Loan.RequestedAmount)
}

func TestRepeatedAmountInTenureStateIsKept(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	m.HandleTurn(ctx, sess, "4 lakh")

	got := m.HandleTurn(ctx, sess, "actually make it 3 lakh")
	require.Equal(t, IntentNeedTenure, got.Type)
	assert.Equal(t, int64(300000), sess.Loan.RequestedAmount)
	assert.Equal(t, session.AwaitingTenure, sess.State)
}

func TestUnclearConfirmationRestartsAmount(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	m.HandleTurn(ctx, sess, "4 lakh")
	m.HandleTurn(ctx, sess, "5 years")

	got := m.HandleTurn(ctx, sess, "hmm let me think")
	require.Equal(t, IntentNeedAmount, got.Type)
	assert.Equal(t, session.AwaitingLoanAmount, sess.State)
}

func TestReplacementValuesReshowPreview(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	m.HandleTurn(ctx, sess, "4 lakh")
	m.HandleTurn(ctx, sess, "5 years")

	got := m.HandleTurn(ctx, sess, "make it 3 lakh instead")
	require.Equal(t, IntentShowPreview, got.Type)
	assert.Equal(t, int64(300000), got.Amount)
	assert.Equal(t, session.AwaitingConfirmation, sess.State)

	got = m.HandleTurn(ctx, sess, "over 4 years")
	require.Equal(t, IntentShowPreview, got.Type)
	assert.Equal(t, 48, got.TenureMonths)
	assert.Equal(t, session.AwaitingConfirmation, sess.State)
}

func TestRestartFromEveryState(t *testing.T) {
	states := []session.State{
		session.AwaitingLoanAmount,
		session.AwaitingTenure,
		session.AwaitingConfirmation,
		session.AwaitingSuggestionConfirm,
		session.AwaitingSalaryUpload,
		session.ConversationEnd,
	}
	m := newTestMachine(defaultBackend())

	for _, state := range states {
		sess := newSession()
		sess.State = state
		sess.Customer = &customer.Customer{Name: "Rajesh Kumar"}
		sess.Loan = session.Loan{RequestedAmount: 400000, TenureMonths: 60}
		sess.Pending = session.Pending{SuggestedAmount: 500000}

		got := m.HandleTurn(context.Background(), sess, "restart")
		require.Equal(t, IntentReset, got.Type, "state %s", state)
		assert.Equal(t, session.AwaitingPhone, sess.State)
		assert.Nil(t, sess.Customer)
		assert.Zero(t, sess.Loan)
		assert.Zero(t, sess.Pending)
	}
}

func TestHelpKeepsState(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	ctx := context.Background()

	m.HandleTurn(ctx, sess, "9876543210")
	got := m.HandleTurn(ctx, sess, "help")
	require.Equal(t, IntentHelp, got.Type)
	assert.Equal(t, session.AwaitingLoanAmount, sess.State)
	assert.NotNil(t, sess.Customer)
}

func TestCorruptedStateForcesRestart(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	sess.State = session.State("TOTALLY_BOGUS")
	sess.Customer = &customer.Customer{Name: "ghost"}

	got := m.HandleTurn(context.Background(), sess, "anything")
	require.Equal(t, IntentNeedPhone, got.Type)
	assert.Equal(t, session.AwaitingPhone, sess.State)
	assert.Nil(t, sess.Customer)
}

func TestTerminalStateStaysEnded(t *testing.T) {
	m := newTestMachine(defaultBackend())
	sess := newSession()
	sess.State = session.ConversationEnd

	got := m.HandleTurn(context.Background(), sess, "hello again")
	assert.Equal(t, IntentEnded, got.Type)
	assert.Equal(t, session.ConversationEnd, sess.State)
}
