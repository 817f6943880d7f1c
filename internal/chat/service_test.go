package chat

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamanSoni18/Finmate-Backend/internal/customer"
	"github.com/NamanSoni18/Finmate-Backend/internal/dialogue"
	"github.com/NamanSoni18/Finmate-Backend/internal/errors"
	"github.com/NamanSoni18/Finmate-Backend/internal/phrasing"
	"github.com/NamanSoni18/Finmate-Backend/internal/risk"
	"github.com/NamanSoni18/Finmate-Backend/internal/sanction"
	"github.com/NamanSoni18/Finmate-Backend/internal/session"
)

type fakeBackend struct {
	customers map[string]*customer.Customer
	scores    map[string]int
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
	return f.scores[phone], nil
}

type recordingEscalations struct {
	notified chan string
}

func (r *recordingEscalations) NotifyEscalation(_ context.Context, sessionID, _ string) error {
	r.notified <- sessionID
	return nil
}

func newTestService(t *testing.T, escalations Escalations) *Service {
	t.Helper()
	backend := &fakeBackend{
		customers: map[string]*customer.Customer{
			"9876543210": {
				ID: "CUST001", Name: "Rajesh Kumar", Phone: "9876543210",
				PreApprovedLimit: 500000, CreditScore: 750, Salary: 80000,
			},
		},
		scores: map[string]int{"9876543210": 750},
	}
	engine := risk.NewEngine(backend, backend, 700, 50)
	machine := dialogue.NewMachine(backend, engine, dialogue.Config{
		AnnualRatePercent:   10.99,
		TenureLowMonths:     60,
		TenureHighMonths:    72,
		TenureCutoverAmount: 500000,
	})
	dir := t.TempDir()
	return NewService(
		session.NewStore(time.Hour),
		machine,
		phrasing.NewRenderer(nil, time.Second),
		customer.NewLedger(filepath.Join(dir, "applications.jsonl")),
		sanction.NewGenerator(filepath.Join(dir, "letters")),
		escalations,
		0.7,
	)
}

func TestFullConversation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	res := svc.HandleTurn(ctx, "", "hello")
	require.Equal(t, string(dialogue.IntentNeedPhone), res.Intent)
	sid := res.SessionID
	require.NotEmpty(t, sid)

	res = svc.HandleTurn(ctx, sid, "9876543210")
	require.Equal(t, string(dialogue.IntentNeedAmount), res.Intent)
	assert.Contains(t, res.Message, "Rajesh Kumar")
	assert.Equal(t, sid, res.SessionID)

	res = svc.HandleTurn(ctx, sid, "4 lakh")
	require.Equal(t, string(dialogue.IntentNeedTenure), res.Intent)

	res = svc.HandleTurn(ctx, sid, "5 years")
	require.Equal(t, string(dialogue.IntentShowPreview), res.Intent)
	assert.Contains(t, res.Message, "4,00,000")

	res = svc.HandleTurn(ctx, sid, "yes")
	require.Equal(t, string(dialogue.IntentApproved), res.Intent)
	assert.Contains(t, res.Message, "SL-")
	assert.NotEmpty(t, res.Meta["sanctionReference"])
	assert.Equal(t, string(session.ConversationEnd), res.Meta["state"])
}

func TestUnknownSessionIDStartsFresh(t *testing.T) {
	svc := newTestService(t, nil)

	res := svc.HandleTurn(context.Background(), "no-such-id", "hi there")
	assert.NotEqual(t, "no-such-id", res.SessionID)
	assert.Equal(t, string(dialogue.IntentNeedPhone), res.Intent)
}

func TestEscalationOnDistressedMessage(t *testing.T) {
	esc := &recordingEscalations{notified: make(chan string, 1)}
	svc := newTestService(t, esc)
	ctx := context.Background()

	res := svc.HandleTurn(ctx, "", "9876543210")
	sid := res.SessionID

	res = svc.HandleTurn(ctx, sid, "this is useless, worst experience, I am so frustrated")
	require.Equal(t, string(dialogue.IntentEscalate), res.Intent)
	// state must not move while a human takes over
	assert.Equal(t, string(session.AwaitingLoanAmount), res.Meta["state"])

	select {
	case got := <-esc.notified:
		assert.Equal(t, sid, got)
	case <-time.After(2 * time.Second):
		t.Fatal("escalation notifier was never called")
	}
}

func TestNeutralMessageDoesNotEscalate(t *testing.T) {
	esc := &recordingEscalations{notified: make(chan string, 1)}
	svc := newTestService(t, esc)

	res := svc.HandleTurn(context.Background(), "", "I would like a loan")
	assert.Equal(t, string(dialogue.IntentNeedPhone), res.Intent)
	select {
	case <-esc.notified:
		t.Fatal("neutral message must not escalate")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSweepSessions(t *testing.T) {
	svc := newTestService(t, nil)
	res := svc.HandleTurn(context.Background(), "", "hello")

	sess := svc.CreateOrGetSession(res.SessionID)
	sess.LastSeen = time.Now().Add(-2 * time.Hour)

	assert.Equal(t, 1, svc.SweepSessions())

	fresh := svc.CreateOrGetSession(res.SessionID)
	assert.NotEqual(t, res.SessionID, fresh.ID)
	assert.Equal(t, session.AwaitingPhone, fresh.State)
}
