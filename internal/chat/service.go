// Package chat wires one inbound message through sentiment, the
// dialogue machine, phrasing, and the post-decision side effects.
package chat

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/NamanSoni18/Finmate-Backend/internal/customer"
	"github.com/NamanSoni18/Finmate-Backend/internal/dialogue"
	"github.com/NamanSoni18/Finmate-Backend/internal/logger"
	"github.com/NamanSoni18/Finmate-Backend/internal/phrasing"
	"github.com/NamanSoni18/Finmate-Backend/internal/sanction"
	"github.com/NamanSoni18/Finmate-Backend/internal/sentiment"
	"github.com/NamanSoni18/Finmate-Backend/internal/session"
)

const (
	auditTimeout      = 5 * time.Second
	escalationTimeout = 5 * time.Second
)

// Escalations is notified when a conversation should be handed to a
// human. Delivery failure never affects the reply.
type Escalations interface {
	NotifyEscalation(ctx context.Context, sessionID, message string) error
}

// Result is the reply for one turn.
type Result struct {
	SessionID string         `json:"sessionId"`
	Intent    string         `json:"intent"`
	Message   string         `json:"message"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// Service is the host around the dialogue machine. It owns per-session
// serialization; callers may invoke it from any goroutine.
type Service struct {
	store     *session.Store
	locks     *session.LockManager
	machine   *dialogue.Machine
	renderer  *phrasing.Renderer
	ledger    *customer.Ledger
	sanctions *sanction.Generator

	escalations         Escalations
	escalationThreshold float64
}

func NewService(
	store *session.Store,
	machine *dialogue.Machine,
	renderer *phrasing.Renderer,
	ledger *customer.Ledger,
	sanctions *sanction.Generator,
	escalations Escalations,
	escalationThreshold float64,
) *Service {
	return &Service{
		store:               store,
		locks:               session.NewLockManager(),
		machine:             machine,
		renderer:            renderer,
		ledger:              ledger,
		sanctions:           sanctions,
		escalations:         escalations,
		escalationThreshold: escalationThreshold,
	}
}

// CreateOrGetSession resolves the live session for id, minting a fresh
// one for unknown, expired, or empty ids.
func (s *Service) CreateOrGetSession(id string) *session.Session {
	sess, _ := s.store.CreateOrGet(id)
	return sess
}

// HandleTurn processes one message end to end and returns the reply.
func (s *Service) HandleTurn(ctx context.Context, sessionID, text string) *Result {
	sess, _ := s.store.CreateOrGet(sessionID)
	s.locks.Lock(sess.ID)
	defer s.locks.Unlock(sess.ID)

	ctx = logger.WithSessionID(ctx, sess.ID)

	mood := sentiment.Classify(text)
	var intent dialogue.Intent
	if mood.ShouldEscalate(s.escalationThreshold) && sess.State != session.ConversationEnd {
		intent = dialogue.Intent{Type: dialogue.IntentEscalate}
		s.notifyEscalation(sess.ID, text)
		sess.Touch()
	} else {
		intent = s.machine.HandleTurn(ctx, sess, text)
	}

	message := s.renderer.Render(ctx, intent, mood.Dominant)
	meta := map[string]any{"state": string(sess.State)}

	switch intent.Type {
	case dialogue.IntentShowPreview:
		meta["amount"] = intent.Amount
		meta["tenureMonths"] = intent.TenureMonths
		meta["emi"] = intent.EMI
		meta["totalInterest"] = intent.TotalInterest
		meta["ratePercent"] = intent.RatePercent
	case dialogue.IntentApproved:
		s.recordApplication(sess, intent, "approved")
		if ref := s.generateSanction(ctx, sess, intent); ref != "" {
			meta["sanctionReference"] = ref
			message += " Your reference number is " + ref + "."
		}
	case dialogue.IntentPendingDocument:
		s.recordApplication(sess, intent, "pending_document")
	case dialogue.IntentRejected:
		s.recordApplication(sess, intent, "rejected")
	}

	return &Result{
		SessionID: sess.ID,
		Intent:    string(intent.Type),
		Message:   message,
		Meta:      meta,
	}
}

// recordApplication is fire and forget; the audit trail must never
// change the user-visible outcome.
func (s *Service) recordApplication(sess *session.Session, intent dialogue.Intent, status string) {
	if s.ledger == nil || sess.Customer == nil {
		return
	}
	phone := sess.Customer.Phone
	amount := sess.Loan.FinalAmount
	if amount == 0 {
		amount = sess.Pending.AwaitingDocsForAmount
	}
	var offer *customer.Offer
	if intent.EMI > 0 {
		offer = &customer.Offer{
			TenureMonths: intent.TenureMonths,
			EMI:          intent.EMI,
			RatePercent:  intent.RatePercent,
		}
	}
	score := intent.RiskScore

	safeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if err := s.ledger.Record(ctx, phone, amount, status, offer, score); err != nil {
			slog.Warn("audit record failed", "phone", phone, "err", err)
		}
	})
}

// generateSanction runs inline because the reference goes into the
// reply. Failure degrades the message but not the approval.
func (s *Service) generateSanction(ctx context.Context, sess *session.Session, intent dialogue.Intent) string {
	if s.sanctions == nil || sess.Customer == nil {
		return ""
	}
	letter, err := s.sanctions.Generate(sess.Customer, sanction.Terms{
		Amount:        intent.Amount,
		TenureMonths:  intent.TenureMonths,
		RatePercent:   intent.RatePercent,
		EMI:           intent.EMI,
		TotalInterest: intent.TotalInterest,
	})
	if err != nil {
		slog.WarnContext(ctx, "sanction letter generation failed", "err", err)
		return ""
	}
	return letter.Reference
}

func (s *Service) notifyEscalation(sessionID, text string) {
	if s.escalations == nil {
		return
	}
	safeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), escalationTimeout)
		defer cancel()
		if err := s.escalations.NotifyEscalation(ctx, sessionID, text); err != nil {
			slog.Warn("escalation notify failed", "session_id", sessionID, "err", err)
		}
	})
}

// SweepSessions drops idle sessions and their lock entries; wired to
// the background scheduler.
func (s *Service) SweepSessions() int {
	removed := s.store.Sweep()
	for _, id := range removed {
		s.locks.Forget(id)
	}
	return len(removed)
}

func safeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic recovered", "panic", r, "stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}
