package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/NamanSoni18/Finmate-Backend/internal/customer"
	"github.com/NamanSoni18/Finmate-Backend/internal/errors"
	"github.com/NamanSoni18/Finmate-Backend/internal/extract"
	"github.com/NamanSoni18/Finmate-Backend/internal/risk"
	"github.com/NamanSoni18/Finmate-Backend/internal/session"
)

// CustomerLookup resolves a verified caller from a 10-digit phone number.
type CustomerLookup interface {
	LookupByPhone(ctx context.Context, phone string) (*customer.Customer, error)
}

// Config carries the loan product parameters the machine needs.
type Config struct {
	AnnualRatePercent   float64
	TenureLowMonths     int
	TenureHighMonths    int
	TenureCutoverAmount int64
}

// Machine applies one user message to a session and decides the next
// intent. Callers must serialize turns per session.
type Machine struct {
	customers CustomerLookup
	risk      *risk.Engine
	cfg       Config
}

func NewMachine(customers CustomerLookup, engine *risk.Engine, cfg Config) *Machine {
	return &Machine{
		customers: customers,
		risk:      engine,
		cfg:       cfg,
	}
}

var resetKeywords = map[string]struct{}{
	"restart":    {},
	"reset":      {},
	"start over": {},
	"new":        {},
	"new chat":   {},
}

var helpKeywords = map[string]struct{}{
	"help":            {},
	"what can you do": {},
	"menu":            {},
}

// HandleTurn processes one inbound message. Every path returns a usable
// intent; collaborator failures surface as rejection intents instead of
// errors.
func (m *Machine) HandleTurn(ctx context.Context, sess *session.Session, text string) Intent {
	sess.Touch()
	normalized := strings.ToLower(strings.TrimSpace(text))

	if _, ok := resetKeywords[normalized]; ok {
		sess.Reset()
		return Intent{Type: IntentReset}
	}
	if _, ok := helpKeywords[normalized]; ok {
		return Intent{Type: IntentHelp}
	}

	if !sess.State.Valid() {
		slog.WarnContext(ctx, "session in unknown state, forcing restart",
			"state", string(sess.State))
		sess.Reset()
		return Intent{Type: IntentNeedPhone}
	}

	switch sess.State {
	case session.AwaitingPhone:
		return m.handlePhone(ctx, sess, text)
	case session.AwaitingLoanAmount:
		return m.handleAmount(ctx, sess, text)
	case session.AwaitingTenure:
		return m.handleTenure(sess, text)
	case session.AwaitingConfirmation:
		return m.handleConfirmation(ctx, sess, text)
	case session.AwaitingSuggestionConfirm:
		return m.handleSuggestionChoice(ctx, sess, text)
	case session.AwaitingSalaryUpload:
		return m.handleSalaryUpload(ctx, sess, normalized)
	default:
		return Intent{Type: IntentEnded}
	}
}

func (m *Machine) handlePhone(ctx context.Context, sess *session.Session, text string) Intent {
	phone := extract.Phone(text)
	if phone == "" {
		return Intent{Type: IntentNeedPhone}
	}

	cust, err := m.customers.LookupByPhone(ctx, phone)
	if err != nil {
		if !errors.IsCategory(err, errors.ErrCustomerNotFound) {
			slog.WarnContext(ctx, "customer lookup failed", "err", err)
		}
		return Intent{Type: IntentNeedPhone, NotFound: true}
	}

	sess.Customer = cust
	sess.State = session.AwaitingLoanAmount
	return Intent{
		Type:             IntentNeedAmount,
		CustomerName:     cust.Name,
		PreApprovedLimit: cust.PreApprovedLimit,
	}
}

func (m *Machine) handleAmount(ctx context.Context, sess *session.Session, text string) Intent {
	candidates := extract.AmountCandidates(text)
	if len(candidates) >= 2 && hasChoiceSeparator(text) {
		return Intent{Type: IntentAmbiguousAmount, Candidates: candidates}
	}

	// a range like "between 2 and 5 lakh" never silently picks a bound
	if extract.IsRangeExpression(text) {
		intent := m.repromptAmount(sess)
		intent.RangeGiven = true
		return intent
	}

	amount, ok := extract.Amount(text)
	if !ok || amount <= 0 {
		return m.repromptAmount(sess)
	}
	sess.Loan.RequestedAmount = amount

	// a tenure in the same message skips a turn, but only with an
	// explicit unit so bare digits stay part of the amount
	if tenure, found := extract.TenureMonthsExplicit(text); found && tenure > 0 {
		sess.Loan.TenureMonths = tenure
		sess.State = session.AwaitingConfirmation
		return m.previewIntent(sess)
	}

	sess.State = session.AwaitingTenure
	return Intent{Type: IntentNeedTenure, Amount: amount}
}

func (m *Machine) handleTenure(sess *session.Session, text string) Intent {
	if tenure, ok := extract.TenureMonths(text); ok && tenure > 0 {
		sess.Loan.TenureMonths = tenure
		sess.State = session.AwaitingConfirmation
		return m.previewIntent(sess)
	}

	// the caller restated an amount instead; take it and ask again
	if amount, ok := extract.Amount(text); ok && amount > 0 {
		sess.Loan.RequestedAmount = amount
		return Intent{Type: IntentNeedTenure, Amount: amount}
	}

	return Intent{Type: IntentNeedTenure, Amount: sess.Loan.RequestedAmount}
}

func (m *Machine) handleConfirmation(ctx context.Context, sess *session.Session, text string) Intent {
	switch {
	case extract.IsAffirmative(text):
		return m.discussSale(ctx, sess)
	case extract.IsNegative(text):
		sess.State = session.AwaitingLoanAmount
		return m.repromptAmount(sess)
	}

	// replacement values re-show the preview without leaving the state
	replaced := false
	if amount, ok := extract.Amount(text); ok && amount > 0 {
		sess.Loan.RequestedAmount = amount
		replaced = true
		if tenure, found := extract.TenureMonthsExplicit(text); found && tenure > 0 {
			sess.Loan.TenureMonths = tenure
		}
	} else if tenure, ok := extract.TenureMonths(text); ok && tenure > 0 {
		sess.Loan.TenureMonths = tenure
		replaced = true
	}
	if replaced {
		return m.previewIntent(sess)
	}

	sess.State = session.AwaitingLoanAmount
	return m.repromptAmount(sess)
}

// discussSale compares the confirmed amount against the pre-approved
// limit: within limit goes straight to underwriting, above it the caller
// gets offered the limit as an alternative.
func (m *Machine) discussSale(ctx context.Context, sess *session.Session) Intent {
	requested := sess.Loan.RequestedAmount
	limit := sess.Customer.PreApprovedLimit

	if requested <= limit {
		sess.Loan.FinalAmount = requested
		return m.runUnderwriting(ctx, sess)
	}

	sess.Pending.SuggestedAmount = limit
	sess.Pending.RequestedAtOffer = requested
	sess.State = session.AwaitingSuggestionConfirm
	return Intent{
		Type:      IntentNeedSuggestionChoice,
		Suggested: limit,
		Requested: requested,
	}
}

func (m *Machine) handleSuggestionChoice(ctx context.Context, sess *session.Session, text string) Intent {
	switch {
	case extract.IsAffirmative(text):
		sess.Loan.FinalAmount = sess.Pending.SuggestedAmount
		return m.runUnderwriting(ctx, sess)
	case extract.IsNegative(text):
		sess.Loan.FinalAmount = sess.Pending.RequestedAtOffer
		return m.runUnderwriting(ctx, sess)
	}

	return Intent{
		Type:      IntentNeedSuggestionChoice,
		Suggested: sess.Pending.SuggestedAmount,
		Requested: sess.Pending.RequestedAtOffer,
	}
}

func (m *Machine) handleSalaryUpload(ctx context.Context, sess *session.Session, normalized string) Intent {
	if !strings.Contains(normalized, "upload") {
		return Intent{
			Type:   IntentPendingDocument,
			Reason: "please upload your latest salary slip to continue",
			Amount: sess.Pending.AwaitingDocsForAmount,
		}
	}

	amount := sess.Pending.AwaitingDocsForAmount
	tenure := m.tenureOrDefault(sess, amount)
	passed, emi := m.risk.VerifySalarySlip(sess.Customer.Salary, amount, m.cfg.AnnualRatePercent, tenure)

	sess.State = session.ConversationEnd
	if !passed {
		return Intent{
			Type: IntentRejected,
			Reason: fmt.Sprintf(
				"the EMI of ₹%d exceeds half of your verified monthly salary", emi),
		}
	}

	sess.Loan.FinalAmount = amount
	preview := risk.PreviewFor(amount, m.cfg.AnnualRatePercent, tenure)
	return Intent{
		Type:          IntentApproved,
		AfterDocument: true,
		Amount:        amount,
		TenureMonths:  tenure,
		EMI:           preview.EMI,
		TotalInterest: preview.TotalInterest,
		RatePercent:   m.cfg.AnnualRatePercent,
	}
}

func (m *Machine) runUnderwriting(ctx context.Context, sess *session.Session) Intent {
	sess.State = session.UnderwritingRunning
	amount := sess.Loan.FinalAmount
	tenure := m.tenureOrDefault(sess, amount)

	decision := m.risk.Assess(ctx, sess.Customer.Phone, amount)
	slog.InfoContext(ctx, "underwriting decision",
		"status", string(decision.Status),
		"risk_score", decision.RiskScore,
		"amount", amount)

	switch decision.Status {
	case risk.StatusApproved:
		sess.State = session.ConversationEnd
		preview := risk.PreviewFor(amount, m.cfg.AnnualRatePercent, tenure)
		return Intent{
			Type:          IntentApproved,
			Amount:        decision.ApprovedAmount,
			TenureMonths:  tenure,
			EMI:           preview.EMI,
			TotalInterest: preview.TotalInterest,
			RatePercent:   m.cfg.AnnualRatePercent,
			RiskScore:     decision.RiskScore,
		}
	case risk.StatusPendingDocument:
		sess.State = session.AwaitingSalaryUpload
		sess.Pending.AwaitingDocsForAmount = amount
		return Intent{
			Type:      IntentPendingDocument,
			Reason:    decision.Reason,
			Amount:    amount,
			RiskScore: decision.RiskScore,
		}
	default:
		sess.State = session.ConversationEnd
		return Intent{Type: IntentRejected, Reason: decision.Reason, RiskScore: decision.RiskScore}
	}
}

func (m *Machine) previewIntent(sess *session.Session) Intent {
	preview := risk.PreviewFor(
		sess.Loan.RequestedAmount, m.cfg.AnnualRatePercent, sess.Loan.TenureMonths)
	return Intent{
		Type:          IntentShowPreview,
		Amount:        sess.Loan.RequestedAmount,
		TenureMonths:  sess.Loan.TenureMonths,
		EMI:           preview.EMI,
		TotalInterest: preview.TotalInterest,
		RatePercent:   m.cfg.AnnualRatePercent,
	}
}

func (m *Machine) repromptAmount(sess *session.Session) Intent {
	return Intent{
		Type:             IntentNeedAmount,
		CustomerName:     sess.Customer.Name,
		PreApprovedLimit: sess.Customer.PreApprovedLimit,
	}
}

func (m *Machine) tenureOrDefault(sess *session.Session, amount int64) int {
	if sess.Loan.TenureMonths > 0 {
		return sess.Loan.TenureMonths
	}
	if amount > m.cfg.TenureCutoverAmount {
		return m.cfg.TenureHighMonths
	}
	return m.cfg.TenureLowMonths
}

func hasChoiceSeparator(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, " or ") || strings.Contains(lower, "/")
}
