// Package session holds conversation state for a single caller and the
// in-memory store that owns session lifetimes.
package session

import (
	"time"

	"github.com/NamanSoni18/Finmate-Backend/internal/customer"
)

// State names the step of the funnel a session is waiting on.
type State string

const (
	AwaitingPhone             State = "AWAITING_PHONE"
	AwaitingLoanAmount        State = "AWAITING_LOAN_AMOUNT"
	AwaitingTenure            State = "AWAITING_TENURE"
	AwaitingConfirmation      State = "AWAITING_CONFIRMATION"
	AwaitingSuggestionConfirm State = "AWAITING_SUGGESTION_CONFIRM"
	UnderwritingRunning       State = "UNDERWRITING_RUNNING"
	AwaitingSalaryUpload      State = "AWAITING_SALARY_UPLOAD"
	ConversationEnd           State = "CONVERSATION_END"
)

// Valid reports whether s is one of the known states. Sessions restored
// from untrusted input may carry anything.
func (s State) Valid() bool {
	switch s {
	case AwaitingPhone, AwaitingLoanAmount, AwaitingTenure,
		AwaitingConfirmation, AwaitingSuggestionConfirm,
		UnderwritingRunning, AwaitingSalaryUpload, ConversationEnd:
		return true
	}
	return false
}

// Loan carries the amount and tenure gathered so far.
type Loan struct {
	RequestedAmount int64 `json:"requested_amount,omitempty"`
	TenureMonths    int   `json:"tenure_months,omitempty"`
	// FinalAmount is the amount actually sanctioned, which can differ
	// from RequestedAmount when the caller accepts a suggested limit.
	FinalAmount int64 `json:"final_amount,omitempty"`
}

// Pending tracks intermediate offers that need one more answer from the
// caller before underwriting can proceed.
type Pending struct {
	SuggestedAmount       int64 `json:"suggested_amount,omitempty"`
	RequestedAtOffer      int64 `json:"requested_at_offer,omitempty"`
	AwaitingDocsForAmount int64 `json:"awaiting_docs_for_amount,omitempty"`
}

// Session is the full per-caller state. All mutation happens under the
// per-session lock held by the caller of the dialogue machine.
type Session struct {
	ID        string             `json:"id"`
	State     State              `json:"state"`
	Customer  *customer.Customer `json:"customer,omitempty"`
	Loan      Loan               `json:"loan"`
	Pending   Pending            `json:"pending"`
	CreatedAt time.Time          `json:"created_at"`
	LastSeen  time.Time          `json:"last_seen"`
}

// Reset returns the session to the start of the funnel. Identity and
// timestamps survive; everything gathered during the conversation is
// dropped.
func (s *Session) Reset() {
	s.State = AwaitingPhone
	s.Customer = nil
	s.Loan = Loan{}
	s.Pending = Pending{}
}

// Touch records activity so the sweeper leaves the session alone.
func (s *Session) Touch() {
	s.LastSeen = time.Now()
}
