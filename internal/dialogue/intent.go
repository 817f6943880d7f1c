// Package dialogue drives the loan funnel: it reads one user message at
// a time, mutates the session, and emits a semantic intent for the
// phrasing layer to render.
package dialogue

// IntentType tags what the system wants to say next. Rendering into
// actual wording happens elsewhere.
type IntentType string

const (
	IntentNeedPhone            IntentType = "need_phone"
	IntentNeedAmount           IntentType = "need_amount"
	IntentNeedTenure           IntentType = "need_tenure"
	IntentAmbiguousAmount      IntentType = "ambiguous_amount"
	IntentShowPreview          IntentType = "show_preview"
	IntentNeedSuggestionChoice IntentType = "need_suggestion_choice"
	IntentApproved             IntentType = "approved"
	IntentPendingDocument      IntentType = "pending_document"
	IntentRejected             IntentType = "rejected"
	IntentEnded                IntentType = "ended"
	IntentReset                IntentType = "reset"
	IntentHelp                 IntentType = "help"
	IntentEscalate             IntentType = "escalate"
)

// Intent is the machine's output for one turn. Only the fields relevant
// to the Type are populated.
type Intent struct {
	Type IntentType

	// ambiguous_amount
	Candidates []int64

	// show_preview, approved, pending_document
	Amount        int64
	TenureMonths  int
	EMI           int64
	TotalInterest int64
	RatePercent   float64

	// need_suggestion_choice
	Suggested int64
	Requested int64

	// rejected, pending_document
	Reason string

	// populated whenever underwriting ran this turn
	RiskScore int

	// need_amount after a successful phone verification
	CustomerName     string
	PreApprovedLimit int64

	// need_amount when the user gave a range instead of one figure
	RangeGiven bool

	// need_phone after a failed lookup
	NotFound bool

	// approved after a salary-slip verification
	AfterDocument bool
}
