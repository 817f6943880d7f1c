// Package customer holds the customer directory, the credit bureau client
// and the application audit ledger. These are the collaborators the dialogue
// core depends on through narrow interfaces.
package customer

// Customer is the KYC record bound to a session after phone verification.
type Customer struct {
	ID               string `yaml:"customer_id" json:"customer_id"`
	Name             string `yaml:"name" json:"name"`
	Phone            string `yaml:"phone" json:"phone"`
	Email            string `yaml:"email" json:"email"`
	Address          string `yaml:"address" json:"address"`
	PreApprovedLimit int64  `yaml:"pre_approved_limit" json:"pre_approved_limit"`
	CreditScore      int    `yaml:"credit_score" json:"credit_score"`
	Salary           int64  `yaml:"salary,omitempty" json:"salary,omitempty"`
}
