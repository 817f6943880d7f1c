// Package sanction assembles and persists sanction-letter artifacts for
// approved loans.
package sanction

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/oklog/ulid/v2"

	"github.com/NamanSoni18/Finmate-Backend/internal/customer"
	"github.com/NamanSoni18/Finmate-Backend/internal/errors"
)

// Letter is the sanction artifact persisted per approval.
type Letter struct {
	Reference     string    `json:"reference"`
	IssuedAt      time.Time `json:"issued_at"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address,omitempty"`
	Amount        int64     `json:"amount"`
	TenureMonths  int       `json:"tenure_months"`
	RatePercent   float64   `json:"rate_percent"`
	EMI           int64     `json:"emi"`
	TotalPayment  int64     `json:"total_payment"`
	TotalInterest int64     `json:"total_interest"`
}

// Generator writes letters to a directory, one JSON file per reference.
type Generator struct {
	outputDir string
}

func NewGenerator(outputDir string) *Generator {
	return &Generator{outputDir: outputDir}
}

// Terms captures the sanctioned loan parameters.
type Terms struct {
	Amount        int64
	TenureMonths  int
	RatePercent   float64
	EMI           int64
	TotalInterest int64
}

// Generate assembles a letter, writes it atomically, and returns it.
// The reference is unique per call.
func (g *Generator) Generate(cust *customer.Customer, terms Terms) (*Letter, error) {
	if cust == nil {
		return nil, errors.InvalidValue("sanction letter needs a customer")
	}

	letter := &Letter{
		Reference:     "SL-" + ulid.MustNew(ulid.Now(), rand.Reader).String(),
		IssuedAt:      time.Now(),
		CustomerID:    cust.ID,
		CustomerName:  cust.Name,
		Phone:         cust.Phone,
		Address:       cust.Address,
		Amount:        terms.Amount,
		TenureMonths:  terms.TenureMonths,
		RatePercent:   terms.RatePercent,
		EMI:           terms.EMI,
		TotalPayment:  terms.EMI * int64(terms.TenureMonths),
		TotalInterest: terms.TotalInterest,
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create sanction output dir")
	}

	data, err := json.MarshalIndent(letter, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal sanction letter")
	}

	path := filepath.Join(g.outputDir, fmt.Sprintf("%s.json", letter.Reference))
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(err, "write sanction letter")
	}

	return letter, nil
}
