package customer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/oklog/ulid/v2"
)

// Offer captures the terms the applicant selected.
type Offer struct {
	TenureMonths int     `json:"tenure_months"`
	EMI          int64   `json:"emi"`
	RatePercent  float64 `json:"rate_percent"`
}

// Application is one audit record in the ledger.
type Application struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	Offer     *Offer    `json:"offer,omitempty"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Ledger is a fire-and-forget JSONL audit sink. Writes are serialized in
// process and guarded by a file lock across processes. Failures are the
// caller's to log; they never affect the user-visible outcome.
type Ledger struct {
	path string
	mu   sync.Mutex
	fl   *flock.Flock
}

func NewLedger(path string) *Ledger {
	return &Ledger{
		path: path,
		fl:   flock.New(path + ".lock"),
	}
}

// Record appends one application to the ledger.
func (l *Ledger) Record(ctx context.Context, phone string, amount int64, status string, offer *Offer, score int) error {
	app := Application{
		ID:        ulid.Make().String(),
		Phone:     phone,
		Amount:    amount,
		Status:    status,
		Offer:     offer,
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}

	line, err := json.Marshal(app)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}

	locked, err := l.fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return err
	}
	if locked {
		defer l.fl.Unlock()
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}
