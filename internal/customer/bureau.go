package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/NamanSoni18/Finmate-Backend/internal/errors"
)

// Bureau fetches credit scores with a TTL cache. When a bureau API base URL
// is configured it is tried first with a bounded timeout; any failure falls
// back to the score stored on the directory record. Callers treat a
// successful result identically regardless of origin.
type Bureau struct {
	baseURL   string
	client    *http.Client
	directory *Directory
	cacheTTL  time.Duration

	mu    sync.Mutex
	cache map[string]cachedScore
}

type cachedScore struct {
	score   int
	fetched time.Time
}

type bureauResponse struct {
	Phone       string `json:"phone"`
	CreditScore int    `json:"credit_score"`
	Bureau      string `json:"bureau"`
}

func NewBureau(baseURL string, timeout, cacheTTL time.Duration, directory *Directory) *Bureau {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Bureau{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		directory: directory,
		cacheTTL:  cacheTTL,
		cache:     make(map[string]cachedScore),
	}
}

// GetCreditScore resolves the credit score for a phone number.
func (b *Bureau) GetCreditScore(ctx context.Context, phone string) (int, error) {
	if phone == "" {
		return 0, errors.Unavailable("phone number is empty")
	}

	if score, ok := b.cached(phone); ok {
		return score, nil
	}

	if b.baseURL != "" {
		score, err := b.fetchRemote(ctx, phone)
		if err == nil {
			b.store(phone, score)
			return score, nil
		}
		slog.Warn("Bureau API failed, falling back to directory", "phone", phone, "error", err)
	}

	c, err := b.directory.LookupByPhone(ctx, phone)
	if err != nil {
		return 0, errors.Unavailable("credit report unavailable for " + phone)
	}

	b.store(phone, c.CreditScore)
	return c.CreditScore, nil
}

// Prune drops expired cache entries and returns how many were removed.
func (b *Bureau) Prune() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	count := 0
	for phone, entry := range b.cache {
		if now.Sub(entry.fetched) > b.cacheTTL {
			delete(b.cache, phone)
			count++
		}
	}
	return count
}

func (b *Bureau) fetchRemote(ctx context.Context, phone string) (int, error) {
	endpoint := fmt.Sprintf("%s/api/credit-bureau/score?%s", b.baseURL, url.Values{"phone": {phone}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bureau returned status %d", resp.StatusCode)
	}

	var body bureauResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if body.CreditScore <= 0 {
		return 0, fmt.Errorf("bureau returned non-positive score %d", body.CreditScore)
	}
	return body.CreditScore, nil
}

func (b *Bureau) cached(phone string) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.cache[phone]
	if !ok {
		return 0, false
	}
	if time.Since(entry.fetched) > b.cacheTTL {
		delete(b.cache, phone)
		return 0, false
	}
	return entry.score, true
}

func (b *Bureau) store(phone string, score int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cache[phone] = cachedScore{score: score, fetched: time.Now()}
}
