package customer

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/NamanSoni18/Finmate-Backend/internal/errors"
)

// Directory is an in-memory phone-keyed customer store loaded from a YAML
// fixture. When no fixture is configured (or it cannot be read) it seeds the
// built-in demo customers so the funnel stays usable in a fresh checkout.
type Directory struct {
	mu        sync.RWMutex
	customers map[string]*Customer
}

func NewDirectory(fixturePath string) *Directory {
	d := &Directory{customers: make(map[string]*Customer)}

	if fixturePath != "" {
		data, err := os.ReadFile(fixturePath)
		if err == nil {
			var records []*Customer
			if err := yaml.Unmarshal(data, &records); err == nil {
				for _, c := range records {
					d.customers[c.Phone] = c
				}
				return d
			}
			slog.Warn("Customer fixture is not valid YAML, using demo seed", "path", fixturePath, "error", err)
		} else {
			slog.Warn("Customer fixture not found, using demo seed", "path", fixturePath, "error", err)
		}
	}

	for _, c := range demoCustomers() {
		d.customers[c.Phone] = c
	}
	return d
}

// LookupByPhone resolves a customer record. Returns ErrCustomerNotFound when
// no record exists for the phone.
func (d *Directory) LookupByPhone(ctx context.Context, phone string) (*Customer, error) {
	if phone == "" {
		return nil, errors.NotFound("phone number is empty")
	}

	d.mu.RLock()
	c, ok := d.customers[phone]
	d.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("no customer for phone " + phone)
	}

	clone := *c
	return &clone, nil
}

// Put inserts or replaces a record. Used by tests and fixtures.
func (d *Directory) Put(c *Customer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	clone := *c
	d.customers[c.Phone] = &clone
}

func demoCustomers() []*Customer {
	return []*Customer{
		{
			ID:               "demo_9876543210",
			Name:             "Rajesh Kumar",
			Phone:            "9876543210",
			Email:            "rajesh.kumar@email.com",
			Address:          "Mumbai",
			PreApprovedLimit: 500000,
			CreditScore:      750,
			Salary:           80000,
		},
		{
			ID:               "demo_9876543211",
			Name:             "Priya Sharma",
			Phone:            "9876543211",
			Email:            "priya.sharma@email.com",
			Address:          "Delhi",
			PreApprovedLimit: 750000,
			CreditScore:      780,
			Salary:           120000,
		},
	}
}
