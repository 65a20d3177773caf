package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/notifyhub/dashcore/internal/domain"
)

// MockCustomerRepository is a hand-written, in-memory implementation of
// CustomerRepository used in unit tests. No mock-generation library needed.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	// Optional error overrides, set in tests to simulate failure paths.
	CreateErr error
	UpdateErr error
	ListErr   error

	// ListCalls counts List invocations so tests can observe caching.
	ListCalls int
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{customers: make(map[string]*domain.Customer)}
}

func (m *MockCustomerRepository) Create(_ context.Context, c *domain.Customer) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.customers {
		if c.Email != "" && strings.EqualFold(existing.Email, c.Email) {
			return domain.ErrConflict
		}
	}
	m.customers[c.ID] = clone(c)
	return nil
}

func (m *MockCustomerRepository) Update(_ context.Context, c *domain.Customer) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	m.customers[c.ID] = clone(c)
	return nil
}

func (m *MockCustomerRepository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(c), nil
}

func (m *MockCustomerRepository) GetByIDs(_ context.Context, ids []string) ([]*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Customer
	for _, id := range ids {
		if c, ok := m.customers[id]; ok {
			result = append(result, clone(c))
		}
	}
	return result, nil
}

// List matches the keyword literally and case-insensitively against the same
// columns as the PostgreSQL repository, then orders by name.
func (m *MockCustomerRepository) List(_ context.Context, f domain.CustomerFilter) ([]*domain.Customer, int, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()
	if m.ListErr != nil {
		return nil, 0, m.ListErr
	}

	f = f.Normalize()
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.Customer
	kw := strings.ToLower(f.Keyword)
	for _, c := range m.customers {
		if kw == "" || matchesKeyword(c, kw) {
			matched = append(matched, clone(c))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matchesKeyword(c *domain.Customer, kw string) bool {
	for _, v := range []string{c.Name, c.Email, c.Phone, c.Country, c.Description} {
		if strings.Contains(strings.ToLower(v), kw) {
			return true
		}
	}
	return false
}

func (m *MockCustomerRepository) Delete(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for _, id := range ids {
		if _, ok := m.customers[id]; ok {
			delete(m.customers, id)
			removed++
		}
	}
	if removed == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func clone(c *domain.Customer) *domain.Customer {
	cp := *c
	cp.Entity = domain.Entity{}
	return &cp
}

var _ CustomerRepository = (*MockCustomerRepository)(nil)
