package repository

import (
	"context"

	"github.com/notifyhub/dashcore/internal/domain"
)

// CustomerRepository defines all persistence operations for customers.
// The pgx implementation is in pg_customer_repo.go.
// Tests use a hand-written mock (mock_customer_repo.go).
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	Update(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Customer, error)
	List(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Customer, int, error)
	Delete(ctx context.Context, ids []string) error
}
