package service

import (
	"github.com/notifyhub/dashcore/internal/cache"
	"github.com/notifyhub/dashcore/internal/domain"
)

// CustomersFamily is the cache family every customer read belongs to.
const CustomersFamily = "customers"

// Permissions checked by the authorization behavior.
const (
	PermCustomersView   = "customers.view"
	PermCustomersCreate = "customers.create"
	PermCustomersEdit   = "customers.edit"
	PermCustomersDelete = "customers.delete"
)

// ---- commands ----

type CreateCustomerCommand struct {
	Name        string `json:"name" validate:"required,max=50"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	Country     string `json:"country" validate:"omitempty,max=64"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

func (*CreateCustomerCommand) RequiredPermission() string    { return PermCustomersCreate }
func (*CreateCustomerCommand) InvalidatedFamilies() []string { return []string{CustomersFamily} }

type UpdateCustomerCommand struct {
	ID          string `json:"-" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,max=50"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	Country     string `json:"country" validate:"omitempty,max=64"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

func (*UpdateCustomerCommand) RequiredPermission() string    { return PermCustomersEdit }
func (*UpdateCustomerCommand) InvalidatedFamilies() []string { return []string{CustomersFamily} }

// DeleteCustomerCommand removes one or more customers. An empty list is
// rejected by the handler with domain.ErrNoIDs.
type DeleteCustomerCommand struct {
	IDs []string `json:"ids" validate:"dive,uuid"`
}

func (*DeleteCustomerCommand) RequiredPermission() string    { return PermCustomersDelete }
func (*DeleteCustomerCommand) InvalidatedFamilies() []string { return []string{CustomersFamily} }

// ---- queries ----

type GetCustomerByIDQuery struct {
	ID string `validate:"required,uuid"`
}

func (*GetCustomerByIDQuery) RequiredPermission() string { return PermCustomersView }
func (*GetCustomerByIDQuery) CacheFamily() string        { return CustomersFamily }
func (q *GetCustomerByIDQuery) CacheKey() string         { return cache.Key(CustomersFamily, "id", q.ID) }

// ListCustomersQuery is a paginated, filtered customer listing.
type ListCustomersQuery struct {
	Filter domain.CustomerFilter
}

func (*ListCustomersQuery) RequiredPermission() string { return PermCustomersView }
func (*ListCustomersQuery) CacheFamily() string        { return CustomersFamily }

// CacheKey is built from the normalized filter so equivalent queries share an entry.
func (q *ListCustomersQuery) CacheKey() string {
	f := q.Filter.Normalize()
	return cache.Key(CustomersFamily+":list",
		"keyword", f.Keyword,
		"order_by", f.OrderBy,
		"sort", f.SortDirection,
		"page", f.Page,
		"page_size", f.PageSize,
	)
}
