package domain

import (
	"math"
	"strings"
	"time"
)

// Customer is the core domain entity managed by the dashboard.
type Customer struct {
	Entity `json:"-"`

	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Country     string    `json:"country"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Customer events carry a snapshot of the affected entity.
type CustomerCreatedEvent struct {
	Event
	Item Customer `json:"item"`
}

type CustomerUpdatedEvent struct {
	Event
	Item Customer `json:"item"`
}

type CustomerDeletedEvent struct {
	Event
	Item Customer `json:"item"`
}

func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{Event: NewEvent(), Item: snapshot(c)}
}

func NewCustomerUpdatedEvent(c *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{Event: NewEvent(), Item: snapshot(c)}
}

func NewCustomerDeletedEvent(c *Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{Event: NewEvent(), Item: snapshot(c)}
}

func (*CustomerCreatedEvent) EventName() string { return "customer.created" }
func (*CustomerUpdatedEvent) EventName() string { return "customer.updated" }
func (*CustomerDeletedEvent) EventName() string { return "customer.deleted" }

// snapshot copies the entity without its pending events.
func snapshot(c *Customer) Customer {
	s := *c
	s.Entity = Entity{}
	return s
}

// Sort directions accepted by CustomerFilter.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
	// MaxPage keeps (Page-1)*PageSize inside a 32-bit OFFSET.
	MaxPage = math.MaxInt32 / MaxPageSize
)

var customerOrderColumns = map[string]bool{
	"name":       true,
	"email":      true,
	"country":    true,
	"created_at": true,
}

// CustomerFilter holds query parameters for paginated customer listing.
type CustomerFilter struct {
	Keyword       string
	OrderBy       string
	SortDirection string
	Page          int
	PageSize      int
}

// Normalize clamps paging and replaces unknown ordering with created_at desc.
func (f CustomerFilter) Normalize() CustomerFilter {
	f.Keyword = strings.TrimSpace(f.Keyword)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	f.OrderBy = strings.ToLower(f.OrderBy)
	if !customerOrderColumns[f.OrderBy] {
		f.OrderBy = "created_at"
	}
	f.SortDirection = strings.ToLower(f.SortDirection)
	if f.SortDirection != SortAsc {
		f.SortDirection = SortDesc
	}
	return f
}

// Offset is the number of rows skipped before the current page.
// Call on a normalized filter.
func (f CustomerFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
