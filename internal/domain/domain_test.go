package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifyhub/dashcore/internal/domain"
)

func TestCustomerFilter_Normalize(t *testing.T) {
	t.Run("defaults applied to zero filter", func(t *testing.T) {
		f := domain.CustomerFilter{}.Normalize()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, domain.DefaultPageSize, f.PageSize)
		assert.Equal(t, "created_at", f.OrderBy)
		assert.Equal(t, domain.SortDesc, f.SortDirection)
	})

	t.Run("page size clamped", func(t *testing.T) {
		f := domain.CustomerFilter{PageSize: 1000}.Normalize()
		assert.Equal(t, domain.MaxPageSize, f.PageSize)
	})

	t.Run("page clamped so the offset cannot overflow", func(t *testing.T) {
		f := domain.CustomerFilter{Page: math.MaxInt, PageSize: domain.MaxPageSize}.Normalize()
		assert.Equal(t, domain.MaxPage, f.Page)
		assert.Positive(t, f.Offset())
		assert.LessOrEqual(t, f.Offset(), math.MaxInt32)
	})

	t.Run("offset of first and later pages", func(t *testing.T) {
		assert.Equal(t, 0, domain.CustomerFilter{}.Normalize().Offset())
		assert.Equal(t, 30, domain.CustomerFilter{Page: 3}.Normalize().Offset())
	})

	t.Run("unknown order column replaced", func(t *testing.T) {
		f := domain.CustomerFilter{OrderBy: "id; drop table customers"}.Normalize()
		assert.Equal(t, "created_at", f.OrderBy)
	})

	t.Run("valid ordering kept", func(t *testing.T) {
		f := domain.CustomerFilter{OrderBy: "Name", SortDirection: "ASC", Keyword: "  acme "}.Normalize()
		assert.Equal(t, "name", f.OrderBy)
		assert.Equal(t, domain.SortAsc, f.SortDirection)
		assert.Equal(t, "acme", f.Keyword)
	})
}

func TestNewPaginatedData(t *testing.T) {
	tests := []struct {
		name               string
		total, page, size  int
		wantPages          int
		wantPrev, wantNext bool
	}{
		{"empty", 0, 1, 15, 0, false, false},
		{"single page", 10, 1, 15, 1, false, false},
		{"first of three", 31, 1, 15, 3, false, true},
		{"middle", 31, 2, 15, 3, true, true},
		{"last", 31, 3, 15, 3, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := domain.NewPaginatedData[int](nil, tc.total, tc.page, tc.size)
			assert.NotNil(t, p.Items)
			assert.Equal(t, tc.wantPages, p.TotalPages)
			assert.Equal(t, tc.wantPrev, p.HasPreviousPage)
			assert.Equal(t, tc.wantNext, p.HasNextPage)
		})
	}
}

func TestCustomerEvents(t *testing.T) {
	c := &domain.Customer{ID: "c1", Name: "Acme"}
	c.AddDomainEvent(domain.NewCustomerCreatedEvent(c))

	events := c.DomainEvents()
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "customer.created", ev.EventName())
	assert.False(t, ev.Published())
	assert.WithinDuration(t, time.Now().UTC(), ev.OccurredAt(), time.Second)

	ev.MarkPublished()
	assert.True(t, ev.Published())

	created, ok := ev.(*domain.CustomerCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "Acme", created.Item.Name)
	assert.Empty(t, created.Item.DomainEvents(), "snapshot must not carry pending events")

	c.ClearDomainEvents()
	assert.Empty(t, c.DomainEvents())
}
