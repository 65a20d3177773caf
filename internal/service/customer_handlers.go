// Package service holds the customer command and query handlers. Writes go
// through the repository first; the domain events they raise are dispatched
// afterwards and never fail the command.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/domain"
	"github.com/notifyhub/dashcore/internal/mediator"
	"github.com/notifyhub/dashcore/internal/repository"
)

// EventPublisher dispatches domain events. *mediator.Mediator satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, notification mediator.Notification) error
}

// CustomerHandlers implements every customer request handler.
type CustomerHandlers struct {
	repo   repository.CustomerRepository
	events EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

func NewCustomerHandlers(repo repository.CustomerRepository, events EventPublisher, logger *zap.Logger) *CustomerHandlers {
	return &CustomerHandlers{
		repo:   repo,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register wires the customer handlers into m, using m itself to dispatch events.
func Register(m *mediator.Mediator, repo repository.CustomerRepository, logger *zap.Logger) error {
	h := NewCustomerHandlers(repo, m, logger)

	regs := []error{
		mediator.RegisterHandler[*CreateCustomerCommand](m, mediator.HandlerFunc(h.Create)),
		mediator.RegisterHandler[*UpdateCustomerCommand](m, mediator.HandlerFunc(h.Update)),
		mediator.RegisterHandler[*DeleteCustomerCommand](m, mediator.HandlerFunc(h.Delete)),
		mediator.RegisterHandler[*GetCustomerByIDQuery](m, mediator.HandlerFunc(h.GetByID)),
		mediator.RegisterHandler[*ListCustomersQuery](m, mediator.HandlerFunc(h.List)),
	}
	for _, err := range regs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *CustomerHandlers) Create(ctx context.Context, req mediator.Request) (mediator.Response, error) {
	cmd, ok := req.(*CreateCustomerCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected request type %T", req)
	}

	c := newCustomer(uuid.New().String(), cmd, h.now())
	if err := h.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	c.AddDomainEvent(domain.NewCustomerCreatedEvent(c))
	h.dispatch(ctx, &c.Entity)
	return toCustomerDTO(c), nil
}

func (h *CustomerHandlers) Update(ctx context.Context, req mediator.Request) (mediator.Response, error) {
	cmd, ok := req.(*UpdateCustomerCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected request type %T", req)
	}

	c, err := h.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	applyUpdate(c, cmd, h.now())
	if err := h.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}

	c.AddDomainEvent(domain.NewCustomerUpdatedEvent(c))
	h.dispatch(ctx, &c.Entity)
	return toCustomerDTO(c), nil
}

// Delete removes every listed customer that exists and raises one deleted
// event per removed customer.
func (h *CustomerHandlers) Delete(ctx context.Context, req mediator.Request) (mediator.Response, error) {
	cmd, ok := req.(*DeleteCustomerCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected request type %T", req)
	}
	if len(cmd.IDs) == 0 {
		return nil, domain.ErrNoIDs
	}

	customers, err := h.repo.GetByIDs(ctx, cmd.IDs)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	if len(customers) == 0 {
		return nil, domain.ErrNotFound
	}

	ids := make([]string, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.ID)
	}
	if err := h.repo.Delete(ctx, ids); err != nil {
		return nil, err
	}

	for _, c := range customers {
		c.AddDomainEvent(domain.NewCustomerDeletedEvent(c))
		h.dispatch(ctx, &c.Entity)
	}
	return ids, nil
}

func (h *CustomerHandlers) GetByID(ctx context.Context, req mediator.Request) (mediator.Response, error) {
	q, ok := req.(*GetCustomerByIDQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected request type %T", req)
	}

	c, err := h.repo.GetByID(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return toCustomerDTO(c), nil
}

func (h *CustomerHandlers) List(ctx context.Context, req mediator.Request) (mediator.Response, error) {
	q, ok := req.(*ListCustomersQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected request type %T", req)
	}

	f := q.Filter.Normalize()
	customers, total, err := h.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return domain.NewPaginatedData(toCustomerDTOs(customers), total, f.Page, f.PageSize), nil
}

// dispatch publishes pending events once the write is durable. A failed
// publish is logged; the command has already succeeded.
func (h *CustomerHandlers) dispatch(ctx context.Context, e *domain.Entity) {
	for _, ev := range e.DomainEvents() {
		if err := h.events.Publish(ctx, ev); err != nil {
			h.logger.Error("failed to publish domain event",
				zap.String("event", ev.EventName()),
				zap.Error(err),
			)
			continue
		}
		ev.MarkPublished()
	}
	e.ClearDomainEvents()
}
