package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

type subscription struct {
	name    string
	handler NotificationHandler
}

// Mediator dispatches requests to their handlers through a middleware chain
// and fans notifications out via the configured NotificationPublisher.
type Mediator struct {
	mu            sync.RWMutex
	handlers      map[reflect.Type]RequestHandler
	subscriptions map[reflect.Type][]subscription
	middleware    []Middleware
	publisher     NotificationPublisher
}

// New creates a mediator. Middleware run in the order given: the first one
// is the outermost wrapper.
func New(publisher NotificationPublisher, middleware ...Middleware) *Mediator {
	return &Mediator{
		handlers:      make(map[reflect.Type]RequestHandler),
		subscriptions: make(map[reflect.Type][]subscription),
		middleware:    middleware,
		publisher:     publisher,
	}
}

// Register registers a handler for a specific request type
func (m *Mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	if requestType == nil {
		return fmt.Errorf("request type cannot be nil")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[requestType]; exists {
		return fmt.Errorf("handler already registered for type %s", requestType)
	}
	m.handlers[requestType] = handler
	return nil
}

// RegisterHandler registers a handler with the request type inferred from T.
func RegisterHandler[T Request](m *Mediator, handler RequestHandler) error {
	return m.Register(reflect.TypeFor[T](), handler)
}

// Subscribe adds a named handler for a notification type. A type may have
// any number of handlers; they are resolved in subscription order.
func (m *Mediator) Subscribe(notificationType reflect.Type, name string, handler NotificationHandler) error {
	if notificationType == nil {
		return fmt.Errorf("notification type cannot be nil")
	}
	if handler == nil {
		return fmt.Errorf("notification handler cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions[notificationType] = append(m.subscriptions[notificationType], subscription{name: name, handler: handler})
	return nil
}

// SubscribeTo subscribes a handler with the notification type inferred from T.
func SubscribeTo[T Notification](m *Mediator, name string, handler NotificationHandler) error {
	return m.Subscribe(reflect.TypeFor[T](), name, handler)
}

// Send dispatches a request to its registered handler
func (m *Mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	requestType := reflect.TypeOf(request)
	m.mu.RLock()
	handler, ok := m.handlers[requestType]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no handler registered for type %s", requestType)
	}

	next := HandlerFunc(handler.Handle)
	for i := len(m.middleware) - 1; i >= 0; i-- {
		next = wrap(m.middleware[i], next)
	}
	return next(ctx, request)
}

func wrap(mw Middleware, next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, request Request) (Response, error) {
		return mw(ctx, request, next)
	}
}

// Publish resolves the handlers subscribed to the notification's dynamic type
// and hands them to the publisher. No subscribers is not an error.
func (m *Mediator) Publish(ctx context.Context, notification Notification) error {
	if notification == nil {
		return fmt.Errorf("notification cannot be nil")
	}

	executors := m.executors(notification)
	if len(executors) == 0 {
		return nil
	}
	return m.publisher.Publish(ctx, executors, notification)
}

func (m *Mediator) executors(notification Notification) []HandlerExecutor {
	notificationType := reflect.TypeOf(notification)

	m.mu.RLock()
	subs := m.subscriptions[notificationType]
	m.mu.RUnlock()

	executors := make([]HandlerExecutor, 0, len(subs))
	for _, s := range subs {
		executors = append(executors, HandlerExecutor{
			Name:             s.name,
			NotificationType: notificationType,
			Callback:         s.handler.Handle,
		})
	}
	return executors
}
