package mediator

import (
	"context"
	"reflect"
)

// Request represents a command or query
type Request interface{}

// Response represents the result of handling a request
type Response interface{}

// RequestHandler handles a specific request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc is a function that handles a request
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, request Request) (Response, error) {
	return f(ctx, request)
}

// Middleware wraps handler execution with a cross-cutting concern
// (validation, caching, authorization, metrics). It must call next to continue.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// Notification is an event value fanned out to every subscribed handler.
type Notification interface{}

// NotificationHandler reacts to one notification type.
type NotificationHandler interface {
	Handle(ctx context.Context, notification Notification) error
}

// NotificationHandlerFunc adapts a function to NotificationHandler.
type NotificationHandlerFunc func(ctx context.Context, notification Notification) error

func (f NotificationHandlerFunc) Handle(ctx context.Context, notification Notification) error {
	return f(ctx, notification)
}

// HandlerExecutor pairs a subscribed handler with the notification type it
// was resolved for. Built fresh on every Publish call.
type HandlerExecutor struct {
	Name             string
	NotificationType reflect.Type
	Callback         func(ctx context.Context, notification Notification) error
}

// NotificationPublisher is the strategy that delivers one notification to
// its resolved handlers. Implementations decide ordering, backpressure and
// whether the caller waits.
type NotificationPublisher interface {
	Publish(ctx context.Context, executors []HandlerExecutor, notification Notification) error
}

// RequestName returns the bare type name of a request, e.g. "CreateCustomerCommand".
func RequestName(v any) string {
	if v == nil {
		return "Unknown"
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
