package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifyhub/dashcore/internal/mediator"
)

type pingQuery struct{ Value string }

type pongEvent struct{ Value string }

// syncPublisher runs executors inline so tests can observe them directly.
type syncPublisher struct {
	calls int
}

func (p *syncPublisher) Publish(ctx context.Context, executors []mediator.HandlerExecutor, n mediator.Notification) error {
	p.calls++
	for _, e := range executors {
		if err := e.Callback(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func echoHandler() mediator.HandlerFunc {
	return func(_ context.Context, req mediator.Request) (mediator.Response, error) {
		return "pong:" + req.(*pingQuery).Value, nil
	}
}

func TestMediator_Send(t *testing.T) {
	m := mediator.New(&syncPublisher{})
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, echoHandler()))

	resp, err := m.Send(context.Background(), &pingQuery{Value: "a"})
	require.NoError(t, err)
	assert.Equal(t, "pong:a", resp)
}

func TestMediator_SendErrors(t *testing.T) {
	m := mediator.New(&syncPublisher{})

	_, err := m.Send(context.Background(), nil)
	assert.Error(t, err)

	_, err = m.Send(context.Background(), &pingQuery{})
	assert.ErrorContains(t, err, "no handler registered")
}

func TestMediator_RegisterRejectsDuplicatesAndNil(t *testing.T) {
	m := mediator.New(&syncPublisher{})
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, echoHandler()))

	assert.ErrorContains(t, mediator.RegisterHandler[*pingQuery](m, echoHandler()), "already registered")
	assert.Error(t, m.Register(nil, echoHandler()))
	assert.Error(t, mediator.RegisterHandler[*pongEvent](m, nil))
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	var trace []string
	record := func(name string) mediator.Middleware {
		return func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			trace = append(trace, name+">")
			resp, err := next(ctx, req)
			trace = append(trace, "<"+name)
			return resp, err
		}
	}

	m := mediator.New(&syncPublisher{}, record("outer"), record("inner"))
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, mediator.HandlerFunc(
		func(_ context.Context, _ mediator.Request) (mediator.Response, error) {
			trace = append(trace, "handler")
			return nil, nil
		})))

	_, err := m.Send(context.Background(), &pingQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer>", "inner>", "handler", "<inner", "<outer"}, trace)
}

func TestMediator_MiddlewareShortCircuit(t *testing.T) {
	denied := errors.New("denied")
	m := mediator.New(&syncPublisher{}, func(context.Context, mediator.Request, mediator.HandlerFunc) (mediator.Response, error) {
		return nil, denied
	})
	called := false
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, mediator.HandlerFunc(
		func(context.Context, mediator.Request) (mediator.Response, error) {
			called = true
			return nil, nil
		})))

	_, err := m.Send(context.Background(), &pingQuery{})
	assert.ErrorIs(t, err, denied)
	assert.False(t, called)
}

func TestMediator_PublishResolvesHandlersInSubscriptionOrder(t *testing.T) {
	pub := &syncPublisher{}
	m := mediator.New(pub)

	var got []string
	for _, name := range []string{"h1", "h2"} {
		name := name
		require.NoError(t, mediator.SubscribeTo[*pongEvent](m, name, mediator.NotificationHandlerFunc(
			func(_ context.Context, n mediator.Notification) error {
				got = append(got, name+":"+n.(*pongEvent).Value)
				return nil
			})))
	}

	require.NoError(t, m.Publish(context.Background(), &pongEvent{Value: "x"}))
	assert.Equal(t, []string{"h1:x", "h2:x"}, got)
	assert.Equal(t, 1, pub.calls)
}

func TestMediator_PublishWithoutSubscribersIsNoop(t *testing.T) {
	pub := &syncPublisher{}
	m := mediator.New(pub)

	require.NoError(t, m.Publish(context.Background(), &pongEvent{}))
	assert.Zero(t, pub.calls)
	assert.Error(t, m.Publish(context.Background(), nil))
}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "pingQuery", mediator.RequestName(&pingQuery{}))
	assert.Equal(t, "pingQuery", mediator.RequestName(pingQuery{}))
	assert.Equal(t, "Unknown", mediator.RequestName(nil))
}
