package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/cache"
	"github.com/notifyhub/dashcore/internal/domain"
	"github.com/notifyhub/dashcore/internal/mediator"
)

// Recover turns handler panics into errors and logs every failed request.
// Client errors are logged at Warn, everything else at Error.
func Recover(logger *zap.Logger) mediator.Middleware {
	return func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (resp mediator.Response, err error) {
		name := mediator.RequestName(req)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("request %s panicked: %v", name, r)
				resp = nil
			}
			if err == nil {
				return
			}
			if domain.IsClientError(err) {
				logger.Warn("request rejected", zap.String("request", name), zap.Error(err))
				return
			}
			logger.Error("request failed", zap.String("request", name), zap.Error(err))
		}()
		return next(ctx, req)
	}
}

// Metrics reports the duration and outcome of every request.
func Metrics(observe func(request string, elapsed time.Duration, err error)) mediator.Middleware {
	return func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if observe == nil {
			return next(ctx, req)
		}
		start := time.Now()
		resp, err := next(ctx, req)
		observe(mediator.RequestName(req), time.Since(start), err)
		return resp, err
	}
}

// Performance logs requests that take longer than threshold.
func Performance(logger *zap.Logger, threshold time.Duration) mediator.Middleware {
	return func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		if elapsed := time.Since(start); elapsed > threshold {
			fields := []zap.Field{
				zap.String("request", mediator.RequestName(req)),
				zap.Duration("elapsed", elapsed),
				zap.Duration("threshold", threshold),
			}
			if p, ok := PrincipalFrom(ctx); ok {
				fields = append(fields, zap.String("user_id", p.UserID))
			}
			logger.Warn("long running request", fields...)
		}
		return resp, err
	}
}

// Authorization enforces Secured.RequiredPermission against the principal on ctx.
func Authorization() mediator.Middleware {
	return func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		secured, ok := req.(Secured)
		if !ok || secured.RequiredPermission() == "" {
			return next(ctx, req)
		}
		p, ok := PrincipalFrom(ctx)
		if !ok {
			return nil, domain.ErrUnauthenticated
		}
		if !p.Has(secured.RequiredPermission()) {
			return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, secured.RequiredPermission())
		}
		return next(ctx, req)
	}
}

// Validation checks `validate` struct tags on struct requests.
func Validation(v *validator.Validate) mediator.Middleware {
	return func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if !isStruct(req) {
			return next(ctx, req)
		}
		if err := v.StructCtx(ctx, req); err != nil {
			return nil, formatValidationError(err)
		}
		return next(ctx, req)
	}
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// formatValidationError converts validator errors into one readable message
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msg := fmt.Sprintf("%s failed on '%s'", e.Field(), e.Tag())
		if e.Param() != "" {
			msg += "=" + e.Param()
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(messages, "; "))
}

// Caching serves Cacheable requests from the store. The family token is taken
// before the handler runs, so a write that lands while the query executes
// leaves the stored result already stale.
func Caching(registry *cache.Registry, store *cache.Store, logger *zap.Logger) mediator.Middleware {
	return func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		c, ok := req.(Cacheable)
		if !ok {
			return next(ctx, req)
		}

		key := c.CacheKey()
		token := registry.Family(c.CacheFamily()).GetOrCreate()
		if v, hit := store.Get(key); hit {
			logger.Debug("cache hit", zap.String("key", key))
			return v, nil
		}

		resp, err := next(ctx, req)
		if err != nil {
			return nil, err
		}
		store.Set(key, resp, token)
		return resp, nil
	}
}

// Invalidation refreshes families and evicts keys declared by a command,
// only after the command succeeded.
func Invalidation(registry *cache.Registry, store *cache.Store, logger *zap.Logger) mediator.Middleware {
	return func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		resp, err := next(ctx, req)
		if err != nil {
			return resp, err
		}
		if inv, ok := req.(CacheInvalidator); ok {
			families := inv.InvalidatedFamilies()
			registry.Refresh(families...)
			logger.Debug("cache families invalidated", zap.Strings("families", families))
		}
		if inv, ok := req.(KeyInvalidator); ok {
			store.Remove(inv.InvalidatedKeys()...)
		}
		return resp, nil
	}
}
