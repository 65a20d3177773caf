package pipeline

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/cache"
	"github.com/notifyhub/dashcore/internal/mediator"
)

// Deps are the collaborators of the standard behavior chain.
type Deps struct {
	Logger        *zap.Logger
	Validator     *validator.Validate
	Registry      *cache.Registry
	Store         *cache.Store
	SlowThreshold time.Duration
	Observe       func(request string, elapsed time.Duration, err error)
}

// Default returns the behaviors in execution order, outermost first.
func Default(d Deps) []mediator.Middleware {
	v := d.Validator
	if v == nil {
		v = validator.New(validator.WithRequiredStructEnabled())
	}
	return []mediator.Middleware{
		Recover(d.Logger),
		Metrics(d.Observe),
		Performance(d.Logger, d.SlowThreshold),
		Authorization(),
		Validation(v),
		Caching(d.Registry, d.Store, d.Logger),
		Invalidation(d.Registry, d.Store, d.Logger),
	}
}
