package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jhoicas/bodega-ledger/internal/domain"
)

// RetryPolicy controla el reintento de operaciones completas ante ErrPersistenceConflict.
type RetryPolicy struct {
	MaxAttempts int           // intentos totales, incluido el primero
	BaseDelay   time.Duration // espera inicial; crece exponencialmente
}

// WithConflictRetry ejecuta fn y la repite completa mientras falle con
// ErrPersistenceConflict, hasta agotar MaxAttempts. Cualquier otro error se
// devuelve de inmediato.
func WithConflictRetry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	if policy.MaxAttempts <= 1 {
		return fn(ctx)
	}
	base := policy.BaseDelay
	if base <= 0 {
		base = 10 * time.Millisecond
	}
	b := retry.WithMaxRetries(uint64(policy.MaxAttempts-1), retry.NewExponential(base))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, domain.ErrPersistenceConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}
