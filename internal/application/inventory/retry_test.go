package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/domain"
)

func TestWithConflictRetry_ReintentaConflictos(t *testing.T) {
	calls := 0
	err := inventory.WithConflictRetry(context.Background(), inventory.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("commit: %w", domain.ErrPersistenceConflict)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithConflictRetry_AgotaIntentos(t *testing.T) {
	calls := 0
	err := inventory.WithConflictRetry(context.Background(), inventory.RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}, func(context.Context) error {
		calls++
		return domain.ErrPersistenceConflict
	})
	assert.ErrorIs(t, err, domain.ErrPersistenceConflict)
	assert.Equal(t, 2, calls)
}

func TestWithConflictRetry_NoReintentaRechazos(t *testing.T) {
	calls := 0
	err := inventory.WithConflictRetry(context.Background(), inventory.RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond}, func(context.Context) error {
		calls++
		return domain.ErrInsufficientStock
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 1, calls)
}
