package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

func TestTxRunner_RollbackDescartaEscrituras(t *testing.T) {
	repos := New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := repos.TxRunner.Run(ctx, func(r inventory.TxRepos) error {
		rec, err := r.Inventory.GetOrCreateForUpdate(ctx, "p1", "w1", time.Now())
		require.NoError(t, err)
		rec.Quantity = 10
		require.NoError(t, r.Inventory.Update(ctx, rec))
		require.NoError(t, r.Movements.Append(ctx, &entity.MovementRecord{ID: "m1", ProductID: "p1", WarehouseID: "w1", Type: entity.MovementIn, Quantity: 10}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	rec, err := repos.Inventory.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.Nil(t, rec, "el registro creado dentro de la tx fallida no debe existir")

	movs, err := repos.Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestTxRunner_CommitVisibleYLecturaPropiaDentroDeTx(t *testing.T) {
	repos := New()
	ctx := context.Background()

	err := repos.TxRunner.Run(ctx, func(r inventory.TxRepos) error {
		rec, err := r.Inventory.GetOrCreateForUpdate(ctx, "p1", "w1", time.Now())
		if err != nil {
			return err
		}
		rec.Quantity = 7
		if err := r.Inventory.Update(ctx, rec); err != nil {
			return err
		}
		again, err := r.Inventory.Get(ctx, "p1", "w1")
		require.NoError(t, err)
		assert.Equal(t, int64(7), again.Quantity)

		outside, err := repos.Inventory.Get(ctx, "p1", "w1")
		require.NoError(t, err)
		assert.Nil(t, outside, "fuera de la tx aún no se ve")
		return nil
	})
	require.NoError(t, err)

	rec, err := repos.Inventory.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(7), rec.Quantity)
}

func TestTxRunner_BloqueoEsperaYRespetaContexto(t *testing.T) {
	repos := New()
	ctx := context.Background()

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = repos.TxRunner.Run(ctx, func(r inventory.TxRepos) error {
			_, err := r.Inventory.GetOrCreateForUpdate(ctx, "p1", "w1", time.Now())
			close(locked)
			<-done
			return err
		})
	}()
	<-locked

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := repos.TxRunner.Run(waitCtx, func(r inventory.TxRepos) error {
		_, err := r.Inventory.GetForUpdate(waitCtx, "p1", "w1")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrPersistenceConflict)

	close(done)
	err = repos.TxRunner.Run(ctx, func(r inventory.TxRepos) error {
		_, err := r.Inventory.GetForUpdate(ctx, "p1", "w1")
		return err
	})
	assert.NoError(t, err, "al liberar la primera tx el bloqueo queda disponible")
}

func TestInventoryRepo_UpdateRechazaNegativo(t *testing.T) {
	repos := New()
	ctx := context.Background()

	rec, err := repos.Inventory.GetOrCreateForUpdate(ctx, "p1", "w1", time.Now())
	require.NoError(t, err)
	rec.Quantity = -1
	assert.ErrorIs(t, repos.Inventory.Update(ctx, rec), domain.ErrInsufficientStock)
}

func TestInventoryRepo_GetOrCreateUsaElInstanteRecibido(t *testing.T) {
	repos := New()
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

	err := repos.TxRunner.Run(ctx, func(r inventory.TxRepos) error {
		_, err := r.Inventory.GetOrCreateForUpdate(ctx, "p1", "w1", at)
		return err
	})
	require.NoError(t, err)

	rec, err := repos.Inventory.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, at.Equal(rec.CreatedAt))
	assert.True(t, at.Equal(rec.UpdatedAt))

	// un segundo llamado no reescribe la fecha de creación
	_, err = repos.Inventory.GetOrCreateForUpdate(ctx, "p1", "w1", at.Add(time.Hour))
	require.NoError(t, err)
	rec, err = repos.Inventory.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.True(t, at.Equal(rec.CreatedAt))
}

func TestInventoryRepo_ListBelowReorderLevel(t *testing.T) {
	repos := New()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A-1", Name: "Arroz", ReorderLevel: 10}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "B-1", Name: "Frijol", ReorderLevel: 5}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "Central"}))

	for id, qty := range map[string]int64{"p1": 2, "p2": 6} {
		rec, err := repos.Inventory.GetOrCreateForUpdate(ctx, id, "w1", time.Now())
		require.NoError(t, err)
		rec.Quantity = qty
		require.NoError(t, repos.Inventory.Update(ctx, rec))
	}

	items, err := repos.Inventory.ListBelowReorderLevel(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "Central", items[0].WarehouseName)
	assert.Equal(t, int64(2), items[0].Quantity)
}

func TestMovementRepo_ListFiltraYPagina(t *testing.T) {
	repos := New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, typ := range []entity.MovementType{entity.MovementIn, entity.MovementOut, entity.MovementIn} {
		require.NoError(t, repos.Movements.Append(ctx, &entity.MovementRecord{
			ID: string(rune('a' + i)), ProductID: "p1", WarehouseID: "w1", Type: typ, Quantity: 1,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	ins, err := repos.Movements.List(ctx, repository.MovementFilter{Type: entity.MovementIn})
	require.NoError(t, err)
	require.Len(t, ins, 2)
	assert.Equal(t, "c", ins[0].ID, "más reciente primero")

	from := base.Add(30 * time.Minute)
	ranged, err := repos.Movements.List(ctx, repository.MovementFilter{From: &from, Limit: 1})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "c", ranged[0].ID)

	assert.ErrorIs(t, repos.Movements.Append(ctx, &entity.MovementRecord{ID: "x", Type: entity.MovementIn, Quantity: 0}), domain.ErrInvalidInput)
}
