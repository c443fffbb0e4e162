package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/ledger"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

// Ledger es el único punto que modifica la cantidad de un registro de inventario.
// Se construye sobre el repositorio de la transacción en curso.
type Ledger struct {
	repo repository.InventoryRepository
}

// NewLedger construye el libro sobre repo (normalmente TxRepos.Inventory).
func NewLedger(repo repository.InventoryRepository) Ledger {
	return Ledger{repo: repo}
}

// Get devuelve la cantidad actual del par; 0 si no existe el registro.
func (l Ledger) Get(ctx context.Context, productID, warehouseID string) (int64, error) {
	rec, err := l.repo.Get(ctx, productID, warehouseID)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return rec.Quantity, nil
}

// Lock bloquea los registros indicados en orden determinista. Los registros
// inexistentes no se crean.
func (l Ledger) Lock(ctx context.Context, keys ...ledger.Key) error {
	for _, k := range ledger.LockOrder(keys...) {
		if _, err := l.repo.GetForUpdate(ctx, k.ProductID, k.WarehouseID); err != nil {
			return err
		}
	}
	return nil
}

// Adjust suma delta a la cantidad del par bajo bloqueo de fila.
// Con delta positivo el registro se crea en cero si no existía; con delta
// negativo un registro inexistente es ErrProductNotStocked. Nunca deja la
// cantidad en negativo (ErrInsufficientStock, sin escribir nada).
func (l Ledger) Adjust(ctx context.Context, productID, warehouseID string, delta int64, now time.Time) (*entity.InventoryRecord, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var (
		rec *entity.InventoryRecord
		err error
	)
	if delta > 0 {
		rec, err = l.repo.GetOrCreateForUpdate(ctx, productID, warehouseID, now)
	} else {
		rec, err = l.repo.GetForUpdate(ctx, productID, warehouseID)
		if err == nil && rec == nil {
			err = domain.ErrProductNotStocked
		}
	}
	if err != nil {
		return nil, err
	}

	next, err := ledger.ApplyDelta(rec.Quantity, delta)
	if err != nil {
		return nil, err
	}
	rec.Quantity = next
	rec.UpdatedAt = now
	if err := l.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
