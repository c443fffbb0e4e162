package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo historial de movimientos en memoria (solo inserción).
type MovementRepo struct {
	scope
}

// NewMovementRepository devuelve el repositorio en modo autocommit.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{scope: scope{store: store}}
}

// Append agrega el movimiento a la transacción.
func (r *MovementRepo) Append(_ context.Context, movement *entity.MovementRecord) error {
	if movement.Quantity <= 0 || !movement.Type.Valid() {
		return domain.ErrInvalidInput
	}
	return r.run(func(t *tx) error {
		t.movements = append(t.movements, *movement)
		return nil
	})
}

// List devuelve los movimientos del más reciente al más antiguo.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.MovementRecord, error) {
	var list []*entity.MovementRecord
	err := r.run(func(t *tx) error {
		r.store.mu.RLock()
		all := make([]entity.MovementRecord, 0, len(r.store.movements)+len(t.movements))
		all = append(all, r.store.movements...)
		r.store.mu.RUnlock()
		all = append(all, t.movements...)

		for i := len(all) - 1; i >= 0; i-- {
			m := all[i]
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
				continue
			}
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.CreatedAt.After(*f.To) {
				continue
			}
			list = append(list, &m)
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
		list = page(list, f.Limit, f.Offset)
		return nil
	})
	return list, err
}
