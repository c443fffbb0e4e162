package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
)

// MovementFilter restringe el listado de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	Type        entity.MovementType
	ProductID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// MovementRepository define el puerto del historial de movimientos.
// Es de solo inserción: no existe forma de actualizar ni borrar un movimiento.
type MovementRepository interface {
	Append(ctx context.Context, movement *entity.MovementRecord) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementRecord, error)
}
