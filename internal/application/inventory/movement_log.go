package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/ledger"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

// MovementLog agrega entradas al historial de movimientos. No hay operación de
// edición ni de borrado.
type MovementLog struct {
	repo repository.MovementRepository
}

// NewMovementLog construye el historial sobre repo (normalmente TxRepos.Movements).
func NewMovementLog(repo repository.MovementRepository) MovementLog {
	return MovementLog{repo: repo}
}

// Append registra un movimiento con ID y fecha asignados aquí.
func (l MovementLog) Append(
	ctx context.Context,
	productID, warehouseID string,
	movementType entity.MovementType,
	quantity int64,
	transactionID, userID string,
	now time.Time,
) (*entity.MovementRecord, error) {
	if err := ledger.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if !movementType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	mov := &entity.MovementRecord{
		ID:            uuid.New().String(),
		TransactionID: transactionID,
		ProductID:     productID,
		WarehouseID:   warehouseID,
		Type:          movementType,
		Quantity:      quantity,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	if err := l.repo.Append(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
