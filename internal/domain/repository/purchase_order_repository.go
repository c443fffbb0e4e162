package repository

import (
	"context"

	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia de órdenes de compra.
type PurchaseOrderRepository interface {
	// Create inserta la orden junto con sus ítems.
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la orden hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, order *entity.PurchaseOrder) error
}
