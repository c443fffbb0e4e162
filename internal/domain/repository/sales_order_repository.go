package repository

import (
	"context"

	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
)

// SalesOrderRepository define el puerto de persistencia de órdenes de venta.
type SalesOrderRepository interface {
	// Create inserta la orden junto con sus ítems.
	Create(ctx context.Context, order *entity.SalesOrder) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
}
