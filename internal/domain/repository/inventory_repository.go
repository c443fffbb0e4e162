package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
)

// InventoryFilter restringe el listado de registros de inventario. Campos vacíos no filtran.
type InventoryFilter struct {
	ProductID   string
	WarehouseID string
	Limit       int
	Offset      int
}

// LowStockItem es un registro cuya cantidad está en o por debajo del nivel de reorden del producto.
type LowStockItem struct {
	ProductID     string
	SKU           string
	ProductName   string
	WarehouseID   string
	WarehouseName string
	Quantity      int64
	ReorderLevel  int64
}

// InventoryRepository define el puerto del libro de inventario (un registro por producto+bodega).
// Los métodos ForUpdate bloquean la fila hasta el fin de la transacción que los usa.
type InventoryRepository interface {
	// Get devuelve (nil, nil) si el registro no existe.
	Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea el registro; devuelve (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error)
	// GetOrCreateForUpdate crea el registro en cero (con fecha now) si no existe y lo bloquea, en un solo paso.
	GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string, now time.Time) (*entity.InventoryRecord, error)
	// Update persiste Quantity, BatchNumber y ExpiryDate de un registro ya bloqueado.
	Update(ctx context.Context, record *entity.InventoryRecord) error
	List(ctx context.Context, filter InventoryFilter) ([]*entity.InventoryRecord, error)

	// ListBelowReorderLevel devuelve los registros con quantity <= reorder_level del producto,
	// ordenados por mayor déficit primero. warehouseID vacío considera todas las bodegas.
	ListBelowReorderLevel(ctx context.Context, warehouseID string) ([]LowStockItem, error)
}
