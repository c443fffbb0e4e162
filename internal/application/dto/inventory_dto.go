package dto

import "time"

// ReceiveRequest body para POST /api/inventory/receive.
// SupplierID opcional: si viene, la entrada queda registrada como una orden de compra RECEIVED.
type ReceiveRequest struct {
	ProductID   string     `json:"product_id"`
	WarehouseID string     `json:"warehouse_id"`
	Quantity    int64      `json:"quantity"`
	BatchNumber string     `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	SupplierID  string     `json:"supplier_id,omitempty"`
}

// SellRequest body para POST /api/inventory/sell.
type SellRequest struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}

// TransferRequest body para POST /api/inventory/transfer.
type TransferRequest struct {
	ProductID       string `json:"product_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int64  `json:"quantity"`
}

// StockLevelDTO cantidad resultante en una bodega tras una operación.
type StockLevelDTO struct {
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}

// StockOperationResponse resultado de receive/sell/transfer.
type StockOperationResponse struct {
	TransactionID string             `json:"transaction_id"`
	ProductID     string             `json:"product_id"`
	Levels        []StockLevelDTO    `json:"levels"`
	Movements     []MovementResponse `json:"movements"`
}

// QuantityOf devuelve la cantidad resultante en la bodega indicada (0 si no participó).
func (r StockOperationResponse) QuantityOf(warehouseID string) int64 {
	for _, l := range r.Levels {
		if l.WarehouseID == warehouseID {
			return l.Quantity
		}
	}
	return 0
}

// InventoryRecordResponse registro de inventario (producto+bodega).
type InventoryRecordResponse struct {
	ID          string     `json:"id"`
	ProductID   string     `json:"product_id"`
	WarehouseID string     `json:"warehouse_id"`
	Quantity    int64      `json:"quantity"`
	BatchNumber string     `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// InventoryListResponse lista paginada de registros.
type InventoryListResponse struct {
	Items []InventoryRecordResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// QuantityResponse respuesta de GET /api/inventory/quantity.
type QuantityResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}

// MovementResponse movimiento del historial.
type MovementResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id"`
	Type          string    `json:"movement_type"`
	Quantity      int64     `json:"quantity"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementQuery filtros de GET /api/inventory/movements.
type MovementQuery struct {
	Type        string     `query:"type"`
	ProductID   string     `query:"product_id"`
	WarehouseID string     `query:"warehouse_id"`
	From        *time.Time `query:"-"`
	To          *time.Time `query:"-"`
	PageRequest
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
