package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSalesOrderRequest body para POST /api/sales.
type CreateSalesOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	WarehouseID  string             `json:"warehouse_id"`
	Items        []SalesItemRequest `json:"items"`
}

// SalesItemRequest línea de venta. UnitPrice nil toma el precio de venta del producto.
type SalesItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// SalesOrderResponse venta con detalle.
type SalesOrderResponse struct {
	ID           string              `json:"id"`
	CustomerName string              `json:"customer_name"`
	WarehouseID  string              `json:"warehouse_id"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Items        []SalesItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
}

// SalesItemResponse línea de venta en la respuesta.
type SalesItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
