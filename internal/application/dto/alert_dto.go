package dto

// LowStockItemDTO producto en o bajo su nivel de reorden en una bodega.
type LowStockItemDTO struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	ProductName       string `json:"product_name"`
	WarehouseID       string `json:"warehouse_id"`
	WarehouseName     string `json:"warehouse_name"`
	Quantity          int64  `json:"quantity"`
	ReorderLevel      int64  `json:"reorder_level"`
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // 2*ReorderLevel - Quantity
}

// LowStockNotifyResponse resultado de POST /api/alerts/low-stock/notify.
type LowStockNotifyResponse struct {
	Items    []LowStockItemDTO `json:"items"`
	Notified bool              `json:"notified"`
}
