package entity

import "time"

// InventoryRecord es la cantidad disponible de un producto en una bodega.
// Existe a lo sumo uno por (ProductID, WarehouseID); se crea en cero la primera
// vez que se ajusta y Quantity nunca es negativa al confirmar.
type InventoryRecord struct {
	ID          string
	ProductID   string
	WarehouseID string
	Quantity    int64
	BatchNumber string
	ExpiryDate  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
