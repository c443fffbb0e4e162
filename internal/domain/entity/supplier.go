package entity

import "time"

// Supplier representa un proveedor al que se emiten órdenes de compra.
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Email       string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
