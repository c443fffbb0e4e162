package entity

import "time"

// MovementType indica la dirección de un movimiento de inventario.
type MovementType string

const (
	MovementIn  MovementType = "IN"  // entrada
	MovementOut MovementType = "OUT" // salida
)

// Valid indica si t es IN u OUT.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// MovementRecord es una entrada inmutable del historial de movimientos.
// Quantity siempre es positiva; la dirección la da Type. Los movimientos de una
// misma operación (p. ej. los dos lados de un traslado) comparten TransactionID.
type MovementRecord struct {
	ID            string
	TransactionID string
	ProductID     string
	WarehouseID   string
	Type          MovementType
	Quantity      int64
	CreatedBy     string
	CreatedAt     time.Time
}
