// Package ledger contiene las reglas puras del libro de inventario
// (servicio de dominio, sin persistencia).
package ledger

import (
	"math"
	"sort"

	"github.com/jhoicas/bodega-ledger/internal/domain"
)

// Key identifica un registro de inventario: un producto en una bodega.
type Key struct {
	ProductID   string
	WarehouseID string
}

// ValidateQuantity exige que la cantidad de una operación sea estrictamente positiva.
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ApplyDelta calcula la nueva cantidad tras sumar delta.
// delta == 0 no es un ajuste válido, tampoco una entrada que desborda int64;
// un resultado negativo se rechaza y se devuelve la cantidad actual sin cambios.
func ApplyDelta(current, delta int64) (int64, error) {
	if delta == 0 {
		return current, domain.ErrInvalidQuantity
	}
	if delta > 0 && current > math.MaxInt64-delta {
		return current, domain.ErrInvalidQuantity
	}
	next := current + delta
	if next < 0 {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}

// LockOrder devuelve las claves sin duplicados en el orden en que deben
// bloquearse: por bodega y luego por producto. Dos transacciones que bloquean
// el mismo conjunto de claves en este orden no pueden quedar en deadlock.
func LockOrder(keys ...Key) []Key {
	seen := make(map[Key]struct{}, len(keys))
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseID != out[j].WarehouseID {
			return out[i].WarehouseID < out[j].WarehouseID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
