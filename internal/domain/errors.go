package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del libro de inventario. Toda operación que falla con uno de estos
// no deja efectos visibles.
var (
	ErrInvalidQuantity       = errors.New("la cantidad debe ser mayor que cero")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrProductNotStocked     = errors.New("el producto no tiene registro de inventario en la bodega")
	ErrSameWarehouseTransfer = errors.New("la bodega de origen y destino son la misma")
	ErrPersistenceConflict   = errors.New("conflicto de concurrencia al persistir, reintente la operación")
	ErrOrderNotPending       = errors.New("la orden no está pendiente")
)
