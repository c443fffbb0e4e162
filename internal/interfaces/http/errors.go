package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/domain"
)

// retryAfterSeconds valor del header Retry-After ante PERSISTENCE_CONFLICT.
const retryAfterSeconds = "1"

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorTable se recorre en orden; la primera coincidencia (errors.Is) gana.
var errorTable = []errorMapping{
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY", ""},
	{domain.ErrSameWarehouseTransfer, fiber.StatusBadRequest, "SAME_WAREHOUSE_TRANSFER", ""},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", ""},
	{domain.ErrProductNotStocked, fiber.StatusConflict, "PRODUCT_NOT_STOCKED", ""},
	{domain.ErrOrderNotPending, fiber.StatusConflict, "ORDER_NOT_PENDING", ""},
	{domain.ErrPersistenceConflict, fiber.StatusServiceUnavailable, "PERSISTENCE_CONFLICT", ""},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", ""},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", ""},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", ""},
}

// statusFor devuelve status y código estable para err; 500/INTERNAL si no es de dominio.
func statusFor(err error) (int, string, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = m.target.Error()
			}
			return m.status, m.code, msg
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL", "error interno"
}

// writeError responde con dto.ErrorResponse según el error de dominio.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := statusFor(err)
	if status == fiber.StatusServiceUnavailable {
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
	}
	if status == fiber.StatusInternalServerError {
		c.Locals(localError, err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: what + " no encontrado"})
}
