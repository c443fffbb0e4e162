package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-ledger/internal/application/alerting"
	"github.com/jhoicas/bodega-ledger/internal/application/dto"
)

// AlertHandler expone la detección de stock bajo (solo manager).
type AlertHandler struct {
	uc *alerting.LowStockUseCase
}

func NewAlertHandler(uc *alerting.LowStockUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// LowStock godoc
// @Summary      Productos en o bajo su nivel de reorden
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {array}   dto.LowStockItemDTO
// @Router       /api/alerts/low-stock [get]
func (h *AlertHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.uc.FindLowStock(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// NotifyLowStock godoc
// @Summary      Enviar alerta de stock bajo
// @Description  Envía una sola alerta con todos los productos en o bajo su nivel de reorden.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Success      200  {object}  dto.LowStockNotifyResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/alerts/low-stock/notify [post]
func (h *AlertHandler) NotifyLowStock(c *fiber.Ctx) error {
	out, err := h.uc.NotifyLowStock(c.UserContext(), c.Query("warehouse_id"))
	if err != nil && out != nil {
		c.Locals(localError, err)
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "NOTIFY_FAILED", Message: "no se pudo enviar la alerta"})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
