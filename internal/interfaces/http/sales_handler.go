package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/application/sales"
)

// SalesHandler ventas y su comprobante PDF.
type SalesHandler struct {
	uc    *sales.CreateSalesOrderUseCase
	pdf   *sales.PDFUseCase
	retry inventory.RetryPolicy
}

// NewSalesHandler construye el handler. pdf puede ser nil (el endpoint responde 501).
func NewSalesHandler(uc *sales.CreateSalesOrderUseCase, pdf *sales.PDFUseCase, retry inventory.RetryPolicy) *SalesHandler {
	return &SalesHandler{uc: uc, pdf: pdf, retry: retry}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta todas las líneas en una sola transacción; si una falla no se descuenta ninguna.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesOrderRequest  true  "customer_name, warehouse_id, items"
// @Success      201   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la venta debe tener al menos un ítem"})
	}
	userID := GetUserID(c)
	var out *dto.SalesOrderResponse
	err := inventory.WithConflictRetry(c.UserContext(), h.retry, func(ctx context.Context) error {
		var err error
		out, err = h.uc.Create(ctx, userID, in)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar comprobante de venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/pdf [get]
func (h *SalesHandler) DownloadPDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "generación de PDF no configurada"})
	}
	pdfBytes, filename, err := h.pdf.DownloadReceiptPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
