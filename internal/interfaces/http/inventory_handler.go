package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/application/purchasing"
)

// InventoryHandler maneja las operaciones de stock y las consultas del libro (protegido).
type InventoryHandler struct {
	stock     *inventory.StockService
	query     *inventory.QueryUseCase
	purchases *purchasing.PurchaseOrderUseCase
	retry     inventory.RetryPolicy
}

// NewInventoryHandler construye el handler. purchases puede ser nil si no se
// registran entradas a nombre de proveedor.
func NewInventoryHandler(
	stock *inventory.StockService,
	query *inventory.QueryUseCase,
	purchases *purchasing.PurchaseOrderUseCase,
	retry inventory.RetryPolicy,
) *InventoryHandler {
	return &InventoryHandler{stock: stock, query: query, purchases: purchases, retry: retry}
}

// Receive godoc
// @Summary      Registrar entrada de mercancía
// @Description  Suma quantity al registro (producto, bodega), creándolo en 0 si no existe.
// @Description  Con supplier_id se registra además una orden de compra RECEIVED.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "product_id, warehouse_id, quantity"
// @Success      201   {object}  dto.StockOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	userID := GetUserID(c)
	return h.run(c, func(ctx context.Context) (*dto.StockOperationResponse, error) {
		if in.SupplierID != "" && h.purchases != nil {
			return h.purchases.ReceiveDirect(ctx, userID, in)
		}
		return h.stock.ReceiveFromRequest(ctx, userID, in)
	})
}

// Sell godoc
// @Summary      Registrar salida por venta
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SellRequest  true  "product_id, warehouse_id, quantity"
// @Success      201   {object}  dto.StockOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/sell [post]
func (h *InventoryHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	userID := GetUserID(c)
	return h.run(c, func(ctx context.Context) (*dto.StockOperationResponse, error) {
		return h.stock.SellFromRequest(ctx, userID, in)
	})
}

// Transfer godoc
// @Summary      Trasladar entre bodegas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_warehouse_id, to_warehouse_id, quantity"
// @Success      201   {object}  dto.StockOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	userID := GetUserID(c)
	return h.run(c, func(ctx context.Context) (*dto.StockOperationResponse, error) {
		return h.stock.TransferFromRequest(ctx, userID, in)
	})
}

// run ejecuta la operación completa con reintento ante conflicto de persistencia.
func (h *InventoryHandler) run(c *fiber.Ctx, op func(ctx context.Context) (*dto.StockOperationResponse, error)) error {
	var out *dto.StockOperationResponse
	err := inventory.WithConflictRetry(c.UserContext(), h.retry, func(ctx context.Context) error {
		var err error
		out, err = op(ctx)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Quantity godoc
// @Summary      Cantidad de un producto en una bodega
// @Description  0 si el producto nunca tuvo registro en la bodega.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.QuantityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/quantity [get]
func (h *InventoryHandler) Quantity(c *fiber.Ctx) error {
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	out, err := h.query.GetQuantity(c.UserContext(), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListRecords godoc
// @Summary      Listar registros de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) ListRecords(c *fiber.Ctx) error {
	out, err := h.query.ListRecords(c.UserContext(), c.Query("product_id"), c.Query("warehouse_id"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type          query  string  false  "IN u OUT"
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	q := dto.MovementQuery{
		Type:        c.Query("type"),
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		PageRequest: pageFromQuery(c),
	}
	var err error
	if q.From, err = parseTimeQuery(c, "from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	if q.To, err = parseTimeQuery(c, "to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	out, err := h.query.ListMovements(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
