package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bodega-ledger/internal/application/alerting"
	"github.com/jhoicas/bodega-ledger/internal/application/auth"
	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/application/purchasing"
	"github.com/jhoicas/bodega-ledger/internal/application/sales"
	"github.com/jhoicas/bodega-ledger/internal/application/usecase"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/cache"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	SupplierUC  *usecase.SupplierUseCase
	Stock       *inventory.StockService
	Query       *inventory.QueryUseCase
	PurchaseUC  *purchasing.PurchaseOrderUseCase
	SalesUC     *sales.CreateSalesOrderUseCase
	SalesPDF    *sales.PDFUseCase
	LowStockUC  *alerting.LowStockUseCase
	Retry       inventory.RetryPolicy
	JWTSecret   string

	// RateCounter opcional; nil desactiva el límite de peticiones.
	RateCounter     cache.Counter
	RateLimitMax    int
	RateLimitWindow time.Duration

	Log zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	manager := RequireRole(entity.RoleManager)
	staff := RequireRole(entity.RoleManager, entity.RoleStorekeeper)
	limited := func(c *fiber.Ctx) error { return c.Next() }
	if deps.RateCounter != nil && deps.RateLimitMax > 0 {
		limited = RateLimit(deps.RateCounter, deps.RateLimitMax, deps.RateLimitWindow, deps.Log)
	}

	// Auth (público salvo /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo: lectura para cualquier rol, escritura solo manager
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", staff, productHandler.List)
	products.Get("/:id", staff, productHandler.GetByID)
	products.Post("/", manager, productHandler.Create)
	products.Put("/:id", manager, productHandler.Update)
	products.Delete("/:id", manager, productHandler.Delete)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", staff, warehouseHandler.List)
	warehouses.Get("/:id", staff, warehouseHandler.GetByID)
	warehouses.Post("/", manager, warehouseHandler.Create)
	warehouses.Put("/:id", manager, warehouseHandler.Update)
	warehouses.Delete("/:id", manager, warehouseHandler.Delete)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", staff, supplierHandler.List)
	suppliers.Get("/:id", staff, supplierHandler.GetByID)
	suppliers.Post("/", manager, supplierHandler.Create)
	suppliers.Put("/:id", manager, supplierHandler.Update)
	suppliers.Delete("/:id", manager, supplierHandler.Delete)

	// Libro de inventario
	inv := protected.Group("/inventory", staff)
	inventoryHandler := NewInventoryHandler(deps.Stock, deps.Query, deps.PurchaseUC, deps.Retry)
	inv.Get("/", inventoryHandler.ListRecords)
	inv.Get("/quantity", inventoryHandler.Quantity)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Post("/receive", limited, inventoryHandler.Receive)
	inv.Post("/sell", limited, inventoryHandler.Sell)
	inv.Post("/transfer", limited, inventoryHandler.Transfer)

	// Órdenes de compra
	if deps.PurchaseUC != nil {
		purchases := protected.Group("/purchases")
		purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, deps.Retry)
		purchases.Post("/", manager, limited, purchaseHandler.Create)
		purchases.Get("/:id", staff, purchaseHandler.Get)
		purchases.Post("/:id/receive", staff, limited, purchaseHandler.Receive)
		purchases.Post("/:id/cancel", manager, purchaseHandler.Cancel)
	}

	// Ventas
	if deps.SalesUC != nil {
		salesGroup := protected.Group("/sales", staff)
		salesHandler := NewSalesHandler(deps.SalesUC, deps.SalesPDF, deps.Retry)
		salesGroup.Post("/", limited, salesHandler.Create)
		salesGroup.Get("/:id", salesHandler.Get)
		salesGroup.Get("/:id/pdf", salesHandler.DownloadPDF)
	}

	// Alertas de stock bajo
	if deps.LowStockUC != nil {
		alerts := protected.Group("/alerts", manager)
		alertHandler := NewAlertHandler(deps.LowStockUC)
		alerts.Get("/low-stock", alertHandler.LowStock)
		alerts.Post("/low-stock/notify", alertHandler.NotifyLowStock)
	}
}
