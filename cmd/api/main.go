package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/bodega-ledger/internal/application/alerting"
	"github.com/jhoicas/bodega-ledger/internal/application/auth"
	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/application/purchasing"
	"github.com/jhoicas/bodega-ledger/internal/application/sales"
	"github.com/jhoicas/bodega-ledger/internal/application/usecase"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/bodega-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/bodega-ledger/internal/interfaces/http"
	"github.com/jhoicas/bodega-ledger/pkg/config"
	"github.com/jhoicas/bodega-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage agrupa los puertos de persistencia del backend elegido.
type storage struct {
	txRunner   inventory.TxRunner
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	suppliers  repository.SupplierRepository
	users      repository.UserRepository
	inventory  repository.InventoryRepository
	movements  repository.MovementRepository
	purchases  repository.PurchaseOrderRepository
	sales      repository.SalesOrderRepository
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) *storage {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		r := memory.New()
		return &storage{
			txRunner: r.TxRunner, products: r.Products, warehouses: r.Warehouses,
			suppliers: r.Suppliers, users: r.Users, inventory: r.Inventory,
			movements: r.Movements, purchases: r.Purchases, sales: r.Sales,
			close: func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	log.Info().Str("host", postgres.HostOf(cfg.DB.ConnectionString())).Msg("conectado a PostgreSQL")
	return &storage{
		txRunner:   postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		users:      postgres.NewUserRepository(pool),
		inventory:  postgres.NewInventoryRepository(pool),
		movements:  postgres.NewMovementRepository(pool),
		purchases:  postgres.NewPurchaseOrderRepository(pool),
		sales:      postgres.NewSalesOrderRepository(pool),
		close:      pool.Close,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := openStorage(ctx, cfg, log)
	defer store.close()

	stock := inventory.NewStockService(store.txRunner, store.products, store.warehouses, log.Component("stock"))
	queryUC := inventory.NewQueryUseCase(store.inventory, store.movements)
	purchaseUC := purchasing.NewPurchaseOrderUseCase(
		store.txRunner, stock, store.purchases, store.suppliers, store.products, store.warehouses,
		log.Component("purchasing"),
	)
	salesUC := sales.NewCreateSalesOrderUseCase(
		store.txRunner, stock, store.sales, store.products, store.warehouses,
		log.Component("sales"),
	)
	// PDF: comprobante de venta
	salesPDF := sales.NewPDFUseCase(store.sales, store.products, store.warehouses, infrapdf.NewMarotoPDFGenerator())

	// Alertas: email y/o webhook según configuración; sin canales solo se consultan.
	notifier := notify.NewMultiNotifier(
		notify.NewEmailNotifier(cfg.Alerts),
		notify.NewWebhookNotifier(cfg.Alerts.WebhookURL),
	)
	lowStockUC := alerting.NewLowStockUseCase(store.inventory, notifier, log.Component("alerting"))

	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var rateCounter cache.Counter
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		rateCounter = cache.NewRedisCounter(rdb, cfg.App.Name)
	}

	var cronProbe *scheduler.Scheduler
	if cfg.Alerts.LowStockCron != "" {
		cronProbe, err = scheduler.NewScheduler(cfg.Alerts.LowStockCron, lowStockUC, log.Component("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler de stock bajo")
		}
		cronProbe.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs (requiere `swag init`)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Bodega Ledger API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   usecase.NewProductUseCase(store.products),
		WarehouseUC: usecase.NewWarehouseUseCase(store.warehouses),
		SupplierUC:  usecase.NewSupplierUseCase(store.suppliers),
		Stock:       stock,
		Query:       queryUC,
		PurchaseUC:  purchaseUC,
		SalesUC:     salesUC,
		SalesPDF:    salesPDF,
		LowStockUC:  lowStockUC,
		Retry: inventory.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
		},
		JWTSecret:       cfg.JWT.Secret,
		RateCounter:     rateCounter,
		RateLimitMax:    cfg.Redis.RateLimitMax,
		RateLimitWindow: cfg.Redis.RateLimitWindow,
		Log:             log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cronProbe != nil {
		cronProbe.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
