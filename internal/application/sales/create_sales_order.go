package sales

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/ledger"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

// CreateSalesOrderUseCase crea una venta y descuenta el inventario en una sola transacción.
type CreateSalesOrderUseCase struct {
	txRunner      inventory.TxRunner
	stock         StockEngine
	salesRepo     repository.SalesOrderRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           zerolog.Logger
}

// NewCreateSalesOrderUseCase construye el caso de uso.
func NewCreateSalesOrderUseCase(
	txRunner inventory.TxRunner,
	stock StockEngine,
	salesRepo repository.SalesOrderRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log zerolog.Logger,
) *CreateSalesOrderUseCase {
	return &CreateSalesOrderUseCase{
		txRunner:      txRunner,
		stock:         stock,
		salesRepo:     salesRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log,
	}
}

// Create registra una salida por cada línea y guarda la orden con sus ítems.
// Si alguna línea falla (p. ej. stock insuficiente) no se descuenta nada.
func (uc *CreateSalesOrderUseCase) Create(ctx context.Context, userID string, in dto.CreateSalesOrderRequest) (*dto.SalesOrderResponse, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.CustomerName == "" || in.WarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	// Validar productos y precios (fuera de la tx, solo lectura)
	now := time.Now()
	order := &entity.SalesOrder{
		ID:           uuid.New().String(),
		CustomerName: in.CustomerName,
		WarehouseID:  in.WarehouseID,
		TotalAmount:  decimal.Zero,
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	names := make(map[string]string, len(in.Items))
	keys := make([]ledger.Key, 0, len(in.Items))
	for _, item := range in.Items {
		if err := ledger.ValidateQuantity(item.Quantity); err != nil {
			return nil, err
		}
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		price := product.SellingPrice
		if item.UnitPrice != nil {
			if item.UnitPrice.IsNegative() {
				return nil, domain.ErrInvalidInput
			}
			price = *item.UnitPrice
		}
		line := entity.SalesItem{
			ID:           uuid.New().String(),
			SalesOrderID: order.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    price,
		}
		order.Items = append(order.Items, line)
		order.TotalAmount = order.TotalAmount.Add(line.Subtotal())
		names[product.ID] = product.Name
		keys = append(keys, ledger.Key{ProductID: item.ProductID, WarehouseID: in.WarehouseID})
	}

	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		if err := inventory.NewLedger(repos.Inventory).Lock(ctx, keys...); err != nil {
			return err
		}
		for _, line := range order.Items {
			if _, _, err := uc.stock.SellInTx(ctx, repos, inventory.SellInput{
				UserID:        userID,
				ProductID:     line.ProductID,
				WarehouseID:   order.WarehouseID,
				Quantity:      line.Quantity,
				TransactionID: order.ID, // referencia a la venta en el historial
			}, now); err != nil {
				return err
			}
		}
		return repos.Sales.Create(ctx, order)
	})
	if err != nil {
		uc.log.Info().Err(err).Str("warehouse_id", in.WarehouseID).Int("items", len(in.Items)).Msg("venta rechazada")
		return nil, err
	}
	uc.log.Debug().Str("sales_order_id", order.ID).Str("total", order.TotalAmount.String()).Msg("venta registrada")
	return ToSalesResponse(order, names), nil
}

// Get devuelve la venta con su detalle.
func (uc *CreateSalesOrderUseCase) Get(ctx context.Context, id string) (*dto.SalesOrderResponse, error) {
	order, err := uc.salesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	names := make(map[string]string, len(order.Items))
	for _, it := range order.Items {
		if p, err := uc.productRepo.GetByID(ctx, it.ProductID); err == nil && p != nil {
			names[p.ID] = p.Name
		}
	}
	return ToSalesResponse(order, names), nil
}

// ToSalesResponse convierte la venta a DTO; names mapea productID a nombre.
func ToSalesResponse(order *entity.SalesOrder, names map[string]string) *dto.SalesOrderResponse {
	items := make([]dto.SalesItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, dto.SalesItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: names[it.ProductID],
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
		})
	}
	return &dto.SalesOrderResponse{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		WarehouseID:  order.WarehouseID,
		TotalAmount:  order.TotalAmount,
		Items:        items,
		CreatedAt:    order.CreatedAt,
	}
}
