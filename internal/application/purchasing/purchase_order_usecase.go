package purchasing

import (
	"context"
	"sort"
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

// PurchaseOrderUseCase gestiona órdenes de compra. Recibir una orden aplica las
// entradas de todos sus ítems y cambia su estado en la misma transacción, por
// lo que una orden nunca se aplica dos veces.
type PurchaseOrderUseCase struct {
	txRunner      inventory.TxRunner
	stock         StockEngine
	purchaseRepo  repository.PurchaseOrderRepository
	supplierRepo  repository.SupplierRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           zerolog.Logger
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	txRunner inventory.TxRunner,
	stock StockEngine,
	purchaseRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log zerolog.Logger,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		txRunner:      txRunner,
		stock:         stock,
		purchaseRepo:  purchaseRepo,
		supplierRepo:  supplierRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log,
	}
}

// Create registra una orden PENDING; no toca el inventario.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" || in.WarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkSupplierAndWarehouse(ctx, in.SupplierID, in.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Status:      entity.PurchaseStatusPending,
		TotalCost:   decimal.Zero,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, item := range in.Items {
		if err := ledger.ValidateQuantity(item.Quantity); err != nil {
			return nil, err
		}
		if item.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		line := entity.PurchaseItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitCost:        item.UnitCost,
		}
		po.Items = append(po.Items, line)
		po.TotalCost = po.TotalCost.Add(line.Subtotal())
	}

	if err := uc.purchaseRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	return toPurchaseResponse(po), nil
}

// Get devuelve la orden con sus ítems.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseResponse(po), nil
}

// Receive aplica la orden al inventario: bloquea la orden, exige PENDING
// (ErrOrderNotPending si no), registra una entrada por ítem y la marca RECEIVED.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, userID, id string) (*dto.PurchaseOrderResponse, error) {
	var po *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		po, err = repos.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.Status != entity.PurchaseStatusPending {
			return domain.ErrOrderNotPending
		}

		keys := make([]ledger.Key, 0, len(po.Items))
		for _, it := range po.Items {
			keys = append(keys, ledger.Key{ProductID: it.ProductID, WarehouseID: po.WarehouseID})
		}
		if err := inventory.NewLedger(repos.Inventory).Lock(ctx, keys...); err != nil {
			return err
		}

		now := time.Now()
		for _, it := range sortedPurchaseItems(po.Items) {
			if _, _, err := uc.stock.ReceiveInTx(ctx, repos, inventory.ReceiveInput{
				UserID:        userID,
				ProductID:     it.ProductID,
				WarehouseID:   po.WarehouseID,
				Quantity:      it.Quantity,
				TransactionID: po.ID,
			}, now); err != nil {
				return err
			}
		}

		po.Status = entity.PurchaseStatusReceived
		po.ReceivedAt = &now
		po.UpdatedAt = now
		return repos.Purchases.UpdateStatus(ctx, po)
	})
	if err != nil {
		uc.log.Info().Err(err).Str("purchase_order_id", id).Msg("recepción de orden de compra rechazada")
		return nil, err
	}
	uc.log.Debug().Str("purchase_order_id", id).Int("items", len(po.Items)).Msg("orden de compra recibida")
	return toPurchaseResponse(po), nil
}

// Cancel pasa una orden PENDING a CANCELLED; no afecta el inventario.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	var po *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		po, err = repos.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.Status != entity.PurchaseStatusPending {
			return domain.ErrOrderNotPending
		}
		po.Status = entity.PurchaseStatusCancelled
		po.UpdatedAt = time.Now()
		return repos.Purchases.UpdateStatus(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(po), nil
}

// ReceiveDirect registra una entrada suelta a nombre de un proveedor: crea una
// orden ya RECEIVED de un ítem (al costo del producto) y aplica la entrada en la
// misma transacción.
func (uc *PurchaseOrderUseCase) ReceiveDirect(ctx context.Context, userID string, in dto.ReceiveRequest) (*dto.StockOperationResponse, error) {
	if err := ledger.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkSupplierAndWarehouse(ctx, in.SupplierID, in.WarehouseID); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Status:      entity.PurchaseStatusReceived,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
		ReceivedAt:  &now,
	}
	po.Items = []entity.PurchaseItem{{
		ID:              uuid.New().String(),
		PurchaseOrderID: po.ID,
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		UnitCost:        product.CostPrice,
	}}
	po.TotalCost = po.Items[0].Subtotal()

	var (
		rec *entity.InventoryRecord
		mov *entity.MovementRecord
	)
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		if err := repos.Purchases.Create(ctx, po); err != nil {
			return err
		}
		var err error
		rec, mov, err = uc.stock.ReceiveInTx(ctx, repos, inventory.ReceiveInput{
			UserID:        userID,
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			Quantity:      in.Quantity,
			BatchNumber:   in.BatchNumber,
			ExpiryDate:    in.ExpiryDate,
			TransactionID: po.ID,
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.StockOperationResponse{
		TransactionID: po.ID,
		ProductID:     in.ProductID,
		Levels:        []dto.StockLevelDTO{{WarehouseID: rec.WarehouseID, Quantity: rec.Quantity}},
		Movements:     []dto.MovementResponse{inventory.ToMovementResponse(mov)},
	}, nil
}

func (uc *PurchaseOrderUseCase) checkSupplierAndWarehouse(ctx context.Context, supplierID, warehouseID string) error {
	if supplierID == "" || warehouseID == "" {
		return domain.ErrInvalidInput
	}
	sp, err := uc.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if sp == nil {
		return domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrNotFound
	}
	return nil
}

// sortedPurchaseItems ordena por producto para aplicar las entradas siempre en el mismo orden.
func sortedPurchaseItems(items []entity.PurchaseItem) []entity.PurchaseItem {
	out := append([]entity.PurchaseItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func toPurchaseResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, dto.PurchaseItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			Subtotal:  it.Subtotal(),
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:          po.ID,
		SupplierID:  po.SupplierID,
		WarehouseID: po.WarehouseID,
		Status:      po.Status,
		TotalCost:   po.TotalCost,
		Items:       items,
		CreatedAt:   po.CreatedAt,
		ReceivedAt:  po.ReceivedAt,
	}
}
