package alerting

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

// Notifier entrega una alerta de stock bajo por algún canal (email, webhook...).
type Notifier interface {
	NotifyLowStock(ctx context.Context, items []dto.LowStockItemDTO) error
}

// LowStockUseCase detecta productos en o bajo su nivel de reorden. Es una
// consulta independiente: el motor de stock nunca la invoca.
type LowStockUseCase struct {
	invRepo  repository.InventoryRepository
	notifier Notifier
	log      zerolog.Logger
}

// NewLowStockUseCase construye el caso de uso; notifier puede ser nil (solo consulta).
func NewLowStockUseCase(invRepo repository.InventoryRepository, notifier Notifier, log zerolog.Logger) *LowStockUseCase {
	return &LowStockUseCase{invRepo: invRepo, notifier: notifier, log: log}
}

// FindLowStock lista los registros con quantity <= reorder_level, mayor déficit primero.
// warehouseID vacío considera todas las bodegas.
func (uc *LowStockUseCase) FindLowStock(ctx context.Context, warehouseID string) ([]dto.LowStockItemDTO, error) {
	raw, err := uc.invRepo.ListBelowReorderLevel(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemDTO, 0, len(raw))
	for _, it := range raw {
		suggested := 2*it.ReorderLevel - it.Quantity
		if suggested < 0 {
			suggested = 0
		}
		items = append(items, dto.LowStockItemDTO{
			ProductID:         it.ProductID,
			SKU:               it.SKU,
			ProductName:       it.ProductName,
			WarehouseID:       it.WarehouseID,
			WarehouseName:     it.WarehouseName,
			Quantity:          it.Quantity,
			ReorderLevel:      it.ReorderLevel,
			SuggestedOrderQty: suggested,
		})
	}
	return items, nil
}

// NotifyLowStock busca los productos bajo reorden y envía una sola alerta con todos.
// Sin productos o sin notificador no envía nada.
func (uc *LowStockUseCase) NotifyLowStock(ctx context.Context, warehouseID string) (*dto.LowStockNotifyResponse, error) {
	items, err := uc.FindLowStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	resp := &dto.LowStockNotifyResponse{Items: items}
	if len(items) == 0 || uc.notifier == nil {
		return resp, nil
	}
	if err := uc.notifier.NotifyLowStock(ctx, items); err != nil {
		uc.log.Error().Err(err).Int("items", len(items)).Msg("no se pudo enviar la alerta de stock bajo")
		return resp, err
	}
	uc.log.Info().Int("items", len(items)).Msg("alerta de stock bajo enviada")
	resp.Notified = true
	return resp, nil
}
