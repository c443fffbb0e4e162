package inventory

import (
	"context"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

// QueryUseCase expone el libro y el historial en modo lectura.
type QueryUseCase struct {
	invRepo repository.InventoryRepository
	movRepo repository.MovementRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(invRepo repository.InventoryRepository, movRepo repository.MovementRepository) *QueryUseCase {
	return &QueryUseCase{invRepo: invRepo, movRepo: movRepo}
}

// GetQuantity devuelve la cantidad del par; 0 si nunca tuvo registro.
func (uc *QueryUseCase) GetQuantity(ctx context.Context, productID, warehouseID string) (*dto.QuantityResponse, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	qty, err := NewLedger(uc.invRepo).Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.QuantityResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: qty}, nil
}

// ListRecords lista registros de inventario filtrando por producto y/o bodega.
func (uc *QueryUseCase) ListRecords(ctx context.Context, productID, warehouseID string, page dto.PageRequest) (*dto.InventoryListResponse, error) {
	page.DefaultPage()
	recs, err := uc.invRepo.List(ctx, repository.InventoryFilter{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryRecordResponse, 0, len(recs))
	for _, r := range recs {
		items = append(items, ToRecordResponse(r))
	}
	return &dto.InventoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListMovements lista el historial, del más reciente al más antiguo.
func (uc *QueryUseCase) ListMovements(ctx context.Context, q dto.MovementQuery) (*dto.MovementListResponse, error) {
	q.DefaultPage()
	filter := repository.MovementFilter{
		ProductID:   q.ProductID,
		WarehouseID: q.WarehouseID,
		From:        q.From,
		To:          q.To,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if q.Type != "" {
		t := entity.MovementType(q.Type)
		if !t.Valid() {
			return nil, domain.ErrInvalidInput
		}
		filter.Type = t
	}
	movs, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}
