package inventory

import (
	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
)

func toStockResponse(txID, productID string, recs []*entity.InventoryRecord, movs []*entity.MovementRecord) *dto.StockOperationResponse {
	out := &dto.StockOperationResponse{
		TransactionID: txID,
		ProductID:     productID,
		Levels:        make([]dto.StockLevelDTO, 0, len(recs)),
		Movements:     make([]dto.MovementResponse, 0, len(movs)),
	}
	for _, r := range recs {
		out.Levels = append(out.Levels, dto.StockLevelDTO{WarehouseID: r.WarehouseID, Quantity: r.Quantity})
	}
	for _, m := range movs {
		out.Movements = append(out.Movements, ToMovementResponse(m))
	}
	return out
}

// ToMovementResponse convierte un movimiento del historial a DTO.
func ToMovementResponse(m *entity.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// ToRecordResponse convierte un registro de inventario a DTO.
func ToRecordResponse(r *entity.InventoryRecord) dto.InventoryRecordResponse {
	return dto.InventoryRecordResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		Quantity:    r.Quantity,
		BatchNumber: r.BatchNumber,
		ExpiryDate:  r.ExpiryDate,
		UpdatedAt:   r.UpdatedAt,
	}
}
