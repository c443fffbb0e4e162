package inventory

import (
	"context"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
)

// ReceiveFromRequest adapta el request HTTP al caso de uso Receive.
func (s *StockService) ReceiveFromRequest(ctx context.Context, userID string, in dto.ReceiveRequest) (*dto.StockOperationResponse, error) {
	return s.Receive(ctx, ReceiveInput{
		UserID:      userID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		BatchNumber: in.BatchNumber,
		ExpiryDate:  in.ExpiryDate,
	})
}

// SellFromRequest adapta el request HTTP al caso de uso Sell.
func (s *StockService) SellFromRequest(ctx context.Context, userID string, in dto.SellRequest) (*dto.StockOperationResponse, error) {
	return s.Sell(ctx, SellInput{
		UserID:      userID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
	})
}

// TransferFromRequest adapta el request HTTP al caso de uso Transfer.
func (s *StockService) TransferFromRequest(ctx context.Context, userID string, in dto.TransferRequest) (*dto.StockOperationResponse, error) {
	return s.Transfer(ctx, TransferInput{
		UserID:          userID,
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
	})
}
