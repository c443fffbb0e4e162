package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/ledger"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

// StockService es el motor de operaciones de stock: entradas, ventas y traslados.
// Cada operación corre en una única transacción que ajusta el libro y registra
// sus movimientos; si algo falla no queda ningún efecto visible.
type StockService struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           zerolog.Logger
	now           func() time.Time
}

// NewStockService construye el motor.
func NewStockService(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log zerolog.Logger,
) *StockService {
	return &StockService{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log,
		now:           time.Now,
	}
}

// ReceiveInput entrada de mercancía a una bodega.
type ReceiveInput struct {
	UserID        string
	ProductID     string
	WarehouseID   string
	Quantity      int64
	BatchNumber   string
	ExpiryDate    *time.Time
	TransactionID string // opcional; por defecto se genera uno
}

// SellInput salida de mercancía por venta.
type SellInput struct {
	UserID        string
	ProductID     string
	WarehouseID   string
	Quantity      int64
	TransactionID string
}

// TransferInput traslado de un producto entre dos bodegas.
type TransferInput struct {
	UserID          string
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
}

// Receive suma Quantity al registro (creándolo si no existe) y registra un movimiento IN.
func (s *StockService) Receive(ctx context.Context, in ReceiveInput) (*dto.StockOperationResponse, error) {
	if err := ledger.ValidateQuantity(in.Quantity); err != nil {
		return nil, s.rejected("receive", err, in.ProductID, in.WarehouseID, in.Quantity)
	}
	if err := s.CheckCatalog(ctx, in.ProductID, in.WarehouseID); err != nil {
		return nil, s.rejected("receive", err, in.ProductID, in.WarehouseID, in.Quantity)
	}
	if in.TransactionID == "" {
		in.TransactionID = uuid.New().String()
	}

	var (
		rec *entity.InventoryRecord
		mov *entity.MovementRecord
	)
	err := s.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		rec, mov, err = s.ReceiveInTx(ctx, repos, in, s.now())
		return err
	})
	if err != nil {
		return nil, s.rejected("receive", err, in.ProductID, in.WarehouseID, in.Quantity)
	}
	s.committed("receive", in.TransactionID, in.ProductID, in.Quantity, rec)
	return toStockResponse(in.TransactionID, in.ProductID, []*entity.InventoryRecord{rec}, []*entity.MovementRecord{mov}), nil
}

// Sell descuenta Quantity del registro y registra un movimiento OUT.
// Falla con ErrProductNotStocked si el producto nunca tuvo registro en la bodega
// y con ErrInsufficientStock si la cantidad disponible no alcanza.
func (s *StockService) Sell(ctx context.Context, in SellInput) (*dto.StockOperationResponse, error) {
	if err := ledger.ValidateQuantity(in.Quantity); err != nil {
		return nil, s.rejected("sell", err, in.ProductID, in.WarehouseID, in.Quantity)
	}
	if err := s.CheckCatalog(ctx, in.ProductID, in.WarehouseID); err != nil {
		return nil, s.rejected("sell", err, in.ProductID, in.WarehouseID, in.Quantity)
	}
	if in.TransactionID == "" {
		in.TransactionID = uuid.New().String()
	}

	var (
		rec *entity.InventoryRecord
		mov *entity.MovementRecord
	)
	err := s.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		rec, mov, err = s.SellInTx(ctx, repos, in, s.now())
		return err
	})
	if err != nil {
		return nil, s.rejected("sell", err, in.ProductID, in.WarehouseID, in.Quantity)
	}
	s.committed("sell", in.TransactionID, in.ProductID, in.Quantity, rec)
	return toStockResponse(in.TransactionID, in.ProductID, []*entity.InventoryRecord{rec}, []*entity.MovementRecord{mov}), nil
}

// Transfer mueve Quantity de la bodega origen a la destino en una sola transacción:
// ambos registros cambian o ninguno. Registra OUT en origen e IN en destino con
// el mismo TransactionID.
func (s *StockService) Transfer(ctx context.Context, in TransferInput) (*dto.StockOperationResponse, error) {
	if err := ledger.ValidateQuantity(in.Quantity); err != nil {
		return nil, s.rejected("transfer", err, in.ProductID, in.FromWarehouseID, in.Quantity)
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, s.rejected("transfer", domain.ErrSameWarehouseTransfer, in.ProductID, in.FromWarehouseID, in.Quantity)
	}
	if err := s.CheckCatalog(ctx, in.ProductID, in.FromWarehouseID, in.ToWarehouseID); err != nil {
		return nil, s.rejected("transfer", err, in.ProductID, in.FromWarehouseID, in.Quantity)
	}
	txID := uuid.New().String()

	var (
		recs []*entity.InventoryRecord
		movs []*entity.MovementRecord
	)
	err := s.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		recs, movs, err = s.transferInTx(ctx, repos, in, s.now(), txID)
		return err
	})
	if err != nil {
		return nil, s.rejected("transfer", err, in.ProductID, in.FromWarehouseID, in.Quantity)
	}
	s.log.Debug().
		Str("op", "transfer").
		Str("transaction_id", txID).
		Str("product_id", in.ProductID).
		Str("from_warehouse_id", in.FromWarehouseID).
		Str("to_warehouse_id", in.ToWarehouseID).
		Int64("quantity", in.Quantity).
		Int64("from_quantity", recs[0].Quantity).
		Int64("to_quantity", recs[1].Quantity).
		Msg("operación de stock confirmada")
	return toStockResponse(txID, in.ProductID, recs, movs), nil
}

// ReceiveInTx ejecuta una entrada usando los repositorios de la transacción del caller
// (órdenes de compra). No valida el catálogo.
func (s *StockService) ReceiveInTx(ctx context.Context, repos TxRepos, in ReceiveInput, now time.Time) (*entity.InventoryRecord, *entity.MovementRecord, error) {
	if err := ledger.ValidateQuantity(in.Quantity); err != nil {
		return nil, nil, err
	}
	rec, err := NewLedger(repos.Inventory).Adjust(ctx, in.ProductID, in.WarehouseID, in.Quantity, now)
	if err != nil {
		return nil, nil, err
	}
	if in.BatchNumber != "" || in.ExpiryDate != nil {
		rec.BatchNumber = in.BatchNumber
		rec.ExpiryDate = in.ExpiryDate
		if err := repos.Inventory.Update(ctx, rec); err != nil {
			return nil, nil, err
		}
	}
	mov, err := NewMovementLog(repos.Movements).Append(ctx, in.ProductID, in.WarehouseID, entity.MovementIn, in.Quantity, in.TransactionID, in.UserID, now)
	if err != nil {
		return nil, nil, err
	}
	return rec, mov, nil
}

// SellInTx ejecuta una salida usando los repositorios de la transacción del caller
// (órdenes de venta). No valida el catálogo.
func (s *StockService) SellInTx(ctx context.Context, repos TxRepos, in SellInput, now time.Time) (*entity.InventoryRecord, *entity.MovementRecord, error) {
	if err := ledger.ValidateQuantity(in.Quantity); err != nil {
		return nil, nil, err
	}
	rec, err := NewLedger(repos.Inventory).Adjust(ctx, in.ProductID, in.WarehouseID, -in.Quantity, now)
	if err != nil {
		return nil, nil, err
	}
	mov, err := NewMovementLog(repos.Movements).Append(ctx, in.ProductID, in.WarehouseID, entity.MovementOut, in.Quantity, in.TransactionID, in.UserID, now)
	if err != nil {
		return nil, nil, err
	}
	return rec, mov, nil
}

func (s *StockService) transferInTx(ctx context.Context, repos TxRepos, in TransferInput, now time.Time, txID string) ([]*entity.InventoryRecord, []*entity.MovementRecord, error) {
	led := NewLedger(repos.Inventory)
	if err := led.Lock(ctx,
		ledger.Key{ProductID: in.ProductID, WarehouseID: in.FromWarehouseID},
		ledger.Key{ProductID: in.ProductID, WarehouseID: in.ToWarehouseID},
	); err != nil {
		return nil, nil, err
	}

	src, err := led.Adjust(ctx, in.ProductID, in.FromWarehouseID, -in.Quantity, now)
	if err != nil {
		return nil, nil, err
	}
	dst, err := led.Adjust(ctx, in.ProductID, in.ToWarehouseID, in.Quantity, now)
	if err != nil {
		return nil, nil, err
	}

	movLog := NewMovementLog(repos.Movements)
	outMov, err := movLog.Append(ctx, in.ProductID, in.FromWarehouseID, entity.MovementOut, in.Quantity, txID, in.UserID, now)
	if err != nil {
		return nil, nil, err
	}
	inMov, err := movLog.Append(ctx, in.ProductID, in.ToWarehouseID, entity.MovementIn, in.Quantity, txID, in.UserID, now)
	if err != nil {
		return nil, nil, err
	}
	return []*entity.InventoryRecord{src, dst}, []*entity.MovementRecord{outMov, inMov}, nil
}

// CheckCatalog verifica que el producto y las bodegas existan (ErrNotFound si no).
func (s *StockService) CheckCatalog(ctx context.Context, productID string, warehouseIDs ...string) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	for _, id := range warehouseIDs {
		if id == "" {
			return domain.ErrInvalidInput
		}
		wh, err := s.warehouseRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (s *StockService) committed(op, txID, productID string, quantity int64, rec *entity.InventoryRecord) {
	s.log.Debug().
		Str("op", op).
		Str("transaction_id", txID).
		Str("product_id", productID).
		Str("warehouse_id", rec.WarehouseID).
		Int64("quantity", quantity).
		Int64("new_quantity", rec.Quantity).
		Msg("operación de stock confirmada")
}

// rejected registra el rechazo y devuelve err sin modificar.
func (s *StockService) rejected(op string, err error, productID, warehouseID string, quantity int64) error {
	ev := s.log.Error()
	if IsRejection(err) {
		ev = s.log.Info()
	}
	ev.Err(err).
		Str("op", op).
		Str("product_id", productID).
		Str("warehouse_id", warehouseID).
		Int64("quantity", quantity).
		Msg("operación de stock rechazada")
	return err
}

// IsRejection indica si err es un rechazo esperado de negocio (no una falla de infraestructura).
func IsRejection(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidQuantity,
		domain.ErrInsufficientStock,
		domain.ErrProductNotStocked,
		domain.ErrSameWarehouseTransfer,
		domain.ErrPersistenceConflict,
		domain.ErrInvalidInput,
		domain.ErrNotFound,
		domain.ErrOrderNotPending,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
