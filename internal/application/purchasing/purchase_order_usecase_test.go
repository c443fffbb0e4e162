package purchasing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/application/purchasing"
	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/memory"
)

func setup(t *testing.T) (*memory.Repositories, *purchasing.PurchaseOrderUseCase) {
	t.Helper()
	repos := memory.New()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "Arroz", CostPrice: decimal.NewFromInt(3)}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "B", Name: "Frijol", CostPrice: decimal.NewFromInt(5)}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "Central"}))
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "s1", Name: "Agro SAS"}))

	stock := inventory.NewStockService(repos.TxRunner, repos.Products, repos.Warehouses, zerolog.Nop())
	uc := purchasing.NewPurchaseOrderUseCase(repos.TxRunner, stock, repos.Purchases, repos.Suppliers, repos.Products, repos.Warehouses, zerolog.Nop())
	return repos, uc
}

func qty(t *testing.T, repos *memory.Repositories, productID string) int64 {
	t.Helper()
	q, err := inventory.NewLedger(repos.Inventory).Get(context.Background(), productID, "w1")
	require.NoError(t, err)
	return q
}

func TestPurchaseOrder_CrearYRecibir(t *testing.T) {
	repos, uc := setup(t)
	ctx := context.Background()

	po, err := uc.Create(ctx, "u1", dto.CreatePurchaseOrderRequest{
		SupplierID:  "s1",
		WarehouseID: "w1",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p2", Quantity: 4, UnitCost: decimal.RequireFromString("2.50")},
			{ProductID: "p1", Quantity: 10, UnitCost: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusPending, po.Status)
	assert.True(t, decimal.NewFromInt(40).Equal(po.TotalCost))
	assert.Equal(t, int64(0), qty(t, repos, "p1"), "crear la orden no mueve inventario")

	received, err := uc.Receive(ctx, "u1", po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusReceived, received.Status)
	assert.NotNil(t, received.ReceivedAt)
	assert.Equal(t, int64(10), qty(t, repos, "p1"))
	assert.Equal(t, int64(4), qty(t, repos, "p2"))

	movs, err := repos.Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, po.ID, m.TransactionID)
		assert.Equal(t, entity.MovementIn, m.Type)
	}
}

func TestPurchaseOrder_NoSeRecibeDosVeces(t *testing.T) {
	repos, uc := setup(t)
	ctx := context.Background()
	po, err := uc.Create(ctx, "u1", dto.CreatePurchaseOrderRequest{
		SupplierID: "s1", WarehouseID: "w1",
		Items: []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: 10, UnitCost: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)

	_, err = uc.Receive(ctx, "u1", po.ID)
	require.NoError(t, err)
	_, err = uc.Receive(ctx, "u1", po.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotPending)
	assert.Equal(t, int64(10), qty(t, repos, "p1"))
}

func TestPurchaseOrder_RecepcionesConcurrentesAplicanUnaSolaVez(t *testing.T) {
	repos, uc := setup(t)
	ctx := context.Background()
	po, err := uc.Create(ctx, "u1", dto.CreatePurchaseOrderRequest{
		SupplierID: "s1", WarehouseID: "w1",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 10, UnitCost: decimal.NewFromInt(3)},
			{ProductID: "p2", Quantity: 4, UnitCost: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Receive(ctx, "u1", po.ID)
		}(i)
	}
	wg.Wait()

	var ok, notPending int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrOrderNotPending):
			notPending++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, notPending)
	assert.Equal(t, int64(10), qty(t, repos, "p1"))
	assert.Equal(t, int64(4), qty(t, repos, "p2"))

	movs, err := repos.Movements.List(ctx, repository.MovementFilter{Type: entity.MovementIn})
	require.NoError(t, err)
	assert.Len(t, movs, 2, "un solo juego de entradas por orden")
}

func TestPurchaseOrder_CanceladaNoSeRecibe(t *testing.T) {
	repos, uc := setup(t)
	ctx := context.Background()
	po, err := uc.Create(ctx, "u1", dto.CreatePurchaseOrderRequest{
		SupplierID: "s1", WarehouseID: "w1",
		Items: []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: 1, UnitCost: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)

	cancelled, err := uc.Cancel(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCancelled, cancelled.Status)

	_, err = uc.Receive(ctx, "u1", po.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotPending)
	assert.Equal(t, int64(0), qty(t, repos, "p1"))
}

func TestPurchaseOrder_Validaciones(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "u1", dto.CreatePurchaseOrderRequest{SupplierID: "s1", WarehouseID: "w1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "u1", dto.CreatePurchaseOrderRequest{
		SupplierID: "s1", WarehouseID: "w1",
		Items: []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Create(ctx, "u1", dto.CreatePurchaseOrderRequest{
		SupplierID: "s1", WarehouseID: "w1",
		Items: []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: 1, UnitCost: decimal.NewFromInt(-1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "u1", dto.CreatePurchaseOrderRequest{
		SupplierID: "nadie", WarehouseID: "w1",
		Items: []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Receive(ctx, "u1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseOrder_RecepcionDirectaConProveedor(t *testing.T) {
	repos, uc := setup(t)
	ctx := context.Background()

	res, err := uc.ReceiveDirect(ctx, "u1", dto.ReceiveRequest{ProductID: "p1", WarehouseID: "w1", Quantity: 6, SupplierID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.QuantityOf("w1"))

	po, err := uc.Get(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusReceived, po.Status)
	assert.True(t, decimal.NewFromInt(18).Equal(po.TotalCost))
	assert.Equal(t, int64(6), qty(t, repos, "p1"))
}
