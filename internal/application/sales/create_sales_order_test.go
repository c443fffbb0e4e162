package sales_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/application/sales"
	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/memory"
)

func setup(t *testing.T) (*memory.Repositories, *sales.CreateSalesOrderUseCase) {
	t.Helper()
	repos := memory.New()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "Arroz", SellingPrice: decimal.NewFromInt(4)}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "B", Name: "Frijol", SellingPrice: decimal.NewFromInt(7)}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "Central"}))

	stock := inventory.NewStockService(repos.TxRunner, repos.Products, repos.Warehouses, zerolog.Nop())
	for id, q := range map[string]int64{"p1": 10, "p2": 2} {
		_, err := stock.Receive(ctx, inventory.ReceiveInput{ProductID: id, WarehouseID: "w1", Quantity: q})
		require.NoError(t, err)
	}
	uc := sales.NewCreateSalesOrderUseCase(repos.TxRunner, stock, repos.Sales, repos.Products, repos.Warehouses, zerolog.Nop())
	return repos, uc
}

func qty(t *testing.T, repos *memory.Repositories, productID string) int64 {
	t.Helper()
	q, err := inventory.NewLedger(repos.Inventory).Get(context.Background(), productID, "w1")
	require.NoError(t, err)
	return q
}

func TestCreateSalesOrder_DescuentaYTotaliza(t *testing.T) {
	repos, uc := setup(t)
	ctx := context.Background()
	custom := decimal.RequireFromString("6.50")

	order, err := uc.Create(ctx, "u1", dto.CreateSalesOrderRequest{
		CustomerName: "Tienda La 14",
		WarehouseID:  "w1",
		Items: []dto.SalesItemRequest{
			{ProductID: "p1", Quantity: 3},
			{ProductID: "p2", Quantity: 2, UnitPrice: &custom},
		},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(order.TotalAmount), "3*4 + 2*6.50")
	assert.Equal(t, "Arroz", order.Items[0].ProductName)
	assert.Equal(t, int64(7), qty(t, repos, "p1"))
	assert.Equal(t, int64(0), qty(t, repos, "p2"))

	stored, err := uc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)

	outs, err := repos.Movements.List(ctx, repository.MovementFilter{Type: entity.MovementOut})
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, order.ID, outs[0].TransactionID)
}

func TestCreateSalesOrder_UnaLineaSinStockRevierteTodo(t *testing.T) {
	repos, uc := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "u1", dto.CreateSalesOrderRequest{
		CustomerName: "Tienda",
		WarehouseID:  "w1",
		Items: []dto.SalesItemRequest{
			{ProductID: "p1", Quantity: 5},
			{ProductID: "p2", Quantity: 3},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), qty(t, repos, "p1"), "la primera línea no debe quedar descontada")
	assert.Equal(t, int64(2), qty(t, repos, "p2"))

	outs, err := repos.Movements.List(ctx, repository.MovementFilter{Type: entity.MovementOut})
	require.NoError(t, err)
	assert.Empty(t, outs)
}

func TestCreateSalesOrder_Validaciones(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "u1", dto.CreateSalesOrderRequest{WarehouseID: "w1", Items: []dto.SalesItemRequest{{ProductID: "p1", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "u1", dto.CreateSalesOrderRequest{CustomerName: "x", WarehouseID: "w1", Items: []dto.SalesItemRequest{{ProductID: "p1", Quantity: -1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Create(ctx, "u1", dto.CreateSalesOrderRequest{CustomerName: "x", WarehouseID: "w9", Items: []dto.SalesItemRequest{{ProductID: "p1", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
