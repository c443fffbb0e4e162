package alerting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-ledger/internal/application/alerting"
	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/memory"
)

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) NotifyLowStock(ctx context.Context, items []dto.LowStockItemDTO) error {
	return m.Called(ctx, items).Error(0)
}

func seed(t *testing.T) *memory.Repositories {
	t.Helper()
	repos := memory.New()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "Arroz", ReorderLevel: 10}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "B", Name: "Frijol", ReorderLevel: 10}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "Central"}))

	svc := inventory.NewStockService(repos.TxRunner, repos.Products, repos.Warehouses, zerolog.Nop())
	_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: "p1", WarehouseID: "w1", Quantity: 10})
	require.NoError(t, err)
	_, err = svc.Receive(ctx, inventory.ReceiveInput{ProductID: "p2", WarehouseID: "w1", Quantity: 11})
	require.NoError(t, err)
	return repos
}

func TestFindLowStock_IncluyeIgualAlNivelDeReorden(t *testing.T) {
	repos := seed(t)
	uc := alerting.NewLowStockUseCase(repos.Inventory, nil, zerolog.Nop())

	items, err := uc.FindLowStock(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, int64(10), items[0].SuggestedOrderQty)
}

func TestNotifyLowStock_EnviaUnaAlerta(t *testing.T) {
	repos := seed(t)
	n := new(notifierMock)
	n.On("NotifyLowStock", mock.Anything, mock.MatchedBy(func(items []dto.LowStockItemDTO) bool {
		return len(items) == 1 && items[0].SKU == "A"
	})).Return(nil).Once()

	uc := alerting.NewLowStockUseCase(repos.Inventory, n, zerolog.Nop())
	resp, err := uc.NotifyLowStock(context.Background(), "w1")
	require.NoError(t, err)
	assert.True(t, resp.Notified)
	n.AssertExpectations(t)
}

func TestNotifyLowStock_SinProductosNoNotifica(t *testing.T) {
	repos := memory.New()
	n := new(notifierMock)
	uc := alerting.NewLowStockUseCase(repos.Inventory, n, zerolog.Nop())

	resp, err := uc.NotifyLowStock(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, resp.Notified)
	n.AssertNotCalled(t, "NotifyLowStock", mock.Anything, mock.Anything)
}

func TestNotifyLowStock_PropagaErrorDelCanal(t *testing.T) {
	repos := seed(t)
	n := new(notifierMock)
	n.On("NotifyLowStock", mock.Anything, mock.Anything).Return(errors.New("smtp caído"))

	uc := alerting.NewLowStockUseCase(repos.Inventory, n, zerolog.Nop())
	resp, err := uc.NotifyLowStock(context.Background(), "")
	assert.Error(t, err)
	assert.False(t, resp.Notified)
}
