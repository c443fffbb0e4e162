package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/application/sales"
	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
)

type generatorMock struct {
	mock.Mock
}

func (m *generatorMock) GenerateSalesReceipt(ctx context.Context, order *entity.SalesOrder, wh *entity.Warehouse, items []sales.SalesItemForPDF) ([]byte, error) {
	args := m.Called(ctx, order, wh, items)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func TestDownloadReceiptPDF(t *testing.T) {
	repos, uc := setup(t)
	ctx := context.Background()
	order, err := uc.Create(ctx, "u1", dto.CreateSalesOrderRequest{
		CustomerName: "Tienda", WarehouseID: "w1",
		Items: []dto.SalesItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	gen := new(generatorMock)
	gen.On("GenerateSalesReceipt", mock.Anything, mock.Anything, mock.Anything, mock.MatchedBy(func(items []sales.SalesItemForPDF) bool {
		return len(items) == 1 && items[0].ProductName == "Arroz" && items[0].SKU == "A"
	})).Return([]byte("%PDF-1.4"), nil)

	pdfUC := sales.NewPDFUseCase(repos.Sales, repos.Products, repos.Warehouses, gen)
	b, name, err := pdfUC.DownloadReceiptPDF(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), b)
	assert.Equal(t, "venta_"+order.ID+".pdf", name)

	_, _, err = pdfUC.DownloadReceiptPDF(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
