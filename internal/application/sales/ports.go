package sales

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
)

// StockEngine es la parte del motor de stock que usan las ventas: salidas dentro
// de la transacción de la orden.
type StockEngine interface {
	SellInTx(ctx context.Context, repos inventory.TxRepos, in inventory.SellInput, now time.Time) (*entity.InventoryRecord, *entity.MovementRecord, error)
}

// SalesItemForPDF línea de venta enriquecida con el nombre del producto para el comprobante.
type SalesItemForPDF struct {
	entity.SalesItem
	ProductName string
	SKU         string
}

// ReceiptPDFGenerator genera el comprobante PDF de una venta.
type ReceiptPDFGenerator interface {
	GenerateSalesReceipt(ctx context.Context, order *entity.SalesOrder, warehouse *entity.Warehouse, items []SalesItemForPDF) ([]byte, error)
}
