package purchasing

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
)

// StockEngine es la parte del motor de stock que usan las compras: entradas dentro
// de la transacción de la orden.
type StockEngine interface {
	ReceiveInTx(ctx context.Context, repos inventory.TxRepos, in inventory.ReceiveInput, now time.Time) (*entity.InventoryRecord, *entity.MovementRecord, error)
}
