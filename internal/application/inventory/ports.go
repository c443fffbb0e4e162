package inventory

import (
	"context"

	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Inventory repository.InventoryRepository
	Movements repository.MovementRepository
	Purchases repository.PurchaseOrderRepository
	Sales     repository.SalesOrderRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se descarta todo lo escrito; si no, se confirma de forma atómica.
// Un fallo de serialización o de bloqueo se reporta como domain.ErrPersistenceConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
