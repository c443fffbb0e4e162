package memory

import (
	"context"

	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// tx guarda los bloqueos tomados y las escrituras pendientes de una transacción.
type tx struct {
	store     *Store
	held      map[string]struct{}
	heldOrder []string
	records   map[recordKey]entity.InventoryRecord
	movements []entity.MovementRecord
	purchases map[string]entity.PurchaseOrder
	sales     map[string]entity.SalesOrder
}

func newTx(s *Store) *tx {
	return &tx{
		store:     s,
		held:      make(map[string]struct{}),
		records:   make(map[recordKey]entity.InventoryRecord),
		purchases: make(map[string]entity.PurchaseOrder),
		sales:     make(map[string]entity.SalesOrder),
	}
}

// lock es reentrante dentro de la misma transacción.
func (t *tx) lock(ctx context.Context, key string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	if err := t.store.locks.acquire(ctx, key); err != nil {
		return err
	}
	t.held[key] = struct{}{}
	t.heldOrder = append(t.heldOrder, key)
	return nil
}

func (t *tx) release() {
	for i := len(t.heldOrder) - 1; i >= 0; i-- {
		t.store.locks.release(t.heldOrder[i])
	}
	t.held = nil
	t.heldOrder = nil
}

func (t *tx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, r := range t.records {
		s.records[k] = r
	}
	s.movements = append(s.movements, t.movements...)
	for id, po := range t.purchases {
		s.purchases[id] = po
	}
	for id, so := range t.sales {
		s.sales[id] = so
	}
}

// TxRunner ejecuta funciones en una transacción en memoria.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos atados a una transacción nueva; confirma si fn no falla.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	t := newTx(r.store)
	defer t.release()

	if err := fn(r.store.repos(t)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	t.commit()
	return nil
}

// repos devuelve los repositorios atados a t; t nil = autocommit por llamada.
func (s *Store) repos(t *tx) inventory.TxRepos {
	sc := scope{store: s, tx: t}
	return inventory.TxRepos{
		Inventory: &InventoryRepo{scope: sc},
		Movements: &MovementRepo{scope: sc},
		Purchases: &PurchaseOrderRepo{scope: sc},
		Sales:     &SalesOrderRepo{scope: sc},
	}
}

// scope ejecuta operaciones dentro de la transacción del repo o, si no hay,
// en una transacción propia que se confirma al terminar.
type scope struct {
	store *Store
	tx    *tx
}

func (sc scope) run(fn func(t *tx) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	t := newTx(sc.store)
	defer t.release()
	if err := fn(t); err != nil {
		return err
	}
	t.commit()
	return nil
}
