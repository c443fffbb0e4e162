package memory

import (
	"context"

	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
	_ repository.SalesOrderRepository    = (*SalesOrderRepo)(nil)
)

// PurchaseOrderRepo órdenes de compra en memoria.
type PurchaseOrderRepo struct {
	scope
}

// NewPurchaseOrderRepository devuelve el repositorio en modo autocommit.
func NewPurchaseOrderRepository(store *Store) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{scope: scope{store: store}}
}

func (r *PurchaseOrderRepo) read(t *tx, id string) (entity.PurchaseOrder, bool) {
	if po, ok := t.purchases[id]; ok {
		return po, true
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	po, ok := r.store.purchases[id]
	return po, ok
}

func (r *PurchaseOrderRepo) Create(_ context.Context, order *entity.PurchaseOrder) error {
	return r.run(func(t *tx) error {
		if _, ok := r.read(t, order.ID); ok {
			return domain.ErrDuplicate
		}
		t.purchases[order.ID] = clonePurchase(*order)
		return nil
	})
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.run(func(t *tx) error {
		if po, ok := r.read(t, id); ok {
			c := clonePurchase(po)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.run(func(t *tx) error {
		if err := t.lock(ctx, purchaseLockKey(id)); err != nil {
			return err
		}
		if po, ok := r.read(t, id); ok {
			c := clonePurchase(po)
			out = &c
		}
		return nil
	})
	return out, err
}

// UpdateStatus persiste Status, ReceivedAt y UpdatedAt; los ítems no cambian.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, order *entity.PurchaseOrder) error {
	return r.run(func(t *tx) error {
		if err := t.lock(ctx, purchaseLockKey(order.ID)); err != nil {
			return err
		}
		cur, ok := r.read(t, order.ID)
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = order.Status
		cur.ReceivedAt = order.ReceivedAt
		cur.UpdatedAt = order.UpdatedAt
		t.purchases[order.ID] = clonePurchase(cur)
		return nil
	})
}

// SalesOrderRepo órdenes de venta en memoria.
type SalesOrderRepo struct {
	scope
}

// NewSalesOrderRepository devuelve el repositorio en modo autocommit.
func NewSalesOrderRepository(store *Store) *SalesOrderRepo {
	return &SalesOrderRepo{scope: scope{store: store}}
}

func (r *SalesOrderRepo) Create(_ context.Context, order *entity.SalesOrder) error {
	return r.run(func(t *tx) error {
		if _, ok := t.sales[order.ID]; ok {
			return domain.ErrDuplicate
		}
		r.store.mu.RLock()
		_, exists := r.store.sales[order.ID]
		r.store.mu.RUnlock()
		if exists {
			return domain.ErrDuplicate
		}
		t.sales[order.ID] = cloneSales(*order)
		return nil
	})
}

func (r *SalesOrderRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	err := r.run(func(t *tx) error {
		so, ok := t.sales[id]
		if !ok {
			r.store.mu.RLock()
			so, ok = r.store.sales[id]
			r.store.mu.RUnlock()
		}
		if ok {
			c := cloneSales(so)
			out = &c
		}
		return nil
	})
	return out, err
}
