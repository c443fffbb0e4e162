package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.SupplierRepository  = (*SupplierRepo)(nil)
	_ repository.UserRepository      = (*UserRepo)(nil)
)

// ProductRepo catálogo de productos en memoria.
type ProductRepo struct{ store *Store }

func NewProductRepository(store *Store) *ProductRepo { return &ProductRepo{store: store} }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.products {
		if p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.RLock()
	list := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		p := p
		list = append(list, &p)
	}
	r.store.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return page(list, limit, offset), nil
}

// Delete elimina el producto y en cascada sus registros, movimientos e ítems de órdenes.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	for k := range s.records {
		if k.productID == id {
			delete(s.records, k)
		}
	}
	s.movements = filterMovements(s.movements, func(m entity.MovementRecord) bool { return m.ProductID != id })
	for poID, po := range s.purchases {
		kept := po.Items[:0:0]
		for _, it := range po.Items {
			if it.ProductID != id {
				kept = append(kept, it)
			}
		}
		po.Items = kept
		s.purchases[poID] = po
	}
	for soID, so := range s.sales {
		kept := so.Items[:0:0]
		for _, it := range so.Items {
			if it.ProductID != id {
				kept = append(kept, it)
			}
		}
		so.Items = kept
		s.sales[soID] = so
	}
	return nil
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ store *Store }

func NewWarehouseRepository(store *Store) *WarehouseRepo { return &WarehouseRepo{store: store} }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[w.ID]; ok {
		return domain.ErrDuplicate
	}
	s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	w, ok := r.store.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[w.ID]; !ok {
		return domain.ErrNotFound
	}
	s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	r.store.mu.RLock()
	list := make([]*entity.Warehouse, 0, len(r.store.warehouses))
	for _, w := range r.store.warehouses {
		w := w
		list = append(list, &w)
	}
	r.store.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

// Delete elimina la bodega y en cascada sus registros, movimientos y órdenes.
func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.warehouses, id)
	for k := range s.records {
		if k.warehouseID == id {
			delete(s.records, k)
		}
	}
	s.movements = filterMovements(s.movements, func(m entity.MovementRecord) bool { return m.WarehouseID != id })
	for poID, po := range s.purchases {
		if po.WarehouseID == id {
			delete(s.purchases, poID)
		}
	}
	for soID, so := range s.sales {
		if so.WarehouseID == id {
			delete(s.sales, soID)
		}
	}
	return nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ store *Store }

func NewSupplierRepository(store *Store) *SupplierRepo { return &SupplierRepo{store: store} }

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[sp.ID]; ok {
		return domain.ErrDuplicate
	}
	s.suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sp, ok := r.store.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	s.suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	r.store.mu.RLock()
	list := make([]*entity.Supplier, 0, len(r.store.suppliers))
	for _, sp := range r.store.suppliers {
		sp := sp
		list = append(list, &sp)
	}
	r.store.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

// Delete elimina el proveedor y sus órdenes de compra.
func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.suppliers, id)
	for poID, po := range s.purchases {
		if po.SupplierID == id {
			delete(s.purchases, poID)
		}
	}
	return nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ store *Store }

func NewUserRepository(store *Store) *UserRepo { return &UserRepo{store: store} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func filterMovements(in []entity.MovementRecord, keep func(entity.MovementRecord) bool) []entity.MovementRecord {
	out := in[:0]
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
