package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación en memoria de InventoryRepository.
type InventoryRepo struct {
	scope
}

// NewInventoryRepository devuelve el repositorio en modo autocommit.
func NewInventoryRepository(store *Store) *InventoryRepo {
	return &InventoryRepo{scope: scope{store: store}}
}

func (r *InventoryRepo) read(t *tx, k recordKey) (entity.InventoryRecord, bool) {
	if rec, ok := t.records[k]; ok {
		return rec, true
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.records[k]
	return rec, ok
}

// Get devuelve (nil, nil) si el registro no existe.
func (r *InventoryRepo) Get(_ context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.run(func(t *tx) error {
		if rec, ok := r.read(t, recordKey{productID, warehouseID}); ok {
			c := cloneRecord(rec)
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate bloquea la clave aunque el registro aún no exista.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.run(func(t *tx) error {
		if err := t.lock(ctx, inventoryLockKey(productID, warehouseID)); err != nil {
			return err
		}
		if rec, ok := r.read(t, recordKey{productID, warehouseID}); ok {
			c := cloneRecord(rec)
			out = &c
		}
		return nil
	})
	return out, err
}

// GetOrCreateForUpdate crea el registro en cero bajo el mismo bloqueo si no existe.
func (r *InventoryRepo) GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string, now time.Time) (*entity.InventoryRecord, error) {
	var out entity.InventoryRecord
	err := r.run(func(t *tx) error {
		if err := t.lock(ctx, inventoryLockKey(productID, warehouseID)); err != nil {
			return err
		}
		k := recordKey{productID, warehouseID}
		rec, ok := r.read(t, k)
		if !ok {
			rec = entity.InventoryRecord{
				ID:          uuid.New().String(),
				ProductID:   productID,
				WarehouseID: warehouseID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			t.records[k] = rec
		}
		out = cloneRecord(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update persiste el registro; la cantidad nunca puede quedar negativa.
func (r *InventoryRepo) Update(ctx context.Context, record *entity.InventoryRecord) error {
	if record.Quantity < 0 {
		return fmt.Errorf("%w: cantidad negativa en %s/%s", domain.ErrInsufficientStock, record.ProductID, record.WarehouseID)
	}
	return r.run(func(t *tx) error {
		if err := t.lock(ctx, inventoryLockKey(record.ProductID, record.WarehouseID)); err != nil {
			return err
		}
		k := recordKey{record.ProductID, record.WarehouseID}
		if _, ok := r.read(t, k); !ok {
			return domain.ErrNotFound
		}
		t.records[k] = cloneRecord(*record)
		return nil
	})
}

// List ordena por bodega y producto.
func (r *InventoryRepo) List(_ context.Context, filter repository.InventoryFilter) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	err := r.run(func(t *tx) error {
		merged := r.snapshot(t)
		for _, rec := range merged {
			if filter.ProductID != "" && rec.ProductID != filter.ProductID {
				continue
			}
			if filter.WarehouseID != "" && rec.WarehouseID != filter.WarehouseID {
				continue
			}
			c := cloneRecord(rec)
			list = append(list, &c)
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].WarehouseID != list[j].WarehouseID {
				return list[i].WarehouseID < list[j].WarehouseID
			}
			return list[i].ProductID < list[j].ProductID
		})
		list = page(list, filter.Limit, filter.Offset)
		return nil
	})
	return list, err
}

// ListBelowReorderLevel devuelve quantity <= reorder_level, mayor déficit primero.
func (r *InventoryRepo) ListBelowReorderLevel(_ context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	var items []repository.LowStockItem
	err := r.run(func(t *tx) error {
		merged := r.snapshot(t)
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
		for _, rec := range merged {
			if warehouseID != "" && rec.WarehouseID != warehouseID {
				continue
			}
			p, ok := r.store.products[rec.ProductID]
			if !ok || rec.Quantity > p.ReorderLevel {
				continue
			}
			items = append(items, repository.LowStockItem{
				ProductID:     p.ID,
				SKU:           p.SKU,
				ProductName:   p.Name,
				WarehouseID:   rec.WarehouseID,
				WarehouseName: r.store.warehouses[rec.WarehouseID].Name,
				Quantity:      rec.Quantity,
				ReorderLevel:  p.ReorderLevel,
			})
		}
		return nil
	})
	sort.SliceStable(items, func(i, j int) bool {
		di := items[i].ReorderLevel - items[i].Quantity
		dj := items[j].ReorderLevel - items[j].Quantity
		if di != dj {
			return di > dj
		}
		if items[i].SKU != items[j].SKU {
			return items[i].SKU < items[j].SKU
		}
		return items[i].WarehouseID < items[j].WarehouseID
	})
	return items, err
}

// snapshot combina lo confirmado con lo escrito en t.
func (r *InventoryRepo) snapshot(t *tx) map[recordKey]entity.InventoryRecord {
	r.store.mu.RLock()
	merged := make(map[recordKey]entity.InventoryRecord, len(r.store.records)+len(t.records))
	for k, v := range r.store.records {
		merged[k] = v
	}
	r.store.mu.RUnlock()
	for k, v := range t.records {
		merged[k] = v
	}
	return merged
}
