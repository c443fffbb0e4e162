// Package memory implementa los puertos de persistencia en proceso. Las
// transacciones bloquean por clave, acumulan escrituras y las aplican de una
// vez al confirmar; un rollback las descarta sin efectos visibles.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
)

type recordKey struct {
	productID   string
	warehouseID string
}

// Store es la base de datos en memoria compartida por todos los repositorios.
type Store struct {
	mu         sync.RWMutex
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	suppliers  map[string]entity.Supplier
	users      map[string]entity.User
	records    map[recordKey]entity.InventoryRecord
	movements  []entity.MovementRecord
	purchases  map[string]entity.PurchaseOrder
	sales      map[string]entity.SalesOrder

	locks keyLocks
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		suppliers:  make(map[string]entity.Supplier),
		users:      make(map[string]entity.User),
		records:    make(map[recordKey]entity.InventoryRecord),
		purchases:  make(map[string]entity.PurchaseOrder),
		sales:      make(map[string]entity.SalesOrder),
		locks:      keyLocks{m: make(map[string]chan struct{})},
	}
}

// keyLocks es un mutex por clave cuya espera respeta la cancelación del contexto.
type keyLocks struct {
	mu sync.Mutex
	m  map[string]chan struct{}
}

func (k *keyLocks) acquire(ctx context.Context, key string) error {
	k.mu.Lock()
	ch, ok := k.m[key]
	if !ok {
		ch = make(chan struct{}, 1)
		k.m[key] = ch
	}
	k.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: esperando bloqueo de %s: %v", domain.ErrPersistenceConflict, key, ctx.Err())
	}
}

func (k *keyLocks) release(key string) {
	k.mu.Lock()
	ch := k.m[key]
	k.mu.Unlock()
	<-ch
}

func inventoryLockKey(productID, warehouseID string) string {
	return "inventory:" + productID + "/" + warehouseID
}

func purchaseLockKey(id string) string {
	return "purchase:" + id
}

func clonePurchase(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Items = append([]entity.PurchaseItem(nil), po.Items...)
	if po.ReceivedAt != nil {
		t := *po.ReceivedAt
		po.ReceivedAt = &t
	}
	return po
}

func cloneSales(so entity.SalesOrder) entity.SalesOrder {
	so.Items = append([]entity.SalesItem(nil), so.Items...)
	return so
}

func cloneRecord(r entity.InventoryRecord) entity.InventoryRecord {
	if r.ExpiryDate != nil {
		t := *r.ExpiryDate
		r.ExpiryDate = &t
	}
	return r
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
