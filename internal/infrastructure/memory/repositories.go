package memory

import "github.com/jhoicas/bodega-ledger/internal/domain/repository"

// Repositories agrupa los adaptadores en memoria listos para inyectar.
type Repositories struct {
	Store      *Store
	TxRunner   *TxRunner
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
	Suppliers  repository.SupplierRepository
	Users      repository.UserRepository
	Inventory  repository.InventoryRepository
	Movements  repository.MovementRepository
	Purchases  repository.PurchaseOrderRepository
	Sales      repository.SalesOrderRepository
}

// New construye un store vacío con todos sus repositorios.
func New() *Repositories {
	s := NewStore()
	return &Repositories{
		Store:      s,
		TxRunner:   NewTxRunner(s),
		Products:   NewProductRepository(s),
		Warehouses: NewWarehouseRepository(s),
		Suppliers:  NewSupplierRepository(s),
		Users:      NewUserRepository(s),
		Inventory:  NewInventoryRepository(s),
		Movements:  NewMovementRepository(s),
		Purchases:  NewPurchaseOrderRepository(s),
		Sales:      NewSalesOrderRepository(s),
	}
}
