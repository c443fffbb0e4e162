package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const recordColumns = `id, product_id, warehouse_id, quantity, batch_number, expiry_date, created_at, updated_at`

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL. Los métodos
// ForUpdate solo tienen sentido dentro de una tx (pasar pgx.Tx como Querier).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene el registro sin bloquearlo.
func (r *InventoryRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	return r.getOne(ctx, `SELECT `+recordColumns+`
		FROM inventory_records WHERE product_id = $1 AND warehouse_id = $2`, productID, warehouseID)
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	return r.getOne(ctx, `SELECT `+recordColumns+`
		FROM inventory_records WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`, productID, warehouseID)
}

// GetOrCreateForUpdate inserta el registro en cero si falta y luego lo bloquea.
// Dos transacciones que crean el mismo par a la vez terminan bloqueando la misma fila.
func (r *InventoryRepo) GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string, now time.Time) (*entity.InventoryRecord, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_records (id, product_id, warehouse_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $4)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`,
		uuid.New().String(), productID, warehouseID, now,
	)
	if err != nil {
		return nil, mapError("create inventory record", err)
	}
	rec, err := r.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("create inventory record %s/%s: %w", productID, warehouseID, domain.ErrNotFound)
	}
	return rec, nil
}

// Update persiste cantidad, lote y vencimiento. El CHECK quantity >= 0 respalda la regla.
func (r *InventoryRepo) Update(ctx context.Context, rec *entity.InventoryRecord) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory_records
		SET quantity = $3, batch_number = $4, expiry_date = $5, updated_at = $6
		WHERE product_id = $1 AND warehouse_id = $2`,
		rec.ProductID, rec.WarehouseID, rec.Quantity, rec.BatchNumber, rec.ExpiryDate, rec.UpdatedAt,
	)
	if err != nil {
		return mapError("update inventory record", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ordena por bodega y producto; Limit 0 no limita.
func (r *InventoryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]*entity.InventoryRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+recordColumns+`
		FROM inventory_records
		WHERE ($1 = '' OR product_id = $1)
		  AND ($2 = '' OR warehouse_id = $2)
		ORDER BY warehouse_id, product_id
		LIMIT NULLIF($3, 0) OFFSET $4`,
		f.ProductID, f.WarehouseID, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, mapError("list inventory records", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, mapError("scan inventory record", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// ListBelowReorderLevel devuelve registros con quantity <= reorder_level, mayor déficit primero.
func (r *InventoryRepo) ListBelowReorderLevel(ctx context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.sku, p.name, w.id, w.name, ir.quantity, p.reorder_level
		FROM inventory_records ir
		JOIN products p   ON p.id = ir.product_id
		JOIN warehouses w ON w.id = ir.warehouse_id
		WHERE ir.quantity <= p.reorder_level
		  AND ($1 = '' OR w.id = $1)
		ORDER BY (p.reorder_level - ir.quantity) DESC, p.sku, w.id`, warehouseID)
	if err != nil {
		return nil, mapError("list low stock", err)
	}
	defer rows.Close()

	var items []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.ProductName, &it.WarehouseID, &it.WarehouseName,
			&it.Quantity, &it.ReorderLevel); err != nil {
			return nil, mapError("scan low stock item", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *InventoryRepo) getOne(ctx context.Context, query string, args ...any) (*entity.InventoryRecord, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get inventory record", err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	if err := row.Scan(&rec.ID, &rec.ProductID, &rec.WarehouseID, &rec.Quantity,
		&rec.BatchNumber, &rec.ExpiryDate, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
