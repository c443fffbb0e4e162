package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra (purchase_orders + purchase_items).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Create necesita una tx para ser atómico con los ítems.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, supplier_id, warehouse_id, status, total_cost, created_by, created_at, updated_at, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		po.ID, po.SupplierID, po.WarehouseID, po.Status, po.TotalCost, po.CreatedBy,
		po.CreatedAt, po.UpdatedAt, po.ReceivedAt,
	)
	if err != nil {
		return mapError("insert purchase order", err)
	}
	for _, it := range po.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_items (id, purchase_order_id, product_id, quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, po.ID, it.ProductID, it.Quantity, it.UnitCost,
		)
		if err != nil {
			return mapError("insert purchase item", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate bloquea la cabecera de la orden; los ítems no cambian después de creados.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id, lock string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.q.QueryRow(ctx, `
		SELECT id, supplier_id, warehouse_id, status, total_cost, created_by, created_at, updated_at, received_at
		FROM purchase_orders WHERE id = $1`+lock, id,
	).Scan(&po.ID, &po.SupplierID, &po.WarehouseID, &po.Status, &po.TotalCost, &po.CreatedBy,
		&po.CreatedAt, &po.UpdatedAt, &po.ReceivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get purchase order", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, product_id, quantity, unit_cost
		FROM purchase_items WHERE purchase_order_id = $1 ORDER BY product_id`, id)
	if err != nil {
		return nil, mapError("list purchase items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity, &it.UnitCost); err != nil {
			return nil, mapError("scan purchase item", err)
		}
		po.Items = append(po.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list purchase items", err)
	}
	return &po, nil
}

// UpdateStatus persiste status, received_at y updated_at.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, po *entity.PurchaseOrder) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, received_at = $3, updated_at = $4 WHERE id = $1`,
		po.ID, po.Status, po.ReceivedAt, po.UpdatedAt,
	)
	if err != nil {
		return mapError("update purchase order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
