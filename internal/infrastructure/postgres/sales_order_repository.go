package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo órdenes de venta (sales_orders + sales_items).
type SalesOrderRepo struct {
	q Querier
}

func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

func (r *SalesOrderRepo) Create(ctx context.Context, so *entity.SalesOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales_orders (id, customer_name, warehouse_id, total_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		so.ID, so.CustomerName, so.WarehouseID, so.TotalAmount, so.CreatedBy, so.CreatedAt,
	)
	if err != nil {
		return mapError("insert sales order", err)
	}
	for _, it := range so.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sales_items (id, sales_order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, so.ID, it.ProductID, it.Quantity, it.UnitPrice,
		)
		if err != nil {
			return mapError("insert sales item", err)
		}
	}
	return nil
}

func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	var so entity.SalesOrder
	err := r.q.QueryRow(ctx, `
		SELECT id, customer_name, warehouse_id, total_amount, created_by, created_at
		FROM sales_orders WHERE id = $1`, id,
	).Scan(&so.ID, &so.CustomerName, &so.WarehouseID, &so.TotalAmount, &so.CreatedBy, &so.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get sales order", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sales_order_id, product_id, quantity, unit_price
		FROM sales_items WHERE sales_order_id = $1`, id)
	if err != nil {
		return nil, mapError("list sales items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SalesItem
		if err := rows.Scan(&it.ID, &it.SalesOrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, mapError("scan sales item", err)
		}
		so.Items = append(so.Items, it)
	}
	return &so, rows.Err()
}
