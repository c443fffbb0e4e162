package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo historial de movimientos (stock_movements). Solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el movimiento.
func (r *MovementRepo) Append(ctx context.Context, m *entity.MovementRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, transaction_id, product_id, warehouse_id, movement_type, quantity, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.TransactionID, m.ProductID, m.WarehouseID, string(m.Type), m.Quantity, m.CreatedBy, m.CreatedAt,
	)
	return mapError("insert stock movement", err)
}

// List aplica los filtros no vacíos; del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.MovementRecord, error) {
	query := `
		SELECT id, transaction_id, product_id, warehouse_id, movement_type, quantity, created_by, created_at
		FROM stock_movements WHERE 1=1`
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.Type != "" {
		add("movement_type = $%d", string(f.Type))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT NULLIF($%d, 0) OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		var (
			m       entity.MovementRecord
			movType string
		)
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductID, &m.WarehouseID, &movType,
			&m.Quantity, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, mapError("scan stock movement", err)
		}
		m.Type = entity.MovementType(movType)
		list = append(list, &m)
	}
	return list, rows.Err()
}
