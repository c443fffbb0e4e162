package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/bodega-ledger/internal/domain"
)

// SQLSTATE relevantes.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeForeignKeyViolation  = "23503"
)

// constraint que impide cantidades negativas en inventory_records.
const quantityCheckConstraint = "inventory_records_quantity_check"

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapError traduce errores de PostgreSQL a errores de dominio. op describe la
// operación para el mensaje ("insert product", "commit transaction", ...).
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%s: %w (sqlstate %s)", op, domain.ErrPersistenceConflict, pgErr.Code)
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case codeCheckViolation:
		if pgErr.ConstraintName == quantityCheckConstraint {
			return fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
		}
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
