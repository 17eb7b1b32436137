package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/salidas-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isContention verifica si un error es un conflicto transaccional reintentable:
// serialization_failure (40001), deadlock_detected (40P01) o lock_not_available (55P03).
func isContention(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}

// mapTxError traduce conflictos transaccionales a domain.ErrContention para que
// el caller sepa que puede reintentar la operación completa.
func mapTxError(err error) error {
	if err == nil {
		return nil
	}
	if isContention(err) {
		return domain.ErrContention
	}
	return err
}
