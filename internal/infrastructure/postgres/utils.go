package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/labquim/labstock-api/internal/domain"
)

// Códigos SQLSTATE relevantes para el motor.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isForeignKeyViolation verifica si un error es una violación de FK
// (producto o laboratorio inexistente al insertar en el libro).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// isSerializationFailure verifica si la tx no pudo serializarse contra otra
// concurrente (o terminó en deadlock); el caso de uso reintenta acotado.
func isSerializationFailure(err error) bool {
	code := pgCode(err)
	return code == codeSerializationFailure || code == codeDeadlockDetected
}

// mapError traduce errores de pgx a errores de dominio, preservando la causa.
func mapError(err error) error {
	switch {
	case isForeignKeyViolation(err):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isSerializationFailure(err):
		return domain.ErrConcurrencyConflict
	default:
		return err
	}
}
