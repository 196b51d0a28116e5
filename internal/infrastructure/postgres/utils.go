package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código SQLSTATE de Postgres para unique_violation.
const codeUniqueViolation = "23505"

// isUniqueViolation detecta choques contra las claves únicas del esquema
// (correo de usuario, nombre de servicio, correo+servicio de cuenta) para
// que los repos devuelvan domain.ErrDuplicate en vez del error crudo del driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
