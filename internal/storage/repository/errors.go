package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// mapError переводит ошибки драйвера в доменные ошибки models.
// Неизвестные ошибки возвращаются как есть.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: record already exists (%s)", models.ErrConflict, pgErr.ConstraintName)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: referenced record does not exist (%s)", models.ErrValidation, pgErr.ConstraintName)
	case pgerrcode.InvalidTextRepresentation:
		// некорректный uuid не может ссылаться на существующую запись
		return models.ErrNotFound
	case pgerrcode.NotNullViolation, pgerrcode.CheckViolation:
		return fmt.Errorf("%w: invalid value for %s", models.ErrValidation, pgErr.ColumnName)
	}
	return err
}
