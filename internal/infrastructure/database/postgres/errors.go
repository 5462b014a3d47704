package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// uniqueConstraint returns the violated unique constraint name, if any.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			return pgErr.ConstraintName, true
		}
		return "", false
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "duplicate key") {
		return errStr, true
	}
	return "", false
}
