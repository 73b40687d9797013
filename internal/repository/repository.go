package repository

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"go-product-api/pkg/apierror"
)

const uniqueViolationCode = "23505"

// storeError logs the full cause server-side and returns a generic
// STORE_ERROR so infrastructure detail never reaches clients.
func storeError(op string, err error) error {
	slog.Error("store failure", "op", op, "error", err)
	return apierror.New("STORE_ERROR", "storage unavailable", "", http.StatusInternalServerError)
}

// uniqueViolation reports the violated constraint name when err is a
// Postgres unique-constraint error.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}
