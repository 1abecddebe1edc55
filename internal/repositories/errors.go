package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rental-backend/internal/models"
)

// errNoRows is returned for writes that matched nothing
var errNoRows = pgx.ErrNoRows

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps driver errors onto the model error taxonomy
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, models.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: still referenced: %w", op, models.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// likePattern escapes LIKE wildcards so user input matches literally
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// whereBuilder accumulates numbered placeholder conditions
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends cond bound to v. Every "?" in cond refers to the same value.
func (w *whereBuilder) add(cond string, v any) {
	w.args = append(w.args, v)
	n := len(w.args)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", n)))
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder for an argument appended after the conditions
func (w *whereBuilder) next(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}
