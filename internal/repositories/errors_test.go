package repositories

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"rental-backend/internal/models"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate("op", nil))
	assert.True(t, errors.Is(translate("op", pgx.ErrNoRows), models.ErrNotFound))
	assert.True(t, errors.Is(translate("op", &pgconn.PgError{Code: "23505"}), models.ErrConflict))
	assert.True(t, errors.Is(translate("op", &pgconn.PgError{Code: "23503"}), models.ErrConflict))

	other := errors.New("connection reset")
	err := translate("list rentals", other)
	assert.True(t, errors.Is(err, other))
	assert.Contains(t, err.Error(), "list rentals")
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%asha%`, likePattern("asha"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.clause())

	w.add("(a ILIKE ? OR b ILIKE ?)", "%x%")
	w.add("c >= ?", 3)
	assert.Equal(t, " WHERE (a ILIKE $1 OR b ILIKE $1) AND c >= $2", w.clause())
	assert.Equal(t, "$3", w.next(10))
	assert.Equal(t, []any{"%x%", 3, 10}, w.args)
}
