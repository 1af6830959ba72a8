package db_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/stash/internal/storage/db"
)

func TestPgErrorHelpers(t *testing.T) {
	fkErr := fmt.Errorf("insert stock: %w", &pgconn.PgError{Code: "23503", ConstraintName: "stocks_location_id_fkey"})
	checkErr := &pgconn.PgError{Code: "23514", ConstraintName: "stocks_amount_check"}

	assert.True(t, db.IsForeignKeyViolation(fkErr))
	assert.False(t, db.IsForeignKeyViolation(checkErr))
	assert.True(t, db.IsCheckViolation(checkErr))

	assert.Equal(t, "stocks_location_id_fkey", db.ForeignKeyConstraint(fkErr))
	assert.Empty(t, db.ForeignKeyConstraint(checkErr))
	assert.Empty(t, db.ForeignKeyConstraint(errors.New("connection reset")))
}
