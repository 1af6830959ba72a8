package repository

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForeignKeyErr(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"stocks_product_id_fkey", ErrInvalidProductReference},
		{"stocks_location_id_fkey", ErrInvalidLocationReference},
		{"", ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			err := foreignKeyErr(tt.constraint)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidReference)
		})
	}

	assert.False(t, errors.Is(ErrInvalidLocationReference, ErrInvalidProductReference))
}

func TestCheckAmount(t *testing.T) {
	assert.NoError(t, checkAmount(0))
	assert.NoError(t, checkAmount(math.MaxInt32))
	assert.ErrorIs(t, checkAmount(-1), ErrNegativeAmount)
	assert.ErrorIs(t, checkAmount(math.MaxInt32+1), ErrAmountOutOfRange)
}
