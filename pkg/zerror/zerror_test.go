package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/stash/pkg/zerror"
)

func TestZError(t *testing.T) {
	base := zerror.NewBadRequest("INSUFFICIENT_STOCK", "not enough stock")

	t.Run("Should match predefined error after wrapping parent", func(t *testing.T) {
		err := fmt.Errorf("stock service consume: %w", base.WrapParent(errors.New("short by 3")))

		assert.ErrorIs(t, err, base)

		var zErr zerror.ZError
		assert.True(t, errors.As(err, &zErr))
		assert.Equal(t, zerror.StatusBadRequest, zErr.Status())
		assert.Equal(t, "INSUFFICIENT_STOCK", zErr.Code())
		assert.EqualError(t, zErr.Parent(), "short by 3")
	})

	t.Run("Should not match error with different code", func(t *testing.T) {
		other := zerror.NewBadRequest("INVALID_PRODUCT", "invalid product")
		assert.NotErrorIs(t, base, other)
	})

	t.Run("Should keep error untouched when parent is nil", func(t *testing.T) {
		assert.Equal(t, base, base.WrapParent(nil))
		assert.Equal(t, "Code=INSUFFICIENT_STOCK, Msg=not enough stock", base.Error())
	})
}
