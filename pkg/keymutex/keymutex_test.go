package keymutex_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/stash/pkg/keymutex"
)

func TestKeyMutex(t *testing.T) {
	t.Run("Should serialize holders of the same key", func(t *testing.T) {
		km := keymutex.New[int64]()

		var (
			wg      sync.WaitGroup
			counter int
		)
		for range 50 {
			wg.Go(func() {
				unlock := km.Lock(1)
				defer unlock()
				v := counter
				counter = v + 1
			})
		}
		wg.Wait()

		assert.Equal(t, 50, counter)
		assert.Equal(t, 0, km.Len())
	})

	t.Run("Should not block different keys", func(t *testing.T) {
		km := keymutex.New[string]()

		unlockA := km.Lock("a")
		unlockB := km.Lock("b")
		assert.Equal(t, 2, km.Len())

		unlockA()
		unlockB()
		assert.Equal(t, 0, km.Len())
	})
}
