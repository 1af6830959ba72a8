package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tuanvumaihuynh/stash/pkg/correlationid"
	"github.com/tuanvumaihuynh/stash/pkg/outbox"
)

func TestHeaders(t *testing.T) {
	t.Run("Should carry correlation id into headers", func(t *testing.T) {
		ctx := correlationid.NewContext(context.Background(), "corr-1")

		headers := outbox.BuildHeaders(ctx)

		assert.Equal(t, "corr-1", headers[correlationid.Header])
	})

	t.Run("Should restore correlation id from record", func(t *testing.T) {
		rec := &kgo.Record{
			Headers: []kgo.RecordHeader{
				{Key: "other", Value: []byte("x")},
				{Key: correlationid.Header, Value: []byte("corr-2")},
			},
		}

		ctx := outbox.ContextFromRecord(context.Background(), rec)

		id, ok := correlationid.FromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "corr-2", id)
	})

	t.Run("Should leave context untouched without headers", func(t *testing.T) {
		ctx := outbox.ContextFromRecord(context.Background(), &kgo.Record{})

		_, ok := correlationid.FromContext(ctx)
		assert.False(t, ok)
	})
}
