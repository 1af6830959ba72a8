package mq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stash/pkg/ptr"
)

func TestBuildProduceRecord(t *testing.T) {
	t.Parallel()

	t.Run("with partition key", func(t *testing.T) {
		t.Parallel()

		r := buildProduceRecord(ProduceMsg{
			Topic:        "stock.transaction.recorded",
			Headers:      map[string]string{"X-Correlation-ID": "abc"},
			Payload:      []byte(`{"amount":3}`),
			PartitionKey: ptr.New("42"),
		})

		assert.Equal(t, "stock.transaction.recorded", r.Topic)
		assert.Equal(t, []byte("42"), r.Key)
		assert.JSONEq(t, `{"amount":3}`, string(r.Value))
		require.Len(t, r.Headers, 1)
		assert.Equal(t, "X-Correlation-ID", r.Headers[0].Key)
		assert.Equal(t, []byte("abc"), r.Headers[0].Value)
	})

	t.Run("without partition key", func(t *testing.T) {
		t.Parallel()

		r := buildProduceRecord(ProduceMsg{Topic: "t", Payload: []byte("{}")})

		assert.Nil(t, r.Key)
		assert.Empty(t, r.Headers)
	})
}
