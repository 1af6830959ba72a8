package mq

import (
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/tuanvumaihuynh/stash/internal/storage/mq")

// kafkaHooks traces broker round trips through the global tracer provider.
func kafkaHooks() kgo.Opt {
	return kgo.WithHooks(kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider())))
}
