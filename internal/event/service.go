package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/stash/internal/storage/mq"
)

// Service is the event service.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(TopicStockTransactionRecorded, s.onStockTransactionRecorded); err != nil {
		return nil, fmt.Errorf("register stock transaction recorded event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	return CleanupFunc(mqCleanup), nil
}

func (s *Service) onStockTransactionRecorded(ctx context.Context, _ string, payload []byte) error {
	var ev StockTransactionRecordedEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("unmarshal stock transaction recorded event: %w", err)
	}

	if err := s.handleStockTransactionRecordedEvent(ctx, ev); err != nil {
		return fmt.Errorf("handle stock transaction recorded event: %w", err)
	}

	return nil
}
