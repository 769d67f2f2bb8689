package repository

import (
	"context"
	"fmt"
	"log/slog"

	"ozzus/multiping/internal/domain"
)

type ResultRepository interface {
	SendReport(ctx context.Context, report domain.RunReport) error
}

// EventPublisher is satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
	Topic() string
}

type KafkaResultRepository struct {
	log       *slog.Logger
	publisher EventPublisher
}

func NewKafkaResultRepository(publisher EventPublisher, log *slog.Logger) *KafkaResultRepository {
	if log == nil {
		log = slog.Default()
	}

	return &KafkaResultRepository{
		log:       log,
		publisher: publisher,
	}
}

func (r *KafkaResultRepository) SendReport(ctx context.Context, report domain.RunReport) error {
	if err := r.publisher.PublishEvent(ctx, report.RunID, report); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}

	r.log.Debug("report sent",
		"run_id", report.RunID,
		"topic", r.publisher.Topic(),
		"results", len(report.Results),
	)

	return nil
}
