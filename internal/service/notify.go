// Package service provides business logic for the notification relay,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/julimigwi/Task-Tracker/internal/models"
	"github.com/julimigwi/Task-Tracker/internal/provider"
)

// DeliveryRepository defines the persistence operations needed by the
// NotifyService.
type DeliveryRepository interface {
	// RecordDelivery stores the outcome of one notification attempt.
	RecordDelivery(ctx context.Context, d models.Delivery) error
	// RecentDeliveries returns the newest delivery records.
	RecentDeliveries(ctx context.Context, limit int) ([]models.Delivery, error)
}

// NotifyService relays notifications to the provider and records every
// attempt in the delivery log.
type NotifyService struct {
	provider provider.Provider
	repo     DeliveryRepository
	log      *zap.Logger

	newID func() string
	now   func() time.Time
}

// NewNotifyService constructs a NotifyService over the given provider
// and repository.
func NewNotifyService(p provider.Provider, repo DeliveryRepository, log *zap.Logger) *NotifyService {
	return &NotifyService{
		provider: p,
		repo:     repo,
		log:      log,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Send relays one message over the channel. The attempt is recorded
// whether it succeeded or not; a failure to write the record is logged
// but does not change the relay outcome.
func (s *NotifyService) Send(ctx context.Context, channel models.Channel, recipient, message string) (models.Delivery, error) {
	d := models.Delivery{
		ID:        s.newID(),
		Channel:   channel,
		Recipient: recipient,
		Message:   message,
		Status:    models.DeliverySent,
		CreatedAt: s.now(),
	}

	deliverErr := s.provider.Deliver(ctx, channel, recipient, message)
	if deliverErr != nil {
		d.Status = models.DeliveryFailed
		d.Error = deliverErr.Error()
	}

	if err := s.repo.RecordDelivery(ctx, d); err != nil {
		s.log.Error("failed to record delivery", zap.String("delivery_id", d.ID), zap.Error(err))
	}

	return d, deliverErr
}

// Recent returns the newest delivery records for inspection.
func (s *NotifyService) Recent(ctx context.Context, limit int) ([]models.Delivery, error) {
	return s.repo.RecentDeliveries(ctx, limit)
}
