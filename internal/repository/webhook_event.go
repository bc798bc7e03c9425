package repository

import (
	"context"

	"application-portal/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository interface {
	Record(ctx context.Context, event *model.WebhookEvent) (bool, error)
}

type webhookEventRepoImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepoImpl{
		db: db,
	}
}

// Record journals the event. Returns false when the event id was already
// seen, so callers can detect processor redeliveries.
func (r *webhookEventRepoImpl) Record(ctx context.Context, event *model.WebhookEvent) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(event)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
