package repository

import (
	"context"
	"time"

	"application-portal/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error)
	MarkStatusFromPending(ctx context.Context, intentID, status string) (bool, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("payment_intent_id = ?", intentID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// MarkStatusFromPending moves a payment into a terminal status, but only
// from Pending: a record never leaves Succeeded, and replaying the same
// terminal status is harmless. Returns false when the transition did not
// fire (already terminal, or no such intent).
func (r *paymentRepoImpl) MarkStatusFromPending(ctx context.Context, intentID, status string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_intent_id = ? AND status = ?", intentID, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
