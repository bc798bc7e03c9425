package repository

import (
	"context"
	"time"

	"application-portal/internal/model"

	"gorm.io/gorm"
)

type ApplicantRepository interface {
	Create(ctx context.Context, applicant *model.Applicant) error
	FindByEmail(ctx context.Context, email string) (*model.Applicant, error)
	FindByApplicationID(ctx context.Context, applicationID string) (*model.Applicant, error)
	UpdateByEmail(ctx context.Context, email string, updates map[string]interface{}) (*model.Applicant, error)
	SetStage(ctx context.Context, applicationID string, stage int) error
	MarkSubmitted(ctx context.Context, applicationID string, submittedAt time.Time) (bool, error)
}

type applicantRepoImpl struct {
	db *gorm.DB
}

func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepoImpl{
		db: db,
	}
}

func (r *applicantRepoImpl) Create(ctx context.Context, applicant *model.Applicant) error {
	return r.db.WithContext(ctx).Create(applicant).Error
}

func (r *applicantRepoImpl) FindByEmail(ctx context.Context, email string) (*model.Applicant, error) {
	var applicant model.Applicant
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&applicant).Error
	if err != nil {
		return nil, err
	}

	return &applicant, nil
}

func (r *applicantRepoImpl) FindByApplicationID(ctx context.Context, applicationID string) (*model.Applicant, error) {
	var applicant model.Applicant
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&applicant).Error
	if err != nil {
		return nil, err
	}

	return &applicant, nil
}

func (r *applicantRepoImpl) UpdateByEmail(ctx context.Context, email string, updates map[string]interface{}) (*model.Applicant, error) {
	var applicant model.Applicant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Applicant{}).
			Where("email = ?", email).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("email = ?", email).First(&applicant).Error
	})
	if err != nil {
		return nil, err
	}

	return &applicant, nil
}

func (r *applicantRepoImpl) SetStage(ctx context.Context, applicationID string, stage int) error {
	result := r.db.WithContext(ctx).Model(&model.Applicant{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"current_stage": stage,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// MarkSubmitted flips the applicant into Submitted & Paid and stamps
// submitted_at, but only while the record is still In Progress, so the
// timestamp is set exactly once. Returns false when the guard did not fire.
func (r *applicantRepoImpl) MarkSubmitted(ctx context.Context, applicationID string, submittedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Applicant{}).
		Where("application_id = ? AND status = ?", applicationID, model.ApplicantStatusInProgress).
		Updates(map[string]interface{}{
			"status":       model.ApplicantStatusSubmittedPaid,
			"submitted_at": submittedAt,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
