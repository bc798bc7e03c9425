package repository

import (
	"context"
	"time"

	"application-portal/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FieldRepository interface {
	Upsert(ctx context.Context, field *model.ApplicationField) (*model.ApplicationField, error)
	ListByApplicationID(ctx context.Context, applicationID string) ([]model.ApplicationField, error)
	FindByName(ctx context.Context, applicationID, fieldName string) (*model.ApplicationField, error)
	DeleteByName(ctx context.Context, applicationID, fieldName string) error
}

type fieldRepoImpl struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepoImpl{
		db: db,
	}
}

// Upsert writes the field value keyed by (application_id, section,
// field_name); a repeated save overwrites the previous value.
func (r *fieldRepoImpl) Upsert(ctx context.Context, field *model.ApplicationField) (*model.ApplicationField, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "application_id"}, {Name: "section"}, {Name: "field_name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"field_value": field.FieldValue,
			"updated_at":  time.Now(),
		}),
	}).Create(field).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the stored row (id and timestamp) whether
	// the write inserted or updated.
	var stored model.ApplicationField
	err = r.db.WithContext(ctx).
		Where("application_id = ? AND section = ? AND field_name = ?",
			field.ApplicationID, field.Section, field.FieldName).
		First(&stored).Error
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *fieldRepoImpl) ListByApplicationID(ctx context.Context, applicationID string) ([]model.ApplicationField, error) {
	var fields []model.ApplicationField
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("id").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}

	return fields, nil
}

func (r *fieldRepoImpl) FindByName(ctx context.Context, applicationID, fieldName string) (*model.ApplicationField, error) {
	var field model.ApplicationField
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND field_name = ?", applicationID, fieldName).
		First(&field).Error
	if err != nil {
		return nil, err
	}

	return &field, nil
}

func (r *fieldRepoImpl) DeleteByName(ctx context.Context, applicationID, fieldName string) error {
	result := r.db.WithContext(ctx).
		Where("application_id = ? AND field_name = ?", applicationID, fieldName).
		Delete(&model.ApplicationField{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
