package service

import (
	"context"

	"application-portal/internal/apperr"
	"application-portal/internal/client"
	"application-portal/internal/dto"
	"application-portal/internal/repository"
	"application-portal/internal/validation"

	"go.uber.org/zap"
)

const maxUploadSize = 10 << 20 // 10MB

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

type UploadService interface {
	UploadFile(ctx context.Context, applicationID, fieldName, filename, mimeType string, data []byte) (*dto.UploadFileResponse, error)
}

type uploadServiceImpl struct {
	media       client.MediaStore
	fieldRepo   repository.FieldRepository
	application ApplicationService
	logger      *zap.Logger
}

func NewUploadService(media client.MediaStore, fieldRepo repository.FieldRepository, application ApplicationService, logger *zap.Logger) UploadService {
	return &uploadServiceImpl{
		media:       media,
		fieldRepo:   fieldRepo,
		application: application,
		logger:      logger,
	}
}

// UploadFile pushes the file to the media store and records its URL as a
// documents-section field. Re-uploading the same field replaces the stored
// object; deleting the predecessor is best-effort.
func (s *uploadServiceImpl) UploadFile(ctx context.Context, applicationID, fieldName, filename, mimeType string, data []byte) (*dto.UploadFileResponse, error) {
	if !validation.ValidApplicationID(applicationID) || fieldName == "" {
		return nil, apperr.Validation("application ID and field name are required")
	}
	if len(data) == 0 {
		return nil, apperr.Validation("no file uploaded")
	}
	if len(data) > maxUploadSize {
		return nil, apperr.Validation("file size exceeds 10MB limit")
	}
	if !allowedUploadTypes[mimeType] {
		return nil, apperr.Validation("invalid file type; only JPG, PNG, and PDF files are allowed")
	}

	replaced := false
	if existing, err := s.fieldRepo.FindByName(ctx, applicationID, fieldName); err == nil && existing.FieldValue != "" {
		if publicID := s.media.ExtractPublicID(existing.FieldValue); publicID != "" {
			if err := s.media.Delete(ctx, publicID); err != nil {
				s.logger.Warn("failed to delete replaced file",
					zap.String("publicId", publicID),
					zap.Error(err))
			} else {
				replaced = true
			}
		}
	}

	result, err := s.media.Upload(ctx, data, filename, applicationID)
	if err != nil {
		return nil, apperr.Upstream("upload file", err)
	}

	saved, err := s.application.SaveField(ctx, &dto.SaveFieldRequest{
		ApplicationID: applicationID,
		Section:       "documents",
		FieldName:     fieldName,
		FieldValue:    result.URL,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file uploaded",
		zap.String("applicationId", applicationID),
		zap.String("fieldName", fieldName),
		zap.Bool("replaced", replaced))

	return &dto.UploadFileResponse{
		ID:            saved.ID,
		ApplicationID: applicationID,
		FieldName:     fieldName,
		FileURL:       result.URL,
		OriginalName:  filename,
		MimeType:      mimeType,
		Size:          int64(len(data)),
		Replaced:      replaced,
	}, nil
}
