package service

import (
	"context"
	"errors"
	"strings"

	"application-portal/internal/apperr"
	"application-portal/internal/dto"
	"application-portal/internal/model"
	"application-portal/internal/repository"
	"application-portal/internal/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ApplicantsService interface {
	CreateApplicant(ctx context.Context, req *dto.CreateApplicantRequest) (*dto.ApplicantResponse, error)
	GetApplicantByEmail(ctx context.Context, email string) (*dto.ApplicantResponse, error)
	UpdateApplicant(ctx context.Context, email string, req *dto.UpdateApplicantRequest) (*dto.ApplicantResponse, error)
}

type applicantsServiceImpl struct {
	applicantRepo repository.ApplicantRepository
	logger        *zap.Logger
}

func NewApplicantsService(applicantRepo repository.ApplicantRepository, logger *zap.Logger) ApplicantsService {
	return &applicantsServiceImpl{
		applicantRepo: applicantRepo,
		logger:        logger,
	}
}

func (s *applicantsServiceImpl) CreateApplicant(ctx context.Context, req *dto.CreateApplicantRequest) (*dto.ApplicantResponse, error) {
	if !validation.ValidEmail(req.Email) {
		return nil, apperr.Validation("invalid email format")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name must be a non-empty string")
	}
	if !validation.ValidApplicationID(req.ApplicationID) {
		return nil, apperr.Validation("application ID must be a non-empty string")
	}

	applicant := &model.Applicant{
		ApplicationID: req.ApplicationID,
		Email:         strings.TrimSpace(req.Email),
		Name:          req.Name,
		CurrentStage:  1,
		Status:        model.ApplicantStatusInProgress,
	}

	err := s.applicantRepo.Create(ctx, applicant)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.Conflict("applicant with this email already exists")
	}
	if err != nil {
		return nil, apperr.Upstream("create applicant", err)
	}

	s.logger.Info("applicant created",
		zap.String("applicationId", applicant.ApplicationID),
		zap.String("email", applicant.Email))

	return toApplicantResponse(applicant), nil
}

func (s *applicantsServiceImpl) GetApplicantByEmail(ctx context.Context, email string) (*dto.ApplicantResponse, error) {
	if !validation.ValidEmail(email) {
		return nil, apperr.Validation("valid email is required")
	}

	applicant, err := s.applicantRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("applicant not found")
	}
	if err != nil {
		return nil, apperr.Upstream("fetch applicant", err)
	}

	return toApplicantResponse(applicant), nil
}

func (s *applicantsServiceImpl) UpdateApplicant(ctx context.Context, email string, req *dto.UpdateApplicantRequest) (*dto.ApplicantResponse, error) {
	if !validation.ValidEmail(email) {
		return nil, apperr.Validation("valid email is required")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.CurrentStage != 0 {
		updates["current_stage"] = req.CurrentStage
	}
	if len(updates) == 0 {
		return nil, apperr.Validation("nothing to update")
	}

	applicant, err := s.applicantRepo.UpdateByEmail(ctx, strings.TrimSpace(email), updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("applicant not found")
	}
	if err != nil {
		return nil, apperr.Upstream("update applicant", err)
	}

	return toApplicantResponse(applicant), nil
}

func toApplicantResponse(a *model.Applicant) *dto.ApplicantResponse {
	return &dto.ApplicantResponse{
		ID:            a.ID,
		ApplicationID: a.ApplicationID,
		Email:         a.Email,
		Name:          a.Name,
		CurrentStage:  a.CurrentStage,
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
	}
}
