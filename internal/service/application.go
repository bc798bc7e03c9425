package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"application-portal/internal/apperr"
	"application-portal/internal/client"
	"application-portal/internal/dto"
	"application-portal/internal/model"
	"application-portal/internal/repository"
	"application-portal/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ApplicationService interface {
	GetOrCreateApplication(ctx context.Context, email string) (*dto.ApplicationResponse, error)
	SaveField(ctx context.Context, req *dto.SaveFieldRequest) (*dto.SaveFieldResponse, error)
	DeleteField(ctx context.Context, applicationID, fieldName string) error
	CreatePaymentIntent(ctx context.Context, applicationID, decisionType string) (*dto.CreatePaymentIntentResponse, error)
	SubmitApplication(ctx context.Context, applicationID, paymentIntentID string) (*dto.SubmitApplicationResponse, error)
	TestConfirmPayment(ctx context.Context, paymentIntentID string) (*dto.TestConfirmPaymentResponse, error)
}

type applicationServiceImpl struct {
	applicantRepo repository.ApplicantRepository
	fieldRepo     repository.FieldRepository
	paymentRepo   repository.PaymentRepository
	gateway       client.PaymentGateway
	logger        *zap.Logger

	// allows submission of intents the processor does not know; testing
	// escape hatch, must stay false in production
	allowUnverifiedTestPayments bool

	now func() time.Time
}

func NewApplicationService(
	applicantRepo repository.ApplicantRepository,
	fieldRepo repository.FieldRepository,
	paymentRepo repository.PaymentRepository,
	gateway client.PaymentGateway,
	logger *zap.Logger,
	allowUnverifiedTestPayments bool,
) ApplicationService {
	return &applicationServiceImpl{
		applicantRepo:               applicantRepo,
		fieldRepo:                   fieldRepo,
		paymentRepo:                 paymentRepo,
		gateway:                     gateway,
		logger:                      logger,
		allowUnverifiedTestPayments: allowUnverifiedTestPayments,
		now:                         time.Now,
	}
}

func (s *applicationServiceImpl) GetOrCreateApplication(ctx context.Context, email string) (*dto.ApplicationResponse, error) {
	if !validation.ValidEmail(email) {
		return nil, apperr.Validation("valid email is required")
	}
	email = strings.TrimSpace(email)

	applicant, err := s.applicantRepo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		applicant, err = s.createApplicant(ctx, email)
	}
	if err != nil {
		return nil, apperr.Upstream("fetch applicant", err)
	}

	fields, err := s.fieldRepo.ListByApplicationID(ctx, applicant.ApplicationID)
	if err != nil {
		return nil, apperr.Upstream("fetch application data", err)
	}

	records := make([]dto.FieldRecord, len(fields))
	for i, f := range fields {
		records[i] = dto.FieldRecord{
			ID:         f.ID,
			Section:    f.Section,
			FieldName:  f.FieldName,
			FieldValue: f.FieldValue,
			Timestamp:  f.UpdatedAt,
		}
	}

	return &dto.ApplicationResponse{
		ApplicationID:   applicant.ApplicationID,
		Email:           applicant.Email,
		Status:          applicant.Status,
		CurrentStage:    applicant.CurrentStage,
		CreatedAt:       applicant.CreatedAt,
		SubmittedAt:     applicant.SubmittedAt,
		ApplicationData: records,
	}, nil
}

func (s *applicationServiceImpl) createApplicant(ctx context.Context, email string) (*model.Applicant, error) {
	applicant := &model.Applicant{
		ApplicationID: uuid.NewString(),
		Email:         email,
		Name:          displayNameFromEmail(email),
		CurrentStage:  1,
		Status:        model.ApplicantStatusInProgress,
	}

	err := s.applicantRepo.Create(ctx, applicant)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a first-lookup race; the winner's row is authoritative
		return s.applicantRepo.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("applicant created",
		zap.String("applicationId", applicant.ApplicationID),
		zap.String("email", email))

	return applicant, nil
}

func (s *applicationServiceImpl) SaveField(ctx context.Context, req *dto.SaveFieldRequest) (*dto.SaveFieldResponse, error) {
	if !validation.ValidApplicationID(req.ApplicationID) {
		return nil, apperr.Validation("invalid application ID format")
	}
	if strings.TrimSpace(req.Section) == "" {
		return nil, apperr.Validation("section must be a non-empty string")
	}
	if strings.TrimSpace(req.FieldName) == "" {
		return nil, apperr.Validation("field name must be a non-empty string")
	}
	if req.FieldValue == "" {
		return nil, apperr.Validation("field value is required")
	}

	stored, err := s.fieldRepo.Upsert(ctx, &model.ApplicationField{
		ApplicationID: req.ApplicationID,
		Section:       validation.Sanitize(req.Section),
		FieldName:     validation.Sanitize(req.FieldName),
		FieldValue:    validation.Sanitize(req.FieldValue),
	})
	if err != nil {
		return nil, apperr.Upstream("save application field", err)
	}

	s.advanceStage(ctx, req.ApplicationID, stored.Section)

	return &dto.SaveFieldResponse{
		ID:            stored.ID,
		ApplicationID: stored.ApplicationID,
		Section:       stored.Section,
		FieldName:     stored.FieldName,
		Timestamp:     stored.UpdatedAt,
	}, nil
}

// advanceStage is the stage tracker: sections map to numeric progress stages
// and the mapped stage is written through to the applicant. Best-effort; a
// failure here must never block the field save.
func (s *applicationServiceImpl) advanceStage(ctx context.Context, applicationID, section string) {
	stage, ok := model.SectionStageMapping[section]
	if !ok {
		return
	}

	if err := s.applicantRepo.SetStage(ctx, applicationID, stage); err != nil {
		s.logger.Warn("stage update skipped",
			zap.String("applicationId", applicationID),
			zap.String("section", section),
			zap.Error(err))
	}
}

func (s *applicationServiceImpl) DeleteField(ctx context.Context, applicationID, fieldName string) error {
	err := s.fieldRepo.DeleteByName(ctx, applicationID, fieldName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("application field not found")
	}
	if err != nil {
		return apperr.Upstream("delete application field", err)
	}

	return nil
}

func (s *applicationServiceImpl) CreatePaymentIntent(ctx context.Context, applicationID, decisionType string) (*dto.CreatePaymentIntentResponse, error) {
	if !validation.ValidApplicationID(applicationID) {
		return nil, apperr.Validation("application ID is required")
	}
	amount, ok := model.DecisionPrices[decisionType]
	if !ok {
		return nil, apperr.Validation("decision type must be one of: Regular, Early, Full")
	}

	// the workflow requires some application content before taking payment
	fields, err := s.fieldRepo.ListByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, apperr.Upstream("fetch application data", err)
	}
	if len(fields) == 0 {
		return nil, apperr.NotFound("application %q not found; check the application ID and try again", applicationID)
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, amount, "usd", map[string]string{
		"applicationId": applicationID,
		"decisionType":  decisionType,
	})
	if err != nil {
		return nil, apperr.Upstream("create payment intent", err)
	}

	err = s.paymentRepo.Create(ctx, &model.Payment{
		ApplicationID:   applicationID,
		DecisionType:    decisionType,
		Amount:          float64(amount) / 100,
		Status:          model.PaymentStatusPending,
		PaymentIntentID: intent.ID,
	})
	if err != nil {
		return nil, apperr.Upstream("store payment record", err)
	}

	// mirror the payment details into the application data so the payment
	// section counts toward section completeness
	display := FormatAmountForDisplay(amount)
	for name, value := range map[string]string{
		"decisionType":    decisionType,
		"amount":          display,
		"paymentIntentId": intent.ID,
	} {
		if _, err := s.fieldRepo.Upsert(ctx, &model.ApplicationField{
			ApplicationID: applicationID,
			Section:       "payment",
			FieldName:     name,
			FieldValue:    value,
		}); err != nil {
			return nil, apperr.Upstream("store payment fields", err)
		}
	}
	s.advanceStage(ctx, applicationID, "payment")

	s.logger.Info("payment intent created",
		zap.String("applicationId", applicationID),
		zap.String("paymentIntentId", intent.ID),
		zap.String("decisionType", decisionType),
		zap.Int64("amount", amount))

	return &dto.CreatePaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          display,
		Currency:        intent.Currency,
		DecisionType:    decisionType,
		ApplicationID:   applicationID,
	}, nil
}

func (s *applicationServiceImpl) SubmitApplication(ctx context.Context, applicationID, paymentIntentID string) (*dto.SubmitApplicationResponse, error) {
	if !validation.ValidApplicationID(applicationID) {
		return nil, apperr.Validation("application ID is required")
	}
	if strings.TrimSpace(paymentIntentID) == "" {
		return nil, apperr.Validation("payment intent ID is required")
	}

	intent, err := s.retrieveIntentForSubmission(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	if intent.Status != model.IntentStatusSucceeded {
		return nil, apperr.PaymentVerification(fmt.Errorf("payment not succeeded, current status: %s", intent.Status))
	}

	if _, err := s.paymentRepo.MarkStatusFromPending(ctx, paymentIntentID, model.PaymentStatusSucceeded); err != nil {
		return nil, apperr.Upstream("update payment status", err)
	}

	fields, err := s.fieldRepo.ListByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, apperr.Upstream("fetch application data", err)
	}
	sections := validation.ValidateSections(fields)
	if !sections.IsValid {
		return nil, apperr.Validation("missing required sections: %s", strings.Join(sections.Missing, ", "))
	}

	submittedAt := s.now().UTC().Truncate(24 * time.Hour)
	updated, err := s.applicantRepo.MarkSubmitted(ctx, applicationID, submittedAt)
	if err != nil {
		return nil, apperr.Upstream("update applicant status", err)
	}
	if !updated {
		applicant, err := s.applicantRepo.FindByApplicationID(ctx, applicationID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("applicant not found")
		}
		if err != nil {
			return nil, apperr.Upstream("fetch applicant", err)
		}
		// already submitted; keep the original timestamp
		if applicant.SubmittedAt != nil {
			submittedAt = *applicant.SubmittedAt
		}
	}

	if _, err := s.fieldRepo.Upsert(ctx, &model.ApplicationField{
		ApplicationID: applicationID,
		Section:       "payment",
		FieldName:     "submissionStatus",
		FieldValue:    "completed",
	}); err != nil {
		return nil, apperr.Upstream("store submission status", err)
	}

	s.logger.Info("application submitted",
		zap.String("applicationId", applicationID),
		zap.String("paymentIntentId", paymentIntentID))

	return &dto.SubmitApplicationResponse{
		ApplicationID:     applicationID,
		PaymentIntentID:   paymentIntentID,
		SubmittedAt:       submittedAt.Format("2006-01-02"),
		Status:            model.ApplicantStatusSubmittedPaid,
		PaymentStatus:     model.PaymentStatusSucceeded,
		CompletedSections: sections.Present,
	}, nil
}

// retrieveIntentForSubmission fetches the intent from the processor. An
// unknown intent is fabricated as succeeded only when the test-payments
// flag is on; with the flag off it is a verification failure.
func (s *applicationServiceImpl) retrieveIntentForSubmission(ctx context.Context, paymentIntentID string) (*model.PaymentIntent, error) {
	intent, err := s.gateway.RetrievePaymentIntent(ctx, paymentIntentID)
	if err == nil {
		return intent, nil
	}

	if errors.Is(err, client.ErrIntentNotFound) {
		if s.allowUnverifiedTestPayments {
			s.logger.Warn("payment intent unknown to processor, treating as succeeded (test mode)",
				zap.String("paymentIntentId", paymentIntentID))
			return &model.PaymentIntent{ID: paymentIntentID, Status: model.IntentStatusSucceeded}, nil
		}
		return nil, apperr.PaymentVerification(err)
	}

	return nil, apperr.Upstream("retrieve payment intent", err)
}

func (s *applicationServiceImpl) TestConfirmPayment(ctx context.Context, paymentIntentID string) (*dto.TestConfirmPaymentResponse, error) {
	if strings.TrimSpace(paymentIntentID) == "" {
		return nil, apperr.Validation("payment intent ID is required")
	}

	intent, err := s.gateway.ConfirmPaymentIntent(ctx, paymentIntentID, "pm_card_visa")
	if errors.Is(err, client.ErrIntentNotFound) {
		return nil, apperr.NotFound("payment intent not found")
	}
	if err != nil {
		return nil, apperr.Upstream("confirm payment intent", err)
	}

	if intent.Status == model.IntentStatusSucceeded {
		if _, err := s.paymentRepo.MarkStatusFromPending(ctx, paymentIntentID, model.PaymentStatusSucceeded); err != nil {
			return nil, apperr.Upstream("update payment status", err)
		}
	}

	return &dto.TestConfirmPaymentResponse{
		PaymentIntentID: intent.ID,
		Status:          intent.Status,
		Amount:          FormatAmountForDisplay(intent.Amount),
		Currency:        intent.Currency,
	}, nil
}

// FormatAmountForDisplay renders minor currency units as a major-unit
// decimal string, e.g. 250000 -> "2500.00".
func FormatAmountForDisplay(minorUnits int64) string {
	return fmt.Sprintf("%.2f", float64(minorUnits)/100)
}

// displayNameFromEmail derives a provisional display name from the email
// local-part, capitalizing each word boundary.
func displayNameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)

	words := strings.Fields(local)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " ")
}
