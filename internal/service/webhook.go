package service

import (
	"context"
	"errors"
	"time"

	"application-portal/internal/apperr"
	"application-portal/internal/client"
	"application-portal/internal/model"
	"application-portal/internal/repository"

	"go.uber.org/zap"
)

// WebhookService reconciles asynchronous processor notifications into the
// same payment and application records the workflow reads.
type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, sigHeader string) error
}

type webhookServiceImpl struct {
	gateway     client.PaymentGateway
	paymentRepo repository.PaymentRepository
	fieldRepo   repository.FieldRepository
	eventRepo   repository.WebhookEventRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewWebhookService(
	gateway client.PaymentGateway,
	paymentRepo repository.PaymentRepository,
	fieldRepo repository.FieldRepository,
	eventRepo repository.WebhookEventRepository,
	logger *zap.Logger,
) WebhookService {
	return &webhookServiceImpl{
		gateway:     gateway,
		paymentRepo: paymentRepo,
		fieldRepo:   fieldRepo,
		eventRepo:   eventRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *webhookServiceImpl) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	// signature verification is the only authentication on this path; the
	// processor cannot present our API key
	event, err := s.gateway.ConstructWebhookEvent(payload, sigHeader)
	if errors.Is(err, client.ErrBadSignature) {
		return apperr.Validation("webhook signature verification failed")
	}
	if err != nil {
		return apperr.Validation("invalid webhook payload: %v", err)
	}

	intent := event.Data.Object

	fresh, err := s.eventRepo.Record(ctx, &model.WebhookEvent{
		EventID:    event.ID,
		EventType:  event.Type,
		IntentID:   intent.ID,
		ReceivedAt: s.now(),
	})
	if err != nil {
		return apperr.Upstream("journal webhook event", err)
	}
	if !fresh {
		s.logger.Info("webhook event redelivered", zap.String("eventId", event.ID))
	}

	switch event.Type {
	case model.EventPaymentIntentSucceeded:
		return s.reconcile(ctx, &intent, model.PaymentStatusSucceeded, "succeeded")
	case model.EventPaymentIntentFailed:
		return s.reconcile(ctx, &intent, model.PaymentStatusFailed, "failed")
	case model.EventPaymentIntentCanceled:
		// canceled is conflated with failed in the payment record
		return s.reconcile(ctx, &intent, model.PaymentStatusFailed, "canceled")
	default:
		s.logger.Info("unhandled webhook event type", zap.String("type", event.Type))
		return nil
	}
}

func (s *webhookServiceImpl) reconcile(ctx context.Context, intent *model.PaymentIntent, paymentStatus, webhookStatus string) error {
	updated, err := s.paymentRepo.MarkStatusFromPending(ctx, intent.ID, paymentStatus)
	if err != nil {
		return apperr.Upstream("update payment status", err)
	}
	if !updated {
		// already terminal, or a payment record we never issued; terminal
		// statuses are idempotent so a repeat is not an error
		s.logger.Info("payment status transition skipped",
			zap.String("paymentIntentId", intent.ID),
			zap.String("status", paymentStatus))
	}

	applicationID := intent.Metadata["applicationId"]
	if applicationID == "" {
		return nil
	}

	records := map[string]string{
		"webhookPaymentStatus": webhookStatus,
		"webhookProcessedAt":   s.now().UTC().Format(time.RFC3339),
	}
	if paymentStatus == model.PaymentStatusFailed && intent.LastPaymentError != nil {
		records["paymentFailureReason"] = intent.LastPaymentError.Message
	}

	for name, value := range records {
		if _, err := s.fieldRepo.Upsert(ctx, &model.ApplicationField{
			ApplicationID: applicationID,
			Section:       "payment",
			FieldName:     name,
			FieldValue:    value,
		}); err != nil {
			return apperr.Upstream("store webhook fields", err)
		}
	}

	s.logger.Info("webhook reconciled",
		zap.String("paymentIntentId", intent.ID),
		zap.String("applicationId", applicationID),
		zap.String("status", webhookStatus))

	return nil
}
