package service

import (
	"context"
	"testing"

	"application-portal/internal/apperr"
	"application-portal/internal/client"
	"application-portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type webhookFixture struct {
	gateway  *fakeGateway
	payments *fakePaymentRepo
	fields   *fakeFieldRepo
	events   *fakeWebhookEventRepo
	svc      WebhookService
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	f := &webhookFixture{
		gateway:  newFakeGateway(),
		payments: newFakePaymentRepo(),
		fields:   newFakeFieldRepo(),
		events:   newFakeWebhookEventRepo(),
	}
	f.svc = NewWebhookService(f.gateway, f.payments, f.fields, f.events, zap.NewNop())
	return f
}

func (f *webhookFixture) seedPayment(t *testing.T, appID, intentID string) {
	t.Helper()
	err := f.payments.Create(context.Background(), &model.Payment{
		ApplicationID:   appID,
		DecisionType:    model.DecisionTypeRegular,
		Amount:          500,
		Status:          model.PaymentStatusPending,
		PaymentIntentID: intentID,
	})
	require.NoError(t, err)
}

func intentEvent(eventID, eventType, intentID, appID string) *model.StripeWebhookEvent {
	return &model.StripeWebhookEvent{
		ID:   eventID,
		Type: eventType,
		Data: model.StripeEventData{Object: model.PaymentIntent{
			ID:       intentID,
			Metadata: map[string]string{"applicationId": appID},
		}},
	}
}

func TestHandleEvent(t *testing.T) {
	t.Run("rejects bad signatures", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.gateway.webhookErr = client.ErrBadSignature

		err := f.svc.HandleEvent(context.Background(), []byte("{}"), "t=1,v1=bad")
		assertKind(t, err, apperr.KindValidation)
	})

	t.Run("succeeded event settles the payment", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.seedPayment(t, "app-wh", "pi_wh_1")
		f.gateway.event = intentEvent("evt_1", model.EventPaymentIntentSucceeded, "pi_wh_1", "app-wh")

		require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

		payment, err := f.payments.FindByIntentID(context.Background(), "pi_wh_1")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusSucceeded, payment.Status)

		status, ok := f.fields.get("app-wh", "payment", "webhookPaymentStatus")
		require.True(t, ok)
		assert.Equal(t, "succeeded", status.FieldValue)
		_, ok = f.fields.get("app-wh", "payment", "webhookProcessedAt")
		assert.True(t, ok)
	})

	t.Run("failed event records the failure reason", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.seedPayment(t, "app-wh", "pi_wh_2")
		event := intentEvent("evt_2", model.EventPaymentIntentFailed, "pi_wh_2", "app-wh")
		event.Data.Object.LastPaymentError = &model.PaymentError{
			Code:    "card_declined",
			Message: "Your card was declined.",
		}
		f.gateway.event = event

		require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

		payment, err := f.payments.FindByIntentID(context.Background(), "pi_wh_2")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusFailed, payment.Status)

		reason, ok := f.fields.get("app-wh", "payment", "paymentFailureReason")
		require.True(t, ok)
		assert.Equal(t, "Your card was declined.", reason.FieldValue)
	})

	t.Run("canceled event marks the payment failed", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.seedPayment(t, "app-wh", "pi_wh_3")
		f.gateway.event = intentEvent("evt_3", model.EventPaymentIntentCanceled, "pi_wh_3", "app-wh")

		require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

		payment, err := f.payments.FindByIntentID(context.Background(), "pi_wh_3")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusFailed, payment.Status)

		status, ok := f.fields.get("app-wh", "payment", "webhookPaymentStatus")
		require.True(t, ok)
		assert.Equal(t, "canceled", status.FieldValue)
	})

	t.Run("late failure never downgrades a settled payment", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.seedPayment(t, "app-wh", "pi_wh_4")

		f.gateway.event = intentEvent("evt_4a", model.EventPaymentIntentSucceeded, "pi_wh_4", "app-wh")
		require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

		f.gateway.event = intentEvent("evt_4b", model.EventPaymentIntentFailed, "pi_wh_4", "app-wh")
		require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

		payment, err := f.payments.FindByIntentID(context.Background(), "pi_wh_4")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusSucceeded, payment.Status)
	})

	t.Run("redelivery is acknowledged without duplicate rows", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.seedPayment(t, "app-wh", "pi_wh_5")
		f.gateway.event = intentEvent("evt_5", model.EventPaymentIntentSucceeded, "pi_wh_5", "app-wh")

		require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
		before := f.fields.count()
		require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

		assert.Equal(t, before, f.fields.count())
		payment, err := f.payments.FindByIntentID(context.Background(), "pi_wh_5")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusSucceeded, payment.Status)
	})

	t.Run("unrecognized event types are acknowledged", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.gateway.event = intentEvent("evt_6", "charge.refunded", "pi_wh_6", "app-wh")

		require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
		assert.Equal(t, 0, f.fields.count())
	})

	t.Run("events without application metadata skip field writes", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.seedPayment(t, "app-wh", "pi_wh_7")
		f.gateway.event = intentEvent("evt_7", model.EventPaymentIntentSucceeded, "pi_wh_7", "")

		require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

		payment, err := f.payments.FindByIntentID(context.Background(), "pi_wh_7")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusSucceeded, payment.Status)
		assert.Equal(t, 0, f.fields.count())
	})
}
