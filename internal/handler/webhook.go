package handler

import (
	"io"
	"net/http"

	"application-portal/internal/apperr"
	"application-portal/internal/dto"
	"application-portal/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// HandleWebhook consumes processor notifications. The signature is computed
// over the raw body, so it must be read before any parsing.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil || len(body) == 0 {
		return apperr.Validation("payload is required")
	}

	sig := c.Request().Header.Get("Stripe-Signature")
	if sig == "" {
		return apperr.Validation("signature is required")
	}

	if err := h.webhookService.HandleEvent(ctx, body, sig); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Success(nil, "Webhook processed successfully"))
}
