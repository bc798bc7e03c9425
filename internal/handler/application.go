package handler

import (
	"net/http"

	"application-portal/internal/apperr"
	"application-portal/internal/dto"
	"application-portal/internal/service"

	"github.com/labstack/echo/v4"
)

type ApplicationHandler struct {
	applicationService service.ApplicationService
}

func NewApplicationHandler(applicationService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) GetApplication(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.applicationService.GetOrCreateApplication(ctx, c.Param("email"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Success(result, "Application retrieved successfully"))
}

func (h *ApplicationHandler) SaveField(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SaveFieldRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.applicationService.SaveField(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Success(result, "Field saved successfully"))
}

func (h *ApplicationHandler) DeleteField(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.DeleteFieldRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.applicationService.DeleteField(ctx, req.ApplicationID, req.FieldName); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Success(nil, "Field deleted successfully"))
}

func (h *ApplicationHandler) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreatePaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.applicationService.CreatePaymentIntent(ctx, req.ApplicationID, req.DecisionType)
	if err != nil {
		// this endpoint reports an unknown application as a client error
		// with its message, not a bare 404
		if kind, ok := apperr.KindOf(err); ok && kind == apperr.KindNotFound {
			return c.JSON(http.StatusBadRequest, dto.Failure(apperr.Message(err)))
		}
		return err
	}

	return c.JSON(http.StatusOK, dto.Success(result, "Payment intent created successfully"))
}

func (h *ApplicationHandler) SubmitApplication(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SubmitApplicationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.applicationService.SubmitApplication(ctx, req.ApplicationID, req.PaymentIntentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Success(result, "Application submitted successfully"))
}

func (h *ApplicationHandler) TestConfirmPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.TestConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.applicationService.TestConfirmPayment(ctx, req.PaymentIntentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Success(result, "Payment confirmed successfully"))
}
