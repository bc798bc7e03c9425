package handler

import (
	"net/http"

	"application-portal/internal/apperr"
	"application-portal/internal/dto"
	"application-portal/internal/service"

	"github.com/labstack/echo/v4"
)

type ApplicantsHandler struct {
	applicantsService service.ApplicantsService
}

func NewApplicantsHandler(applicantsService service.ApplicantsService) *ApplicantsHandler {
	return &ApplicantsHandler{
		applicantsService: applicantsService,
	}
}

func (h *ApplicantsHandler) CreateApplicant(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateApplicantRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.applicantsService.CreateApplicant(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.Success(result, "Applicant created successfully"))
}

func (h *ApplicantsHandler) GetApplicant(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.applicantsService.GetApplicantByEmail(ctx, c.Param("email"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Success(result, "Applicant retrieved successfully"))
}

func (h *ApplicantsHandler) UpdateApplicant(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateApplicantRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	result, err := h.applicantsService.UpdateApplicant(ctx, c.Param("email"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Success(result, "Applicant updated successfully"))
}
