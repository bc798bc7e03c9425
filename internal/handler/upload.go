package handler

import (
	"io"
	"net/http"

	"application-portal/internal/apperr"
	"application-portal/internal/dto"
	"application-portal/internal/service"

	"github.com/labstack/echo/v4"
)

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

func (h *UploadHandler) UploadFile(c echo.Context) error {
	ctx := c.Request().Context()

	applicationID := c.FormValue("applicationId")
	fieldName := c.FormValue("fieldName")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("no file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperr.Upstream("open uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apperr.Upstream("read uploaded file", err)
	}

	result, err := h.uploadService.UploadFile(ctx, applicationID, fieldName,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}

	message := "File uploaded successfully"
	if result.Replaced {
		message = "File replaced successfully"
	}

	return c.JSON(http.StatusOK, dto.Success(result, message))
}
