package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"application-portal/internal/apperr"
	"application-portal/internal/dto"
	"application-portal/internal/handler"
	appmiddleware "application-portal/internal/middleware"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Config struct {
	APIKey                      string
	AllowedOrigin               string
	AllowUnverifiedTestPayments bool
}

type Server struct {
	echo               *echo.Echo
	cfg                Config
	applicationHandler *handler.ApplicationHandler
	applicantsHandler  *handler.ApplicantsHandler
	webhookHandler     *handler.WebhookHandler
	uploadHandler      *handler.UploadHandler
}

func NewServer(
	cfg Config,
	logger *zap.Logger,
	applicationHandler *handler.ApplicationHandler,
	applicantsHandler *handler.ApplicantsHandler,
	webhookHandler *handler.WebhookHandler,
	uploadHandler *handler.UploadHandler,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Validator = &requestValidator{validate: validatorv10.New()}
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.AllowedOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "X-API-Key"},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Error(v.Error))
			return nil
		},
	}))

	s := &Server{
		echo:               e,
		cfg:                cfg,
		applicationHandler: applicationHandler,
		applicantsHandler:  applicantsHandler,
		webhookHandler:     webhookHandler,
		uploadHandler:      uploadHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- application workflow (shared-secret key) --------
	keyAuth := appmiddleware.APIKeyAuth(s.cfg.APIKey)
	api.GET("/get-application/:email", s.applicationHandler.GetApplication, keyAuth)
	api.POST("/save-field", s.applicationHandler.SaveField, keyAuth)
	api.DELETE("/application-field", s.applicationHandler.DeleteField, keyAuth)
	api.POST("/create-payment-intent", s.applicationHandler.CreatePaymentIntent, keyAuth)
	api.POST("/submit-application", s.applicationHandler.SubmitApplication, keyAuth)
	if s.cfg.AllowUnverifiedTestPayments {
		api.POST("/test-confirm-payment", s.applicationHandler.TestConfirmPayment, keyAuth)
	}

	// -------- applicants --------
	api.POST("/applicants", s.applicantsHandler.CreateApplicant)
	api.GET("/applicants/:email", s.applicantsHandler.GetApplicant)
	api.PUT("/applicants/:email", s.applicantsHandler.UpdateApplicant)

	// -------- processor webhook (signature-authenticated) --------
	api.POST("/webhook", s.webhookHandler.HandleWebhook)

	// -------- file uploads --------
	api.POST("/files/upload", s.uploadHandler.UploadFile, keyAuth)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

type requestValidator struct {
	validate *validatorv10.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validatorv10.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Validation("invalid request")
	}

	messages := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			messages[i] = fmt.Sprintf("%s is required", fe.Field())
		case "oneof":
			messages[i] = fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
		default:
			messages[i] = fmt.Sprintf("%s is invalid", fe.Field())
		}
	}

	return apperr.Validation("%s", strings.Join(messages, ", "))
}

// errorHandler maps typed error kinds to HTTP statuses. Anything without a
// kind stays an opaque 500; the detail is logged server-side only.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		if kind, ok := apperr.KindOf(err); ok {
			status = apperr.HTTPStatus(kind)
			message = apperr.Message(err)
		} else if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err))
		}

		if err := c.JSON(status, dto.Failure(message)); err != nil {
			logger.Error("write error response", zap.Error(err))
		}
	}
}
