package dto

import "time"

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Success(data any, message string) *Response {
	return &Response{Success: true, Message: message, Data: data}
}

func Failure(message string) *Response {
	return &Response{Success: false, Error: message}
}

type SaveFieldRequest struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	Section       string `json:"section" validate:"required"`
	FieldName     string `json:"fieldName" validate:"required"`
	FieldValue    string `json:"fieldValue" validate:"required"`
}

type SaveFieldResponse struct {
	ID            uint      `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Section       string    `json:"section"`
	FieldName     string    `json:"fieldName"`
	Timestamp     time.Time `json:"timestamp"`
}

type DeleteFieldRequest struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	FieldName     string `json:"fieldName" validate:"required"`
}

type CreatePaymentIntentRequest struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	DecisionType  string `json:"decisionType" validate:"required,oneof=Regular Early Full"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	DecisionType    string `json:"decisionType"`
	ApplicationID   string `json:"applicationId"`
}

type SubmitApplicationRequest struct {
	ApplicationID   string `json:"applicationId" validate:"required"`
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

type SubmitApplicationResponse struct {
	ApplicationID     string   `json:"applicationId"`
	PaymentIntentID   string   `json:"paymentIntentId"`
	SubmittedAt       string   `json:"submittedAt"`
	Status            string   `json:"status"`
	PaymentStatus     string   `json:"paymentStatus"`
	CompletedSections []string `json:"completedSections"`
}

type TestConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

type TestConfirmPaymentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	Status          string `json:"status"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
}

type FieldRecord struct {
	ID         uint      `json:"id"`
	Section    string    `json:"section"`
	FieldName  string    `json:"fieldName"`
	FieldValue string    `json:"fieldValue"`
	Timestamp  time.Time `json:"timestamp"`
}

type ApplicationResponse struct {
	ApplicationID   string        `json:"applicationId"`
	Email           string        `json:"email"`
	Status          string        `json:"status"`
	CurrentStage    int           `json:"currentStage"`
	CreatedAt       time.Time     `json:"createdAt"`
	SubmittedAt     *time.Time    `json:"submittedAt"`
	ApplicationData []FieldRecord `json:"applicationData"`
}

type CreateApplicantRequest struct {
	Email         string `json:"email" validate:"required"`
	Name          string `json:"name" validate:"required"`
	ApplicationID string `json:"applicationId" validate:"required"`
}

type UpdateApplicantRequest struct {
	Name         string `json:"name"`
	CurrentStage int    `json:"currentStage"`
}

type ApplicantResponse struct {
	ID            uint      `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	CurrentStage  int       `json:"currentStage"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type UploadFileResponse struct {
	ID            uint   `json:"id"`
	ApplicationID string `json:"applicationId"`
	FieldName     string `json:"fieldName"`
	FileURL       string `json:"fileUrl"`
	OriginalName  string `json:"originalName"`
	MimeType      string `json:"mimetype"`
	Size          int64  `json:"size"`
	Replaced      bool   `json:"replaced"`
}
