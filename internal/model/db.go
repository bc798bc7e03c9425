package model

import "time"

type Applicant struct {
	ID uint `gorm:"primaryKey"`
	// opaque token generated once at creation, never changed
	ApplicationID string `gorm:"size:64;uniqueIndex;not null"`
	Email         string `gorm:"size:255;uniqueIndex;not null"`
	Name          string `gorm:"size:255;not null"`
	CurrentStage  int    `gorm:"not null"`
	Status        string `gorm:"size:32;index;not null"` // In Progress, Submitted & Paid
	SubmittedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ApplicationField is one logical field value within a named section of an
// application. One row per (application_id, section, field_name); saving an
// existing field overwrites the value in place.
type ApplicationField struct {
	ID            uint   `gorm:"primaryKey"`
	ApplicationID string `gorm:"size:64;uniqueIndex:idx_app_section_field;not null"`
	Section       string `gorm:"size:64;uniqueIndex:idx_app_section_field;not null"`
	FieldName     string `gorm:"size:128;uniqueIndex:idx_app_section_field;not null"`
	FieldValue    string `gorm:"type:text;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Payment struct {
	ID            uint    `gorm:"primaryKey"`
	ApplicationID string  `gorm:"size:64;index;not null"`
	DecisionType  string  `gorm:"size:32;not null"`       // Regular, Early, Full
	Amount        float64 `gorm:"not null"`               // major units; the gateway speaks minor units
	Status        string  `gorm:"size:32;index;not null"` // Pending, Succeeded, Failed
	// processor-side payment intent id
	PaymentIntentID string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WebhookEvent journals every processor event we accepted, keyed by the
// processor's event id so redeliveries can be detected.
type WebhookEvent struct {
	ID         uint   `gorm:"primaryKey"`
	EventID    string `gorm:"size:64;uniqueIndex;not null"`
	EventType  string `gorm:"size:64;index;not null"`
	IntentID   string `gorm:"size:64;index"`
	ReceivedAt time.Time
}
