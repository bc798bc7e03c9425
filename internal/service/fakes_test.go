package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"application-portal/internal/client"
	"application-portal/internal/model"

	"gorm.io/gorm"
)

// In-memory fakes for the narrow store and gateway interfaces so workflow
// tests run without a database or a live processor.

type fakeApplicantRepo struct {
	mu     sync.Mutex
	nextID uint
	byKey  map[string]*model.Applicant // keyed by email
}

func newFakeApplicantRepo() *fakeApplicantRepo {
	return &fakeApplicantRepo{byKey: map[string]*model.Applicant{}}
}

func (r *fakeApplicantRepo) Create(ctx context.Context, applicant *model.Applicant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKey[applicant.Email]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	applicant.ID = r.nextID
	applicant.CreatedAt = time.Now()
	cp := *applicant
	r.byKey[applicant.Email] = &cp
	return nil
}

func (r *fakeApplicantRepo) FindByEmail(ctx context.Context, email string) (*model.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byKey[email]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeApplicantRepo) FindByApplicationID(ctx context.Context, applicationID string) (*model.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byKey {
		if a.ApplicationID == applicationID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeApplicantRepo) UpdateByEmail(ctx context.Context, email string, updates map[string]interface{}) (*model.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byKey[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		a.Name = name
	}
	if stage, ok := updates["current_stage"].(int); ok {
		a.CurrentStage = stage
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApplicantRepo) SetStage(ctx context.Context, applicationID string, stage int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byKey {
		if a.ApplicationID == applicationID {
			a.CurrentStage = stage
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeApplicantRepo) MarkSubmitted(ctx context.Context, applicationID string, submittedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byKey {
		if a.ApplicationID == applicationID && a.Status == model.ApplicantStatusInProgress {
			a.Status = model.ApplicantStatusSubmittedPaid
			at := submittedAt
			a.SubmittedAt = &at
			return true, nil
		}
	}
	return false, nil
}

type fieldKey struct {
	appID, section, name string
}

type fakeFieldRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[fieldKey]*model.ApplicationField
}

func newFakeFieldRepo() *fakeFieldRepo {
	return &fakeFieldRepo{rows: map[fieldKey]*model.ApplicationField{}}
}

func (r *fakeFieldRepo) Upsert(ctx context.Context, field *model.ApplicationField) (*model.ApplicationField, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fieldKey{field.ApplicationID, field.Section, field.FieldName}
	if existing, ok := r.rows[key]; ok {
		existing.FieldValue = field.FieldValue
		existing.UpdatedAt = time.Now()
		cp := *existing
		return &cp, nil
	}
	r.nextID++
	stored := *field
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.rows[key] = &stored
	cp := stored
	return &cp, nil
}

func (r *fakeFieldRepo) ListByApplicationID(ctx context.Context, applicationID string) ([]model.ApplicationField, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ApplicationField
	for _, row := range r.rows {
		if row.ApplicationID == applicationID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeFieldRepo) FindByName(ctx context.Context, applicationID, fieldName string) (*model.ApplicationField, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ApplicationID == applicationID && row.FieldName == fieldName {
			cp := *row
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFieldRepo) DeleteByName(ctx context.Context, applicationID, fieldName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, row := range r.rows {
		if row.ApplicationID == applicationID && row.FieldName == fieldName {
			delete(r.rows, key)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeFieldRepo) get(appID, section, name string) (*model.ApplicationField, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[fieldKey{appID, section, name}]
	if !ok {
		return nil, false
	}
	cp := *row
	return &cp, true
}

func (r *fakeFieldRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	byIntent map[string]*model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byIntent: map[string]*model.Payment{}}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byIntent[payment.PaymentIntentID]; exists {
		return gorm.ErrDuplicatedKey
	}
	cp := *payment
	r.byIntent[payment.PaymentIntentID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byIntent[intentID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) MarkStatusFromPending(ctx context.Context, intentID, status string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byIntent[intentID]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	return true, nil
}

type fakeWebhookEventRepo struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeWebhookEventRepo() *fakeWebhookEventRepo {
	return &fakeWebhookEventRepo{seen: map[string]bool{}}
}

func (r *fakeWebhookEventRepo) Record(ctx context.Context, event *model.WebhookEvent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[event.EventID] {
		return false, nil
	}
	r.seen[event.EventID] = true
	return true, nil
}

// fakeGateway scripts processor responses per intent id.
type fakeGateway struct {
	mu      sync.Mutex
	nextSeq int
	intents map[string]*model.PaymentIntent

	// when set, ConstructWebhookEvent returns this error
	webhookErr error
	// parsed event returned by ConstructWebhookEvent
	event *model.StripeWebhookEvent
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: map[string]*model.PaymentIntent{}}
}

func (g *fakeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*model.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextSeq++
	intent := &model.PaymentIntent{
		ID:           fmt.Sprintf("pi_test_%d", g.nextSeq),
		Status:       model.IntentStatusRequiresPaymentMethod,
		Amount:       amount,
		Currency:     currency,
		ClientSecret: fmt.Sprintf("pi_test_%d_secret", g.nextSeq),
		Metadata:     metadata,
	}
	g.intents[intent.ID] = intent
	cp := *intent
	return &cp, nil
}

func (g *fakeGateway) RetrievePaymentIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, client.ErrIntentNotFound
	}
	cp := *intent
	return &cp, nil
}

func (g *fakeGateway) ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethod string) (*model.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, client.ErrIntentNotFound
	}
	intent.Status = model.IntentStatusSucceeded
	cp := *intent
	return &cp, nil
}

func (g *fakeGateway) ConstructWebhookEvent(payload []byte, sigHeader string) (*model.StripeWebhookEvent, error) {
	if g.webhookErr != nil {
		return nil, g.webhookErr
	}
	return g.event, nil
}

func (g *fakeGateway) setIntentStatus(intentID, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if intent, ok := g.intents[intentID]; ok {
		intent.Status = status
	}
}
