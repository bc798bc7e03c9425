package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"application-portal/internal/config"
	"application-portal/internal/model"
)

// ErrIntentNotFound is returned when the processor does not know the
// requested payment intent.
var ErrIntentNotFound = errors.New("payment intent not found")

// ErrBadSignature is returned when a webhook payload fails verification.
var ErrBadSignature = errors.New("webhook signature verification failed")

// PaymentGateway is the processor-facing surface the workflow depends on.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*model.PaymentIntent, error)
	RetrievePaymentIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethod string) (*model.PaymentIntent, error)
	ConstructWebhookEvent(payload []byte, sigHeader string) (*model.StripeWebhookEvent, error)
}

type stripeClientImpl struct {
	httpClient    *http.Client
	baseAPIURL    string
	secretKey     string
	webhookSecret string
	now           func() time.Time
}

// signature tolerance; older timestamps are treated as replays
const signatureTolerance = 5 * time.Minute

func NewStripeClient(cfg *config.Stripe) PaymentGateway {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseAPIURL:    strings.TrimRight(cfg.BaseAPIURL, "/"),
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		now:           time.Now,
	}
}

type stripeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *stripeClientImpl) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*model.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("automatic_payment_methods[allow_redirects]", "never")
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	return c.doIntentRequest(ctx, http.MethodPost, "/v1/payment_intents", form)
}

func (c *stripeClientImpl) RetrievePaymentIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	return c.doIntentRequest(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(intentID), nil)
}

func (c *stripeClientImpl) ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethod string) (*model.PaymentIntent, error) {
	form := url.Values{}
	form.Set("payment_method", paymentMethod)

	return c.doIntentRequest(ctx, http.MethodPost, "/v1/payment_intents/"+url.PathEscape(intentID)+"/confirm", form)
}

func (c *stripeClientImpl) doIntentRequest(ctx context.Context, method, path string, form url.Values) (*model.PaymentIntent, error) {
	var bodyReader io.Reader
	if form != nil {
		bodyReader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseAPIURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stripe response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody stripeErrorBody
		if jsonErr := json.Unmarshal(body, &errBody); jsonErr == nil && errBody.Error.Code == "resource_missing" {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(body))
	}

	var intent model.PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("decode stripe response: %w", err)
	}

	return &intent, nil
}

// ConstructWebhookEvent verifies the Stripe-Signature header over the raw
// payload and decodes the event. The signature scheme is an HMAC-SHA256 of
// "<timestamp>.<payload>" keyed with the webhook secret, carried as
// "t=<timestamp>,v1=<hex>" in the header.
func (c *stripeClientImpl) ConstructWebhookEvent(payload []byte, sigHeader string) (*model.StripeWebhookEvent, error) {
	if c.webhookSecret == "" {
		return nil, errors.New("webhook secret not configured")
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	age := c.now().Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return nil, ErrBadSignature
	}

	expected := computeSignature(c.webhookSecret, timestamp, payload)
	valid := false
	for _, sig := range signatures {
		if hmac.Equal(sig, expected) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrBadSignature
	}

	var event model.StripeWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	return &event, nil
}

func parseSignatureHeader(header string) (int64, [][]byte, error) {
	if header == "" {
		return 0, nil, ErrBadSignature
	}

	var timestamp int64
	var signatures [][]byte
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			t, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, ErrBadSignature
			}
			timestamp = t
		case "v1":
			sig, err := hex.DecodeString(kv[1])
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, ErrBadSignature
	}
	return timestamp, signatures, nil
}

func computeSignature(secret string, timestamp int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return mac.Sum(nil)
}
