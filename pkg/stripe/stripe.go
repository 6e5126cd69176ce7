// Package stripe verifies and decodes Stripe webhook deliveries.
// Only the subscription lifecycle events the API reacts to are decoded;
// every other event type parses to an Event with a nil Subscription.
package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader is the request header carrying the webhook signature
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance is how far the signed timestamp may drift from now
const DefaultTolerance = 5 * time.Minute

// Event types decoded into a SubscriptionUpdate
const (
	EventCheckoutCompleted    = "checkout.session.completed"
	EventSubscriptionCreated  = "customer.subscription.created"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventInvoicePaymentFailed = "invoice.payment_failed"
)

const (
	metadataTenantKey = "tenant_id"
	metadataPlanKey   = "plan"

	statusActive   = "active"
	statusPastDue  = "past_due"
	statusCanceled = "canceled"
)

var (
	ErrMissingSignature = errors.New("stripe: missing signature header")
	ErrInvalidSignature = errors.New("stripe: invalid signature")
	ErrTimestampExpired = errors.New("stripe: signature timestamp outside tolerance")
	ErrInvalidPayload   = errors.New("stripe: invalid payload")
	ErrNotConfigured    = errors.New("stripe: webhook secret is not configured")
)

// Event is a verified webhook delivery
type Event struct {
	ID           string
	Type         string
	Created      time.Time
	Subscription *SubscriptionUpdate
}

// SubscriptionUpdate is the tenant subscription state carried by an event.
// Empty fields mean the event did not carry that value.
type SubscriptionUpdate struct {
	TenantID         string
	CustomerID       string
	SubscriptionID   string
	Plan             string
	Status           string
	CurrentPeriodEnd *time.Time
}

// Webhook verifies signatures with the endpoint secret
type Webhook struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

// NewWebhook creates a verifier. A zero tolerance uses DefaultTolerance.
func NewWebhook(secret string, tolerance time.Duration) *Webhook {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Webhook{secret: strings.TrimSpace(secret), tolerance: tolerance, now: time.Now}
}

// IsConfigured reports whether a webhook secret is set
func (w *Webhook) IsConfigured() bool {
	return w != nil && w.secret != ""
}

// Verify checks the Stripe-Signature header value against payload
func (w *Webhook) Verify(payload []byte, header string) error {
	if !w.IsConfigured() {
		return ErrNotConfigured
	}
	header = strings.TrimSpace(header)
	if header == "" {
		return ErrMissingSignature
	}

	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	drift := w.now().Sub(time.Unix(ts, 0))
	if drift < 0 {
		drift = -drift
	}
	if drift > w.tolerance {
		return ErrTimestampExpired
	}

	expected := Sign(w.secret, timestamp, payload)
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign computes the v1 signature of payload at timestamp
func Sign(secret, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(timestamp + "." + string(payload)))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeaderValue builds a header value for payload signed at t
func SignatureHeaderValue(secret string, payload []byte, t time.Time) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	return fmt.Sprintf("t=%s,v1=%s", ts, Sign(secret, ts, payload))
}

func parseSignatureHeader(header string) (string, []string, error) {
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return "", nil, ErrInvalidSignature
	}
	return timestamp, signatures, nil
}

type rawEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSession struct {
	Customer          string            `json:"customer"`
	Subscription      string            `json:"subscription"`
	ClientReferenceID string            `json:"client_reference_id"`
	Mode              string            `json:"mode"`
	Metadata          map[string]string `json:"metadata"`
}

type subscription struct {
	ID               string            `json:"id"`
	Customer         string            `json:"customer"`
	Status           string            `json:"status"`
	CurrentPeriodEnd int64             `json:"current_period_end"`
	Metadata         map[string]string `json:"metadata"`
	Items            struct {
		Data []struct {
			Price struct {
				ID        string `json:"id"`
				LookupKey string `json:"lookup_key"`
				Nickname  string `json:"nickname"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

type invoice struct {
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
}

// Parse decodes a verified payload
func Parse(payload []byte) (*Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, ErrInvalidPayload
	}
	if strings.TrimSpace(raw.ID) == "" || strings.TrimSpace(raw.Type) == "" {
		return nil, ErrInvalidPayload
	}

	event := &Event{ID: raw.ID, Type: raw.Type}
	if raw.Created > 0 {
		event.Created = time.Unix(raw.Created, 0).UTC()
	}

	var err error
	switch raw.Type {
	case EventCheckoutCompleted:
		event.Subscription, err = parseCheckout(raw.Data.Object)
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		event.Subscription, err = parseSubscription(raw.Type, raw.Data.Object)
	case EventInvoicePaymentFailed:
		event.Subscription, err = parseInvoiceFailure(raw.Data.Object)
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func parseCheckout(obj json.RawMessage) (*SubscriptionUpdate, error) {
	var s checkoutSession
	if err := json.Unmarshal(obj, &s); err != nil {
		return nil, ErrInvalidPayload
	}
	tenantID := s.Metadata[metadataTenantKey]
	if tenantID == "" {
		tenantID = s.ClientReferenceID
	}
	update := &SubscriptionUpdate{
		TenantID:       tenantID,
		CustomerID:     s.Customer,
		SubscriptionID: s.Subscription,
		Plan:           s.Metadata[metadataPlanKey],
	}
	if s.Mode == "subscription" || s.Subscription != "" {
		update.Status = statusActive
	}
	return update, nil
}

func parseSubscription(eventType string, obj json.RawMessage) (*SubscriptionUpdate, error) {
	var s subscription
	if err := json.Unmarshal(obj, &s); err != nil {
		return nil, ErrInvalidPayload
	}
	update := &SubscriptionUpdate{
		TenantID:       s.Metadata[metadataTenantKey],
		CustomerID:     s.Customer,
		SubscriptionID: s.ID,
		Status:         s.Status,
	}
	if eventType == EventSubscriptionDeleted {
		update.Status = statusCanceled
	}
	if len(s.Items.Data) > 0 {
		price := s.Items.Data[0].Price
		switch {
		case price.LookupKey != "":
			update.Plan = price.LookupKey
		case price.Nickname != "":
			update.Plan = price.Nickname
		default:
			update.Plan = price.ID
		}
	}
	if s.CurrentPeriodEnd > 0 {
		end := time.Unix(s.CurrentPeriodEnd, 0).UTC()
		update.CurrentPeriodEnd = &end
	}
	return update, nil
}

func parseInvoiceFailure(obj json.RawMessage) (*SubscriptionUpdate, error) {
	var inv invoice
	if err := json.Unmarshal(obj, &inv); err != nil {
		return nil, ErrInvalidPayload
	}
	return &SubscriptionUpdate{
		CustomerID:     inv.Customer,
		SubscriptionID: inv.Subscription,
		Status:         statusPastDue,
	}, nil
}
