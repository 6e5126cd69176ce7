package stripe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func TestWebhook_Verify(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated","data":{"object":{}}}`)
	now := time.Unix(1_760_000_000, 0)
	w := NewWebhook(testSecret, 0)
	w.now = func() time.Time { return now }

	assert.NoError(t, w.Verify(payload, SignatureHeaderValue(testSecret, payload, now)))
	assert.ErrorIs(t, w.Verify(payload, ""), ErrMissingSignature)
	assert.ErrorIs(t, w.Verify(payload, SignatureHeaderValue("wrong", payload, now)), ErrInvalidSignature)
	assert.ErrorIs(t, w.Verify([]byte(`{"tampered":true}`), SignatureHeaderValue(testSecret, payload, now)), ErrInvalidSignature)
	assert.ErrorIs(t, w.Verify(payload, "garbage"), ErrInvalidSignature)

	stale := SignatureHeaderValue(testSecret, payload, now.Add(-6*time.Minute))
	assert.ErrorIs(t, w.Verify(payload, stale), ErrTimestampExpired)
}

func TestWebhook_VerifyAcceptsAnyOfSeveralSignatures(t *testing.T) {
	payload := []byte(`{"id":"evt_2","type":"x"}`)
	now := time.Now()
	w := NewWebhook(testSecret, time.Minute)

	good := SignatureHeaderValue(testSecret, payload, now)
	header := good + ",v1=deadbeef"
	assert.NoError(t, w.Verify(payload, header))
}

func TestWebhook_NotConfigured(t *testing.T) {
	w := NewWebhook("  ", 0)
	assert.False(t, w.IsConfigured())
	assert.ErrorIs(t, w.Verify([]byte(`{}`), "t=1,v1=a"), ErrNotConfigured)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    *SubscriptionUpdate
	}{
		{
			name: "checkout completed",
			payload: `{"id":"evt_c","type":"checkout.session.completed","created":1760000000,
				"data":{"object":{"customer":"cus_1","subscription":"sub_1","mode":"subscription",
				"metadata":{"tenant_id":"t-1","plan":"pro"}}}}`,
			want: &SubscriptionUpdate{TenantID: "t-1", CustomerID: "cus_1", SubscriptionID: "sub_1", Plan: "pro", Status: "active"},
		},
		{
			name: "subscription deleted",
			payload: `{"id":"evt_d","type":"customer.subscription.deleted",
				"data":{"object":{"id":"sub_1","customer":"cus_1","status":"active","metadata":{},
				"items":{"data":[{"price":{"id":"price_1","nickname":"Starter"}}]}}}}`,
			want: &SubscriptionUpdate{CustomerID: "cus_1", SubscriptionID: "sub_1", Plan: "Starter", Status: "canceled"},
		},
		{
			name:    "payment failed",
			payload: `{"id":"evt_f","type":"invoice.payment_failed","data":{"object":{"customer":"cus_9","subscription":"sub_9"}}}`,
			want:    &SubscriptionUpdate{CustomerID: "cus_9", SubscriptionID: "sub_9", Status: "past_due"},
		},
		{
			name:    "unhandled type",
			payload: `{"id":"evt_u","type":"charge.succeeded","data":{"object":{}}}`,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Parse([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Subscription)
		})
	}
}

func TestParse_SubscriptionPeriodEnd(t *testing.T) {
	ev, err := Parse([]byte(`{"id":"evt_s","type":"customer.subscription.updated",
		"data":{"object":{"id":"sub_1","customer":"cus_1","status":"past_due","current_period_end":1760000000,
		"metadata":{"tenant_id":"t-2"},"items":{"data":[{"price":{"id":"price_1","lookup_key":"pro_monthly"}}]}}}}`))
	require.NoError(t, err)
	require.NotNil(t, ev.Subscription)
	assert.Equal(t, "pro_monthly", ev.Subscription.Plan)
	assert.Equal(t, "t-2", ev.Subscription.TenantID)
	require.NotNil(t, ev.Subscription.CurrentPeriodEnd)
	assert.Equal(t, int64(1760000000), ev.Subscription.CurrentPeriodEnd.Unix())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = Parse([]byte(`{"type":"x"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
