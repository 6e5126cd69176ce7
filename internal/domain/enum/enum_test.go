package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(JobStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, `"completed"`, string(data))

	var s JobStatus
	require.NoError(t, json.Unmarshal([]byte(`"invoiced"`), &s))
	assert.Equal(t, JobStatusInvoiced, s)

	require.NoError(t, json.Unmarshal([]byte(`3`), &s))
	assert.Equal(t, JobStatusCancelled, s)

	assert.Error(t, json.Unmarshal([]byte(`"shipped"`), &s))
}

func TestParseStatuses(t *testing.T) {
	q, err := ParseQuoteStatus("converted")
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusConverted, q)

	inv, err := ParseInvoiceStatus("void")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusVoid, inv)

	po, err := ParsePurchaseOrderStatus("received")
	require.NoError(t, err)
	assert.Equal(t, PurchaseOrderStatusReceived, po)

	sub, err := ParseSubscriptionStatus("past_due")
	require.NoError(t, err)
	assert.Equal(t, SubscriptionStatusPastDue, sub)

	_, err = ParseInvoiceStatus("Paid")
	assert.Error(t, err)
}

func TestStatus_ScanAndOutOfRange(t *testing.T) {
	var s InvoiceStatus
	require.NoError(t, s.Scan(int64(1)))
	assert.Equal(t, InvoiceStatusPaid, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, InvoiceStatusUnpaid, s)

	assert.Equal(t, "unpaid", InvoiceStatus(42).String())

	v, err := PurchaseOrderStatusOrdered.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}
