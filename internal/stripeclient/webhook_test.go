package stripeclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test"

var eventPayload = []byte(`{
	"id": "evt_123",
	"type": "payment_intent.succeeded",
	"data": {"object": {"id": "pi_123", "amount": 15000}}
}`)

func TestConstructEvent_ValidSignature(t *testing.T) {
	t.Parallel()
	now := time.Unix(1700000000, 0)
	header := SignPayload(eventPayload, webhookSecret, now)

	event, err := constructEventAt(eventPayload, header, webhookSecret, now, DefaultTolerance)

	require.NoError(t, err)
	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
	assert.Contains(t, string(event.Data.Object), "pi_123")
}

func TestConstructEvent_TamperedPayload(t *testing.T) {
	t.Parallel()
	now := time.Unix(1700000000, 0)
	header := SignPayload(eventPayload, webhookSecret, now)

	tampered := []byte(`{"id": "evt_123", "type": "payment_intent.succeeded", "data": {"object": {"id": "pi_123", "amount": 1}}}`)
	_, err := constructEventAt(tampered, header, webhookSecret, now, DefaultTolerance)

	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestConstructEvent_WrongSecret(t *testing.T) {
	t.Parallel()
	now := time.Unix(1700000000, 0)
	header := SignPayload(eventPayload, "whsec_other", now)

	_, err := constructEventAt(eventPayload, header, webhookSecret, now, DefaultTolerance)

	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestConstructEvent_StaleTimestamp(t *testing.T) {
	t.Parallel()
	signedAt := time.Unix(1700000000, 0)
	header := SignPayload(eventPayload, webhookSecret, signedAt)

	_, err := constructEventAt(eventPayload, header, webhookSecret, signedAt.Add(10*time.Minute), DefaultTolerance)
	assert.ErrorIs(t, err, ErrTimestampTooOld)

	// Timestamps from the future are rejected the same way.
	_, err = constructEventAt(eventPayload, header, webhookSecret, signedAt.Add(-10*time.Minute), DefaultTolerance)
	assert.ErrorIs(t, err, ErrTimestampTooOld)
}

func TestConstructEvent_MalformedHeader(t *testing.T) {
	t.Parallel()
	now := time.Unix(1700000000, 0)

	cases := []string{
		"",
		"t=abc,v1=deadbeef",
		"t=1700000000",
		"v1=deadbeef",
		"garbage",
	}
	for _, header := range cases {
		_, err := constructEventAt(eventPayload, header, webhookSecret, now, DefaultTolerance)
		assert.ErrorIs(t, err, ErrInvalidSignatureHeader, "header: %q", header)
	}
}

func TestConstructEvent_MultipleSignatures(t *testing.T) {
	t.Parallel()
	now := time.Unix(1700000000, 0)
	valid := SignPayload(eventPayload, webhookSecret, now)

	// A stale v1 entry alongside the valid one still verifies.
	header := "t=1700000000,v1=deadbeef," + valid[len("t=1700000000,"):]
	_, err := constructEventAt(eventPayload, header, webhookSecret, now, DefaultTolerance)

	assert.NoError(t, err)
}
