package stripeclient

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

// DefaultTolerance is how far a webhook timestamp may drift before the
// signature is rejected as a possible replay.
const DefaultTolerance = 5 * time.Minute

var (
	ErrInvalidSignatureHeader = errors.New("invalid Stripe-Signature header")
	ErrSignatureMismatch      = errors.New("webhook signature mismatch")
	ErrTimestampTooOld        = errors.New("webhook timestamp outside tolerance")
)

// Event is a decoded webhook event envelope.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ConstructEvent verifies the Stripe-Signature header against the raw
// payload and decodes the event. The signed payload is "<timestamp>.<body>"
// and the expected signature is carried in one or more v1 entries.
func ConstructEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	return constructEventAt(payload, sigHeader, secret, time.Now(), DefaultTolerance)
}

func constructEventAt(payload []byte, sigHeader, secret string, now time.Time, tolerance time.Duration) (*Event, error) {
	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	ts := time.Unix(timestamp, 0)
	if now.Sub(ts) > tolerance || ts.Sub(now) > tolerance {
		return nil, ErrTimestampTooOld
	}

	expected := computeSignature(timestamp, payload, secret)
	matched := false
	for _, sig := range signatures {
		got, decErr := hex.DecodeString(sig)
		if decErr != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrSignatureMismatch
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	return &event, nil
}

func parseSignatureHeader(header string) (timestamp int64, signatures []string, err error) {
	if header == "" {
		return 0, nil, ErrInvalidSignatureHeader
	}
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp, err = strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignatureHeader
			}
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, ErrInvalidSignatureHeader
	}
	return timestamp, signatures, nil
}

func computeSignature(timestamp int64, payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignPayload produces a valid Stripe-Signature header for the payload.
// Used by tests and local tooling.
func SignPayload(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	sig := computeSignature(ts, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(sig))
}
