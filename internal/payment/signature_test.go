package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func signedHeader(body []byte, at time.Time, secret string) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, ComputeSignature(body, ts, secret))
}

func TestVerifySignature(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	t.Run("valid", func(t *testing.T) {
		header := signedHeader(body, now, testSecret)
		require.NoError(t, VerifySignature(body, header, testSecret, now))
	})

	t.Run("tampered body", func(t *testing.T) {
		header := signedHeader(body, now, testSecret)
		err := VerifySignature([]byte(`{"id":"evt_2"}`), header, testSecret, now)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := signedHeader(body, now, "whsec_other")
		err := VerifySignature(body, header, testSecret, now)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		header := signedHeader(body, now.Add(-SignatureTolerance-time.Second), testSecret)
		err := VerifySignature(body, header, testSecret, now)
		assert.ErrorIs(t, err, ErrStaleSignature)
	})

	t.Run("future timestamp outside tolerance", func(t *testing.T) {
		header := signedHeader(body, now.Add(SignatureTolerance+time.Minute), testSecret)
		err := VerifySignature(body, header, testSecret, now)
		assert.ErrorIs(t, err, ErrStaleSignature)
	})

	t.Run("within tolerance", func(t *testing.T) {
		header := signedHeader(body, now.Add(-SignatureTolerance+time.Second), testSecret)
		assert.NoError(t, VerifySignature(body, header, testSecret, now))
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, header := range []string{"", "t=abc,v1=deadbeef", "v1=deadbeef", "t=123"} {
			err := VerifySignature(body, header, testSecret, now)
			assert.ErrorIs(t, err, ErrBadSignature, "header %q", header)
		}
	})
}
