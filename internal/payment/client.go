// Package payment talks to the hosted-checkout provider. The provider
// exposes a small REST API: create a checkout session and fetch its state.
// Payment is confirmed only from provider-asserted session state (or the
// signed webhook); the client never trusts caller-asserted payment claims.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/aks-110/quickstay/internal/observability"
)

// Session statuses reported by the provider.
const (
	SessionOpen    = "open"
	SessionPaid    = "paid"
	SessionExpired = "expired"
)

var (
	ErrNotFound     = errors.New("payment: session not found")
	ErrUnauthorized = errors.New("payment: unauthorized")
)

// Session mirrors the provider's checkout session object.
type Session struct {
	ID                string            `json:"id"`
	URL               string            `json:"url"`
	Status            string            `json:"status"`
	AmountTotal       int64             `json:"amount_total"`
	Currency          string            `json:"currency"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

// CreateSessionParams describes a new checkout session. Amount is in minor
// currency units. Metadata carries the booking id so provider events can be
// correlated back to the booking.
type CreateSessionParams struct {
	Name       string            `json:"name"`
	Amount     int64             `json:"amount"`
	Currency   string            `json:"currency"`
	Quantity   int64             `json:"quantity"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata"`

	// ClientReferenceID is generated when empty; it gives the provider a
	// stable idempotency handle for the request.
	ClientReferenceID string `json:"client_reference_id"`
}

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

// New builds a provider client. rps bounds outbound request rate
// client-side so a burst of checkouts cannot trip the provider's limits.
func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// CreateSession opens a hosted-checkout session and returns it, including
// the redirect URL for the client.
func (c *Client) CreateSession(ctx context.Context, p CreateSessionParams) (Session, error) {
	if p.Quantity <= 0 {
		p.Quantity = 1
	}
	if p.Currency == "" {
		p.Currency = "usd"
	}
	if p.ClientReferenceID == "" {
		p.ClientReferenceID = uuid.NewString()
	}
	var out Session
	err := c.do(ctx, http.MethodPost, c.base+"/checkout/sessions", p, &out)
	return out, err
}

// GetSession fetches the current state of a checkout session.
func (c *Client) GetSession(ctx context.Context, id string) (Session, error) {
	var out Session
	err := c.do(ctx, http.MethodGet, c.base+"/checkout/sessions/"+id, nil, &out)
	return out, err
}

// do performs a request with client-side rate limiting, retries on 429 and
// transient 5xx honoring Retry-After, and JSON decode into out.
func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return err
		}
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			lastErr = err
			if !sleepBackoff(ctx, i, "") {
				return ctx.Err()
			}
			continue
		}

		observability.ObserveExternal("checkout", method+" /checkout/sessions", resp.StatusCode)

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			return ErrUnauthorized
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			retryAfter := resp.Header.Get("Retry-After")
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
			resp.Body.Close()
			lastErr = fmt.Errorf("payment: %s %s -> %d: %s", method, url, resp.StatusCode, snippet)
			if !sleepBackoff(ctx, i, retryAfter) {
				return ctx.Err()
			}
		default:
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
			resp.Body.Close()
			return fmt.Errorf("payment: %s %s -> %d: %s", method, url, resp.StatusCode, snippet)
		}
	}
	return lastErr
}

// sleepBackoff waits before the next attempt, honoring a Retry-After header
// when present. Returns false when the context was cancelled.
func sleepBackoff(ctx context.Context, attempt int, retryAfter string) bool {
	d := time.Duration(attempt+1) * 250 * time.Millisecond
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
			d = time.Duration(secs) * time.Second
		}
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
