package bureau

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/forward-rent/prequal/internal/apperr"
)

const (
	// Name and Endpoint identify the pull on stored records.
	Name     = "experian"
	Endpoint = "exp-prequal-vantage4"

	prequalPath    = "/experian/credit-profile/credit-report/standard/" + Endpoint
	maxAuthRetries = 1
)

// ErrUnauthorized is returned after the bureau rejects a fresh credential.
var ErrUnauthorized = errors.New("bureau rejected credential")

// Gateway issues prequalification requests against a credit bureau.
type Gateway interface {
	RequestPrequalification(ctx context.Context, payload Payload) (map[string]any, error)
}

// Client is the HTTP Gateway backed by a Session.
type Client struct {
	session *Session
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New builds a Client and its Session from cfg.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := &http.Client{Timeout: timeout}
	return NewClient(NewSession(cfg, hc), hc, logger)
}

// NewClient builds a Client around an existing session.
func NewClient(session *Session, client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{session: session, baseURL: session.baseURL, http: client, logger: logger}
}

// RequestPrequalification posts payload with a valid credential. A 401 drops
// the credential and the request is sent once more with a fresh one.
func (c *Client) RequestPrequalification(ctx context.Context, payload Payload) (map[string]any, error) {
	body, err := json.Marshal(payload.normalized())
	if err != nil {
		return nil, apperr.New(apperr.KindInternal, "encode prequal payload", err)
	}

	for attempt := 0; ; attempt++ {
		token, err := c.session.Credential(ctx)
		if err != nil {
			return nil, err
		}

		status, raw, err := c.post(ctx, token, body)
		if err != nil {
			return nil, apperr.New(apperr.KindBureau, "credit prequal request failed", err)
		}

		if status == http.StatusUnauthorized {
			c.session.Invalidate()
			if attempt < maxAuthRetries {
				c.log("bureau rejected credential, retrying", slog.Int("attempt", attempt+1))
				continue
			}
			return nil, &apperr.Error{Kind: apperr.KindBureauAuth, Message: "credit prequal request failed", Err: ErrUnauthorized, Status: status}
		}
		if status < 200 || status >= 300 {
			return nil, &apperr.Error{
				Kind:    apperr.KindBureau,
				Message: "credit prequal request failed",
				Err:     fmt.Errorf("status %d: %s", status, raw),
				Status:  status,
			}
		}
		return decode(raw), nil
	}
}

func (c *Client) post(ctx context.Context, token string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+prequalPath, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, raw, nil
}

func (c *Client) log(msg string, attrs ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, attrs...)
	}
}

// decode returns the body as an object, wrapping anything else under "raw".
func decode(raw []byte) map[string]any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{"raw": v}
}
