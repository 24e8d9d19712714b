package bureau

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/forward-rent/prequal/internal/apperr"
)

const (
	// DefaultBaseURL is the Stitch Credit sandbox.
	DefaultBaseURL = "https://api-sandbox.stitchcredit.com:443/api"

	defaultTokenTTL = 20 * time.Minute
	refreshMargin   = 60 * time.Second
	loginPath       = "/users/login"
)

// Login failures. The login response body is never carried in these errors.
var (
	ErrMissingCredentials  = errors.New("bureau username and password must be set")
	ErrCredentialsRejected = errors.New("bureau rejected username or password")
	ErrMalformedLogin      = errors.New("bureau login response is not valid JSON")
	ErrMissingToken        = errors.New("bureau login response missing token")
)

// Config holds the bureau endpoint and login.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// Session owns the cached bearer credential for the bureau.
//
// The mutex guards only the cached value. Logins are not serialized: callers
// that observe an empty or stale cache at the same time each log in and the
// last one to finish wins. Redundant logins are tolerated by the bureau.
type Session struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	now      func() time.Time

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// NewSession builds a Session. A nil client uses http.DefaultClient.
func NewSession(cfg Config, client *http.Client) *Session {
	if client == nil {
		client = http.DefaultClient
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Session{
		baseURL:  strings.TrimRight(base, "/"),
		username: cfg.Username,
		password: cfg.Password,
		http:     client,
		now:      time.Now,
	}
}

// Credential returns a cached token, logging in when the cache is empty or
// within the refresh margin of expiry.
func (s *Session) Credential(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, expiresAt := s.token, s.expiresAt
	s.mu.RUnlock()

	if token != "" && s.now().Before(expiresAt.Add(-refreshMargin)) {
		return token, nil
	}
	return s.login(ctx)
}

// Invalidate drops the cached credential.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string  `json:"accessToken"`
	Token       string  `json:"token"`
	ExpiresAt   float64 `json:"expiresAt"`
}

func (s *Session) login(ctx context.Context) (string, error) {
	if s.username == "" || s.password == "" {
		return "", apperr.Configuration("bureau credentials are not configured", ErrMissingCredentials)
	}

	body, err := json.Marshal(loginRequest{Username: s.username, Password: s.password})
	if err != nil {
		return "", apperr.New(apperr.KindInternal, "encode bureau login", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return "", apperr.New(apperr.KindInternal, "build bureau login", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", apperr.New(apperr.KindBureau, "bureau login failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.New(apperr.KindBureau, "bureau login failed", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", apperr.Configuration("bureau credentials rejected", fmt.Errorf("%w: status %d", ErrCredentialsRejected, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", &apperr.Error{
			Kind:    apperr.KindBureau,
			Message: "bureau login failed",
			Err:     fmt.Errorf("login status %d", resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	var out loginResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", apperr.New(apperr.KindBureau, "bureau login failed", ErrMalformedLogin)
	}
	token := out.AccessToken
	if token == "" {
		token = out.Token
	}
	if token == "" {
		return "", apperr.New(apperr.KindBureau, "bureau login failed", ErrMissingToken)
	}

	expiresAt := s.now().Add(defaultTokenTTL)
	if out.ExpiresAt > 0 {
		expiresAt = time.Unix(int64(out.ExpiresAt), 0)
	}

	s.mu.Lock()
	s.token = token
	s.expiresAt = expiresAt
	s.mu.Unlock()
	return token, nil
}
