package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forward-rent/prequal/internal/bureau"
	"github.com/forward-rent/prequal/internal/config"
	"github.com/forward-rent/prequal/internal/logging"
)

type harness struct {
	t        *testing.T
	srv      *Server
	prequals *atomic.Int32
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	prequals := &atomic.Int32{}
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accessToken":"sandbox-token"}`))
	})
	mux.HandleFunc("/experian/credit-profile/credit-report/standard/exp-prequal-vantage4", func(w http.ResponseWriter, r *http.Request) {
		prequals.Add(1)
		if r.Header.Get("Authorization") != "Bearer sandbox-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"score":760}`))
	})
	bureauSrv := httptest.NewServer(mux)
	t.Cleanup(bureauSrv.Close)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	cfg := config.Config{
		AppName:        "prequal-test",
		AppEnv:         "development",
		Port:           "0",
		IdempotencyTTL: time.Minute,
		Bureau: bureau.Config{
			BaseURL:  bureauSrv.URL,
			Username: "demo",
			Password: "secret",
			Timeout:  time.Second,
		},
		ConsentSkew:      60 * time.Second,
		PrequalRateLimit: 5,
	}
	srv, err := New(cfg, nil, cache, logging.Discard())
	require.NoError(t, err)
	return &harness{t: t, srv: srv, prequals: prequals}
}

func (h *harness) do(method, path string, body any, headers map[string]string) (int, []byte) {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := h.srv.App().Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, buf.Bytes()
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestPrequalificationFlow(t *testing.T) {
	h := newHarness(t)

	status, raw := h.do(http.MethodPost, "/api/v1/listings", map[string]any{
		"landlordName":       "Demo Landlord",
		"landlordEmail":      "landlord@example.com",
		"address":            "456 Demo St, San Francisco, CA",
		"baseRent":           2800,
		"minDeposit":         1400,
		"maxDeposit":         5600,
		"minTermMonths":      3,
		"maxTermMonths":      12,
		"autopayDiscountMax": 50,
	}, nil)
	require.Equal(t, http.StatusCreated, status, string(raw))
	listingID := decode(t, raw)["id"].(string)

	status, raw = h.do(http.MethodPost, "/api/v1/applicants", map[string]any{
		"firstName": "Kylia",
		"lastName":  "Paolimelli",
		"birthDate": "1990-01-15",
		"ssn":       "666001234",
		"currentAddress": map[string]any{
			"line1": "123 Test Ave", "city": "San Francisco", "state": "CA", "postalCode": "94102",
		},
	}, nil)
	require.Equal(t, http.StatusCreated, status, string(raw))
	applicant := decode(t, raw)
	applicantID := applicant["id"].(string)
	assert.Equal(t, "1234", applicant["ssnLast4"])
	assert.NotContains(t, applicant, "identityFingerprint")

	status, raw = h.do(http.MethodGet, "/api/v1/consent", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, decode(t, raw)["consentText"], "tenant screening")

	status, raw = h.do(http.MethodPost, "/api/v1/consent", map[string]any{
		"applicantId":  applicantID,
		"listingId":    listingID,
		"signedName":   "Kylia Paolimelli",
		"consentGiven": true,
	}, nil)
	require.Equal(t, http.StatusCreated, status, string(raw))
	signed := decode(t, raw)

	prequalBody := map[string]any{
		"applicantId": applicantID,
		"listingId":   listingID,
		"consentId":   signed["consentId"],
		"signedAt":    signed["signedAt"],
		"ssn":         "666-00-1234",
	}
	key := map[string]string{"Idempotency-Key": "attempt-1"}
	status, raw = h.do(http.MethodPost, "/api/v1/prequal", prequalBody, key)
	require.Equal(t, http.StatusOK, status, string(raw))
	menu := decode(t, raw)
	assert.Equal(t, "A", menu["riskBand"])
	assert.Len(t, menu["offers"], 4)

	status, replay := h.do(http.MethodPost, "/api/v1/prequal", prequalBody, key)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, string(raw), string(replay))
	assert.EqualValues(t, 1, h.prequals.Load())

	offerID := menu["offerId"].(string)
	status, raw = h.do(http.MethodGet, "/api/v1/offers/"+offerID, nil, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	viewed := decode(t, raw)
	assert.Equal(t, menu["recommendedOfferId"], viewed["recommendedOfferId"])

	lst := viewed["listing"].(map[string]any)
	assert.Equal(t, "456 Demo St, San Francisco, CA", lst["address"])
	assert.EqualValues(t, 2800, lst["baseRent"])
	who := viewed["applicant"].(map[string]any)
	assert.Equal(t, "Kylia", who["firstName"])
	assert.Equal(t, "Paolimelli", who["lastName"])
	assert.NotContains(t, who, "ssnLast4")
	pull := viewed["creditPull"].(map[string]any)
	assert.Equal(t, menu["creditPullId"], pull["id"])
	assert.Equal(t, "1234", pull["requestPayloadRedacted"].(map[string]any)["ssnLast4"])
	assert.Equal(t, "A", pull["responseSummary"].(map[string]any)["riskBand"])
	assert.NotEmpty(t, pull["createdAt"])
	assert.NotContains(t, string(raw), "666001234")

	status, raw = h.do(http.MethodGet, "/api/v1/audit?applicantId="+applicantID, nil, nil)
	require.Equal(t, http.StatusOK, status)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(raw, &events))
	kinds := make([]string, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e["type"].(string))
	}
	assert.Equal(t, []string{
		"CONSENT_SIGNED",
		"CREDIT_PULL_REQUESTED",
		"CREDIT_PULL_SUCCEEDED",
		"OFFERS_GENERATED",
		"OFFER_VIEWED",
	}, kinds)
}

func TestUnknownOfferIsNotFound(t *testing.T) {
	h := newHarness(t)
	status, raw := h.do(http.MethodGet, "/api/v1/offers/does-not-exist", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "offer not found", decode(t, raw)["error"])
}

func TestInvalidListingPolicy(t *testing.T) {
	h := newHarness(t)
	status, raw := h.do(http.MethodPost, "/api/v1/listings", map[string]any{
		"address":       "1 Main St",
		"baseRent":      1000,
		"minDeposit":    900,
		"maxDeposit":    100,
		"minTermMonths": 6,
		"maxTermMonths": 12,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	body := decode(t, raw)
	assert.Contains(t, body["error"], "MaxDeposit")
}

func TestHealthAndPing(t *testing.T) {
	h := newHarness(t)

	status, raw := h.do(http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	health := decode(t, raw)["status"].(map[string]any)
	assert.Equal(t, "in-memory", health["postgres"])
	assert.Equal(t, "ok", health["redis"])

	status, raw = h.do(http.MethodGet, "/api/v1/ping", nil, map[string]string{"X-Request-ID": "ping-1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ping-1", decode(t, raw)["requestId"])
}

func TestConsentForUnknownApplicant(t *testing.T) {
	h := newHarness(t)
	status, raw := h.do(http.MethodPost, "/api/v1/consent", map[string]any{
		"applicantId":  "00000000-0000-0000-0000-000000000000",
		"listingId":    "not-a-uuid",
		"signedName":   "Nobody",
		"consentGiven": true,
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "applicant not found", decode(t, raw)["error"])
}
