package creditpull

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forward-rent/prequal/internal/apperr"
	"github.com/forward-rent/prequal/internal/audit"
	"github.com/forward-rent/prequal/internal/bureau"
	"github.com/forward-rent/prequal/internal/risk"
)

func input() RecordInput {
	return RecordInput{
		ApplicantID: uuid.NewString(),
		ListingID:   uuid.NewString(),
		ConsentID:   uuid.NewString(),
		Payload: bureau.Payload{
			FirstName:      "Kylia",
			MiddleName:     "R",
			LastName:       "Paolimelli",
			BirthDate:      "1990-01-15",
			IdentityNumber: "666-00-1234",
			Address:        bureau.Address{Line1: "123 Test Ave", City: "San Francisco", State: "CA", PostalCode: "94102"},
		},
		Response: map[string]any{"score": 760.0, "reportId": "r-1"},
	}
}

func TestRecordSuccessStoresSummaryWithoutSecret(t *testing.T) {
	sealer, err := NewSealer("too-short")
	require.NoError(t, err)
	assert.False(t, sealer.Encrypts())

	svc := NewService(NewMemoryRepository(), sealer, audit.NewRecorder(audit.NewMemoryRepository(), nil))
	rec, err := svc.RecordSuccess(context.Background(), input())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, rec.Status)
	assert.Equal(t, "experian", rec.Bureau)
	assert.Equal(t, "exp-prequal-vantage4", rec.Endpoint)
	assert.Empty(t, rec.EncryptedResponse)
	require.NotNil(t, rec.Summary)
	assert.Equal(t, risk.BandA, rec.Summary.RiskBand)
	assert.True(t, rec.Summary.ScorePresent)

	_, err = svc.Response(context.Background(), rec.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecordSuccessEncryptsWithSecret(t *testing.T) {
	sealer, err := NewSealer(strings.Repeat("k", 32))
	require.NoError(t, err)
	require.True(t, sealer.Encrypts())

	svc := NewService(NewMemoryRepository(), sealer, audit.NewRecorder(audit.NewMemoryRepository(), nil))
	ctx := context.Background()
	rec, err := svc.RecordSuccess(ctx, input())
	require.NoError(t, err)

	assert.Nil(t, rec.Summary)
	require.NotEmpty(t, rec.EncryptedResponse)
	assert.NotContains(t, rec.EncryptedResponse, "reportId")

	out, err := svc.Response(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "r-1", out["reportId"])
	assert.Equal(t, 760.0, out["score"])
}

func TestRedactKeepsOnlyLastFour(t *testing.T) {
	red := Redact(input().Payload)
	assert.Equal(t, "1234", red.IdentityLast4)
	assert.Equal(t, "Kylia", red.FirstName)
	assert.Equal(t, "94102", red.Address.PostalCode)
}

func TestGetMissing(t *testing.T) {
	sealer, _ := NewSealer("")
	svc := NewService(NewMemoryRepository(), sealer, audit.NewRecorder(audit.NewMemoryRepository(), nil))
	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestResponseRecordsViewEvent(t *testing.T) {
	ctx := context.Background()
	sealer, err := NewSealer(strings.Repeat("k", 32))
	require.NoError(t, err)
	recorder := audit.NewRecorder(audit.NewMemoryRepository(), nil)
	svc := NewService(NewMemoryRepository(), sealer, recorder)

	rec, err := svc.RecordSuccess(ctx, input())
	require.NoError(t, err)

	_, err = svc.Response(ctx, rec.ID)
	require.NoError(t, err)

	events, err := recorder.Trail(ctx, audit.Filter{ApplicantID: rec.ApplicantID})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.KindCreditPullResponseViewed, events[0].Kind)
	assert.Equal(t, audit.ActorLandlord, events[0].Actor)
	assert.Equal(t, rec.ID, events[0].Metadata[audit.MetaCreditPullID])
	assert.Equal(t, rec.ListingID, events[0].Metadata[audit.MetaListingID])
}

func TestResponseSummaryOnlyRecordsNothing(t *testing.T) {
	ctx := context.Background()
	sealer, err := NewSealer("")
	require.NoError(t, err)
	recorder := audit.NewRecorder(audit.NewMemoryRepository(), nil)
	svc := NewService(NewMemoryRepository(), sealer, recorder)

	rec, err := svc.RecordSuccess(ctx, input())
	require.NoError(t, err)

	_, err = svc.Response(ctx, rec.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	events, err := recorder.Trail(ctx, audit.Filter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}
