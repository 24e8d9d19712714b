package notification

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffersGeneratedMessage(t *testing.T) {
	msg := OffersGenerated("landlord@example.com", "456 Demo St", "offer-1", "A", 4)
	assert.Equal(t, KindOffersGenerated, msg.Kind)
	assert.Equal(t, "landlord@example.com", msg.Destination)
	assert.Contains(t, msg.Subject, "456 Demo St")
	assert.Contains(t, msg.Body, "risk band A")
}

func TestLoggerNotifierWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	n := NewLoggerNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, n.Send(context.Background(), OffersGenerated("l@example.com", "1 Main", "o", "B", 4)))
	assert.Contains(t, buf.String(), `"kind":"offers_generated"`)

	var nilNotifier *LoggerNotifier
	assert.NoError(t, nilNotifier.Send(context.Background(), Message{}))
}
