package notification

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// KindOffersGenerated tells a landlord that an applicant has offers.
	KindOffersGenerated = "offers_generated"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Subject     string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// OffersGenerated builds the landlord message for a generated offer menu.
func OffersGenerated(landlordEmail, listingAddress, offerID, band string, bundles int) Message {
	return Message{
		Kind:        KindOffersGenerated,
		Destination: landlordEmail,
		Subject:     fmt.Sprintf("New prequalified applicant for %s", listingAddress),
		Body:        fmt.Sprintf("Offer %s: risk band %s, %d lease options ready for review.", offerID, band, bundles),
	}
}

// LoggerNotifier writes notifications to the logger instead of delivering them.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		slog.String("kind", message.Kind),
		slog.String("destination", message.Destination),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body))
	return nil
}
