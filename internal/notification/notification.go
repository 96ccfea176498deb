package notification

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// KindWelcome indicates a post-registration welcome message.
	KindWelcome = "welcome"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Welcome builds the standard welcome message for a newly registered user.
func Welcome(email, firstName string) Message {
	return Message{
		Kind:        KindWelcome,
		Destination: email,
		Body:        fmt.Sprintf("Welcome, %s! Your account has been created.", firstName),
	}
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}
