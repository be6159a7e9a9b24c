// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	apperrors "escalation-notifier/internal/common/errors"
	"escalation-notifier/internal/common/logger"
	"escalation-notifier/internal/common/metrics"
	"escalation-notifier/internal/rules"
)

// Config controls delivery routing.
type Config struct {
	// TestMode redirects every send to TestEmail without altering content.
	TestMode   bool
	TestEmail  string
	AdminEmail string
}

// Notifier routes evaluator actions through a Sink, alerting the admin when a
// send fails. Admin alerts are strictly one level deep: a failure delivering
// an alert is logged and dropped.
type Notifier struct {
	sink   Sink
	config Config
	logger logger.Logger
}

func NewNotifier(sink Sink, config Config, log logger.Logger) *Notifier {
	return &Notifier{
		sink:   sink,
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// Send delivers one action. Failures are reported to the admin and returned;
// callers decide whether the run continues.
func (n *Notifier) Send(ctx context.Context, action rules.Action) error {
	email := action.Recipient
	if n.config.TestMode {
		email = n.config.TestEmail
	}

	handle, err := n.sink.ResolveRecipient(ctx, email)
	if err != nil {
		n.logger.WithError(err).Error("failed to resolve recipient", map[string]interface{}{
			"email": email,
			"kind":  string(action.Kind),
		})
		metrics.NotificationFailures.WithLabelValues("recipient_lookup").Inc()
		n.alertAdmin(ctx, email, fmt.Sprintf("Error finding user: %v for email %s", err, email))
		return apperrors.NewRecipientLookupFailedError(email, err)
	}

	if err := n.sink.Deliver(ctx, handle, action.Message, action.Link); err != nil {
		n.logger.WithError(err).Error("failed to deliver notification", map[string]interface{}{
			"email": email,
			"kind":  string(action.Kind),
		})
		metrics.NotificationFailures.WithLabelValues("delivery").Inc()
		n.alertAdmin(ctx, email, fmt.Sprintf("Error sending message to %s: %v", email, err))
		return apperrors.NewDeliveryFailedError(email, err)
	}

	metrics.NotificationsSent.WithLabelValues(string(action.Kind)).Inc()
	n.logger.Info("notification sent", map[string]interface{}{
		"email": email,
		"kind":  string(action.Kind),
	})
	return nil
}

// AlertAdmin sends a plain message to the configured admin. Failures are
// logged only.
func (n *Notifier) AlertAdmin(ctx context.Context, text string) {
	n.alertAdmin(ctx, "", text)
}

func (n *Notifier) alertAdmin(ctx context.Context, failedRecipient, text string) {
	// A failed send to the admin must not trigger another alert.
	if failedRecipient == n.config.AdminEmail {
		return
	}

	email := n.config.AdminEmail
	if n.config.TestMode {
		email = n.config.TestEmail
	}

	handle, err := n.sink.ResolveRecipient(ctx, email)
	if err != nil {
		n.logger.WithError(err).Error("failed to resolve admin recipient", map[string]interface{}{
			"email": email,
		})
		return
	}
	if err := n.sink.Deliver(ctx, handle, text, ""); err != nil {
		n.logger.WithError(err).Error("failed to deliver admin alert", map[string]interface{}{
			"email": email,
		})
		return
	}
	metrics.NotificationsSent.WithLabelValues(string(rules.KindAdmin)).Inc()
}
