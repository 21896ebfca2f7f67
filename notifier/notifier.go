// Package notifier delivers deal alerts to subscribers.
package notifier

import (
	"context"
	"strings"

	"flight-deals/utils"
)

// Notifier sends one message body to a list of addresses
type Notifier interface {
	Send(ctx context.Context, addresses []string, subject, body string) error
}

// LogNotifier only logs what would have been sent
type LogNotifier struct {
	logger *utils.Logger
}

// NewLogNotifier creates a dry-run notifier
func NewLogNotifier(logger *utils.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, addresses []string, subject, body string) error {
	n.logger.Info("[dry-run] %q to %d recipient(s): %s", subject, len(addresses), body)
	n.logger.Debug("[dry-run] recipients: %s", strings.Join(addresses, ", "))
	return nil
}
