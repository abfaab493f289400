package mailer

import (
	"context"

	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

// Noop is the dry-run transport used when no SendGrid key is configured.
// Sends succeed without doing anything, so ledger writes and counters behave
// exactly as in production.
type Noop struct {
	log *logger.Logger
}

func NewNoop(log *logger.Logger) *Noop {
	return &Noop{log: log.With("client", "NoopMailer")}
}

func (n *Noop) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Info("Dry-run email (no transport configured)", "to", to, "subject", subject, "html_bytes", len(html))
	return nil
}
