// Package mailer is the outbound email transport. The pipeline depends only
// on the Mailer interface; retry policy lives with the caller so the
// transport itself performs exactly one attempt per Send.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kitefall/pulse-backend/internal/platform/envutil"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type Config struct {
	APIKey           string
	BaseURL          string
	DefaultFromEmail string
	DefaultFromName  string
	Timeout          time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:           envutil.String("SENDGRID_API_KEY", ""),
		BaseURL:          envutil.String("SENDGRID_BASE_URL", ""),
		DefaultFromEmail: envutil.String("SENDGRID_FROM_EMAIL", ""),
		DefaultFromName:  envutil.String("SENDGRID_FROM_NAME", "Pulse Alerts"),
		Timeout:          time.Duration(envutil.Int("SENDGRID_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

func New(log *logger.Logger, cfg Config) (Mailer, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if strings.TrimSpace(cfg.DefaultFromEmail) == "" {
		return nil, fmt.Errorf("missing SENDGRID_FROM_EMAIL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &sendgridMailer{
		log:        log.With("client", "SendGridMailer"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type sendgridMailer struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

// --- SendGrid mail send wire types ---

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type errorItem struct {
	Message string `json:"message"`
	Field   any    `json:"field,omitempty"`
}

type errorResponse struct {
	Errors []errorItem `json:"errors"`
}

// HTTPError carries the SendGrid response status so the retry helper can
// classify retryability.
type HTTPError struct {
	StatusCode int
	Body       string
	Errors     []errorItem
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "sendgrid: <nil error>"
	}
	if len(e.Errors) > 0 && strings.TrimSpace(e.Errors[0].Message) != "" {
		return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, e.Errors[0].Message)
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 2000 {
		msg = msg[:2000] + "..."
	}
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (m *sendgridMailer) Send(ctx context.Context, to, subject, html string) error {
	to = strings.TrimSpace(to)
	subject = strings.TrimSpace(subject)
	if to == "" {
		return fmt.Errorf("sendgrid: recipient required")
	}
	if subject == "" {
		return fmt.Errorf("sendgrid: subject required")
	}
	if strings.TrimSpace(html) == "" {
		return fmt.Errorf("sendgrid: html content required")
	}

	wire := mailSendRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: to}}}},
		From: emailAddress{
			Email: m.cfg.DefaultFromEmail,
			Name:  m.cfg.DefaultFromName,
		},
		Subject: subject,
		Content: []mailContent{{Type: "text/html", Value: html}},
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return fmt.Errorf("sendgrid: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sendgrid: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		m.log.Debug("Email accepted",
			"to", to,
			"status", resp.StatusCode,
			"message_id", strings.TrimSpace(resp.Header.Get("X-Message-Id")),
		)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	httpErr := &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	var parsed errorResponse
	if jsonErr := json.Unmarshal(raw, &parsed); jsonErr == nil {
		httpErr.Errors = parsed.Errors
	}
	return httpErr
}
