package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/joeystdio/handoff-app/internal/config"
)

// Mailer is the HTTP client for the transactional mail API used to deliver
// client invite links. Delivery is best effort; callers log and move on.
type Mailer struct {
	BaseURL    string
	APIKey     string
	From       string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewMailer(cfg *config.Config, log *zap.Logger) *Mailer {
	return &Mailer{
		BaseURL: cfg.Mail.BaseURL,
		APIKey:  cfg.Mail.APIKey,
		From:    cfg.Mail.From,
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Logger: log,
	}
}

// Enabled reports whether a mail API is configured at all.
func (m *Mailer) Enabled() bool { return m.BaseURL != "" }

type sendReq struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// SendInvite mails a portal magic link to a newly created client.
func (m *Mailer) SendInvite(ctx context.Context, to, portalName, link string) error {
	body := sendReq{
		From:    m.From,
		To:      to,
		Subject: fmt.Sprintf("You have been invited to %s", portalName),
		Text:    fmt.Sprintf("Open your client portal here:\n\n%s\n\nKeep this link private; it grants access to your projects.", link),
	}
	b, err := sonic.Marshal(body)
	if err != nil {
		return err
	}

	endpoint := m.BaseURL + "/emails"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		m.Logger.Error("invite mail request failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return fmt.Errorf("mail request failed with status %d", resp.StatusCode)
	}
	return nil
}
