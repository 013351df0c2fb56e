package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/subtracker/subtracker/pkg/config"
)

// ResendMailer sends through a Resend-compatible JSON API
// (POST {endpoint} with from/to/subject/html).
type ResendMailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
	log      *zap.SugaredLogger
}

func NewResendMailer(cfg *cfgpkg.Config, log *zap.SugaredLogger) *ResendMailer {
	timeout := time.Duration(cfg.Mail.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ResendMailer{
		endpoint: cfg.Mail.Endpoint,
		apiKey:   cfg.Mail.APIKey,
		from:     cfg.Mail.From,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mail dispatch rejected: status=%d body=%s", resp.StatusCode, body)
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(NewResendMailer),
	fx.Provide(func(m *ResendMailer) Mailer { return m }),
)
