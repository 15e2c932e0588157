package alertsmanager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/ports"
)

const (
	serviceName = "nftbridged"
	severity    = "info"

	maxRetries = 5
)

type Alert struct {
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations"`
	StartsAt    time.Time         `json:"startsAt"`
}

type service struct {
	baseUrl     string
	explorerUrl string
	httpClient  *http.Client
	baseDelay   time.Duration
}

// NewService returns an Alerts publisher posting to the given AlertManager endpoint.
// explorerURL, if set, is used to link the asset in alert descriptions.
func NewService(alertManagerURL, explorerURL string) ports.Alerts {
	return &service{
		baseUrl:     alertManagerURL,
		explorerUrl: strings.TrimRight(explorerURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseDelay: 100 * time.Millisecond,
	}
}

func (s *service) Publish(ctx context.Context, topic ports.Topic, message any) error {
	labels := map[string]string{
		"alertname": string(topic),
		"service":   serviceName,
		"severity":  severity,
	}

	desc := ""
	annotations := map[string]string{}
	switch topic {
	case ports.NFTSent, ports.NFTReceived, ports.TransferExpired:
		m, ok := message.(ports.TransferAlert)
		if !ok {
			return fmt.Errorf("invalid message type: %T", message)
		}
		annotations["firing_title"] = transferTitle(topic)
		desc = formatTransferAlert(s.explorerUrl, topic, m)
		labels["asset"] = m.Asset
		labels["para_id"] = fmt.Sprintf("%d", m.ParaId)
		if topic == ports.TransferExpired {
			labels["severity"] = "warning"
		}
	default:
		annotations["firing_title"] = fmt.Sprintf("🔔 %s", topic)
		desc = formatGenericAlert(map[string]any{"event": message})
	}

	annotations["description"] = desc
	alert := Alert{
		Labels:      labels,
		Annotations: annotations,
		StartsAt:    time.Now(),
	}

	if err := s.sendAlert(ctx, alert); err != nil {
		return fmt.Errorf("failed to send alert to AlertManager: %w", err)
	}

	return nil
}

func (s *service) sendAlert(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal([]Alert{alert})
	if err != nil {
		return fmt.Errorf("failed to marshal alerts: %w", err)
	}

	for attempt := range maxRetries {
		req, err := http.NewRequestWithContext(ctx, "POST", s.baseUrl, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			if attempt < maxRetries-1 {
				if err := s.backoff(ctx, attempt); err != nil {
					return err
				}
				continue
			}
			return fmt.Errorf("failed to send alert after %d attempts: %w", maxRetries, err)
		}
		_ = resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		// 4xx are not retried.
		if resp.StatusCode >= 500 && attempt < maxRetries-1 {
			if err := s.backoff(ctx, attempt); err != nil {
				return err
			}
			continue
		}

		return fmt.Errorf(
			"failed to send alert to AlertManager with status %d after %d attempts",
			resp.StatusCode, attempt+1,
		)
	}

	return fmt.Errorf("failed to send alert after %d attempts", maxRetries)
}

func (s *service) backoff(ctx context.Context, attempt int) error {
	delay := s.baseDelay * time.Duration(1<<uint(attempt))
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func transferTitle(topic ports.Topic) string {
	switch topic {
	case ports.NFTSent:
		return "📤 NFT Sent"
	case ports.NFTReceived:
		return "📥 NFT Received"
	default:
		return "⌛ Transfer Expired"
	}
}

func formatTransferAlert(explorerUrl string, topic ports.Topic, data ports.TransferAlert) string {
	lines := make([]string, 0)
	if explorerUrl != "" {
		lines = append(lines, fmt.Sprintf("%s/nft/%s", explorerUrl, data.Asset))
	}
	lines = append(lines, fmt.Sprintf("\n*Asset:* `%s`", data.Asset))

	switch topic {
	case ports.NFTSent:
		lines = append(lines, fmt.Sprintf("• Destination: parachain %d", data.ParaId))
	case ports.NFTReceived:
		lines = append(lines, fmt.Sprintf("• Source: parachain %d", data.ParaId))
	case ports.TransferExpired:
		lines = append(lines, fmt.Sprintf("• Destination: parachain %d", data.ParaId))
		lines = append(lines, "• Unlocked back to the sender")
	}
	if data.Account != "" {
		lines = append(lines, fmt.Sprintf("• Account: `%s`", data.Account))
	}
	if data.XcmHash != "" {
		lines = append(lines, fmt.Sprintf("• Message hash: `%s`", data.XcmHash))
	}
	if data.OccurredAt > 0 {
		lines = append(lines, fmt.Sprintf(
			"• At: %s", time.Unix(data.OccurredAt, 0).UTC().Format(time.RFC3339),
		))
	}
	return strings.Join(lines, "\n")
}

func formatGenericAlert(data map[string]any) string {
	lines := make([]string, 0)
	for key, value := range data {
		lines = append(lines, fmt.Sprintf("• %s: %v", key, value))
	}
	return strings.Join(lines, "\n")
}
