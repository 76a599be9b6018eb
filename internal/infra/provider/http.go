package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pawsuite/notify/internal/core/domain"
	"github.com/pawsuite/notify/internal/notify/errclass"
)

// HTTPSender delivers notifications by POSTing the request JSON to the
// provider endpoint. It owns the timeout; the dispatcher only classifies
// what comes back.
type HTTPSender struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPSender creates an HTTP-based send capability.
func NewHTTPSender(endpoint string, timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSender{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Send performs one provider call.
func (s *HTTPSender) Send(
	ctx context.Context,
	req domain.NotificationRequest,
) (domain.NotificationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.NotificationResult{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.NotificationResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return domain.NotificationResult{}, fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = resp.Status
		}
		return domain.NotificationResult{}, &errclass.ProviderError{
			Message: msg,
			Code:    resp.StatusCode,
		}
	}

	var result domain.NotificationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.NotificationResult{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}
