package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// HubSpotClient performs the outbound calls against the HubSpot meetings
// scheduler API. The credential is injected at construction; the client
// never reads the process environment. Every call is a single attempt
// bounded by the configured timeout, with no retry.
type HubSpotClient struct {
	BaseURL string

	apiKey string
	http   *http.Client
	logger *zap.Logger
}

// NewHubSpotClient builds a client whose transport injects the bearer
// credential on every request.
func NewHubSpotClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HubSpotClient {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
	client := oauth2.NewClient(context.Background(), src)
	client.Timeout = timeout
	return &HubSpotClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    client,
		logger:  logger,
	}
}

// FetchAvailability retrieves the raw availability document for a meeting
// link slug, rendered by HubSpot for the given timezone.
func (h *HubSpotClient) FetchAvailability(ctx context.Context, slug, timezone string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/scheduler/v3/meetings/meeting-links/book/availability-page/%s?timezone=%s",
		h.BaseURL, url.PathEscape(slug), url.QueryEscape(timezone))

	var doc map[string]any
	if err := h.do(ctx, http.MethodGet, endpoint, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SubmitBooking forwards a remapped booking payload and returns the
// upstream confirmation document untouched.
func (h *HubSpotClient) SubmitBooking(ctx context.Context, payload BookingPayload) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/scheduler/v3/meetings/meeting-links/book?timezone=%s",
		h.BaseURL, url.QueryEscape(payload.Timezone))

	var confirmation map[string]any
	if err := h.do(ctx, http.MethodPost, endpoint, payload, &confirmation); err != nil {
		return nil, err
	}
	return confirmation, nil
}

func (h *HubSpotClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	if h.apiKey == "" {
		return ErrMissingAPIKey
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		h.logger.Error("hubspot returned an error status",
			zap.Int("status", resp.StatusCode), zap.String("body", excerpt(raw)))
		return &UpstreamStatusError{Status: resp.StatusCode, Excerpt: excerpt(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		h.logger.Error("hubspot returned a non-JSON body", zap.String("body", excerpt(raw)))
		return &UpstreamDataError{Excerpt: excerpt(raw)}
	}
	return nil
}

// classifyTransportError separates timeouts from connection failures so
// the boundary can translate them to distinct status codes.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
}
