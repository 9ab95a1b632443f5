package enroll

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/acesso-etec/biometric/protocol"
)

// Result is what the enrollment service answered.
type Result struct {
	StatusCode int
	Body       string
}

// StatusError is returned when the service answers outside 2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("enrollment failed with status %d: %s", e.StatusCode, e.Body)
}

// Client posts biometric templates to the enrollment service.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for url. A zero timeout leaves the
// transport default in place.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enroll performs a single POST. Success is a status in [200, 300).
func (c *Client) Enroll(ctx context.Context, req *protocol.EnrollReq) (*Result, error) {
	var payload bytes.Buffer
	if err := protocol.WriteEnrollReq(&payload, req); err != nil {
		return nil, errors.Wrap(err, "failed to marshal enrollment request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create enrollment request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	slog.Debug("Sending enrollment", "url", c.url, "cpf", req.CPF, "finger", req.Finger, "unit_code", req.UnitCode)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute enrollment request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read enrollment response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	slog.Info("Enrollment accepted", "status", resp.StatusCode)
	return &Result{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
