package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kazudmb/time-record/module/checkin/internal/repository/publisher"
)

var _ publisher.CheckInClient = (*CheckInClient)(nil)

type checkInRequest struct {
	EmployeeID string `json:"employeeId"`
}

// CheckInClient posts check-ins to {baseURL}/checkins.
type CheckInClient struct {
	baseURL string
	client  *http.Client
}

func NewCheckInClient(baseURL string, client *http.Client) *CheckInClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &CheckInClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (c *CheckInClient) Submit(ctx context.Context, employeeID string) error {
	body, err := json.Marshal(checkInRequest{EmployeeID: employeeID})
	if err != nil {
		return fmt.Errorf("marshal check-in: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkins", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post check-in: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post check-in: unexpected status %d", resp.StatusCode)
	}
	return nil
}
