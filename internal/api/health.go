package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Health calls /api/health and fails unless the server reports "ok".
func (c *Client) Health() error {
	data, err := c.get("/api/health")
	if err != nil {
		return err
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(payload.Status), "ok") {
		return fmt.Errorf("api unhealthy: %q", payload.Status)
	}
	return nil
}
