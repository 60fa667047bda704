package client

import (
	"context"

	"drishti-cli/pkg/models"
)

// Alerts fetches the backend's current alert window (newest first).
func (c *Client) Alerts(ctx context.Context) ([]models.Alert, error) {
	body, err := c.get(ctx, FeedAlerts, "/api/alerts")
	if err != nil {
		return nil, err
	}

	var respData models.AlertListResponse
	if err := decode(FeedAlerts, body, &respData); err != nil {
		return nil, err
	}

	if respData.Alerts == nil {
		return nil, missingKey(FeedAlerts)
	}

	return *respData.Alerts, nil
}
