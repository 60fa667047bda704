package client

import (
	"context"
	"errors"
	"fmt"

	"drishti-cli/pkg/models"
)

// Soldiers fetches vitals and position for every tracked soldier
func (c *Client) Soldiers(ctx context.Context) ([]models.PersonnelRecord, error) {
	body, err := c.get(ctx, FeedSoldiers, "/api/soldiers")
	if err != nil {
		return nil, err
	}

	var respData models.SoldierListResponse
	if err := decode(FeedSoldiers, body, &respData); err != nil {
		return nil, err
	}

	if respData.Soldiers == nil {
		return nil, missingKey(FeedSoldiers)
	}

	return *respData.Soldiers, nil
}

// Simulate asks the backend to put a soldier into an emergency state.
// The outcome only shows up in later polls of the soldiers and alerts feeds.
func (c *Client) Simulate(ctx context.Context, soldierID string) (string, error) {
	if soldierID == "" {
		return "", errors.New("soldier id is required")
	}

	payload := models.SimulatePayload{ID: soldierID}

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&models.SimulateResponse{}).
		Post("/api/soldiers/simulate")

	if err != nil {
		return "", err
	}

	if resp.IsError() {
		return "", fmt.Errorf("failed to simulate emergency: %s", resp.String())
	}

	result, ok := resp.Result().(*models.SimulateResponse)
	if !ok {
		return "", errors.New("failed to parse simulate response")
	}

	return result.Message, nil
}
