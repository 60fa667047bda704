package client

import (
	"context"

	"drishti-cli/pkg/models"
)

// Detections fetches the latest object detections for the video feed.
func (c *Client) Detections(ctx context.Context) ([]models.Detection, error) {
	body, err := c.get(ctx, FeedDetections, "/api/detections")
	if err != nil {
		return nil, err
	}

	var respData models.DetectionListResponse
	if err := decode(FeedDetections, body, &respData); err != nil {
		return nil, err
	}

	if respData.Detections == nil {
		return nil, missingKey(FeedDetections)
	}

	return *respData.Detections, nil
}
