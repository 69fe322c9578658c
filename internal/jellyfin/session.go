package jellyfin

import (
	"fmt"

	jellyfin "github.com/sj14/jellyfin-go/api"

	"github.com/depeter/signviewer/internal/constants"
)

// SecondsToTicks converts a media position to Jellyfin's 100ns ticks.
func SecondsToTicks(s float64) int64 {
	return int64(s * constants.TicksPerSecond)
}

// ReportPlaybackStart notifies the server that playback has started.
func (c *Client) ReportPlaybackStart(itemID string, positionTicks int64) error {
	body := *jellyfin.NewPlaybackStartInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(positionTicks)
	body.SetCanSeek(true)
	body.SetPlayMethod(jellyfin.PLAYMETHOD_DIRECT_PLAY)

	ctx, cancel := c.reqCtx()
	defer cancel()
	_, err := c.api.PlaystateAPI.ReportPlaybackStart(ctx).PlaybackStartInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report playback start: %w", err)
	}
	return nil
}

// ReportPlaybackProgress sends a progress update to the server.
func (c *Client) ReportPlaybackProgress(itemID string, positionTicks int64, isPaused bool) error {
	body := *jellyfin.NewPlaybackProgressInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(positionTicks)
	body.SetIsPaused(isPaused)
	body.SetCanSeek(true)
	body.SetPlayMethod(jellyfin.PLAYMETHOD_DIRECT_PLAY)

	ctx, cancel := c.reqCtx()
	defer cancel()
	_, err := c.api.PlaystateAPI.ReportPlaybackProgress(ctx).PlaybackProgressInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report progress: %w", err)
	}
	return nil
}

// ReportPlaybackStopped notifies the server that playback has stopped.
func (c *Client) ReportPlaybackStopped(itemID string, positionTicks int64) error {
	body := *jellyfin.NewPlaybackStopInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(positionTicks)

	ctx, cancel := c.reqCtx()
	defer cancel()
	_, err := c.api.PlaystateAPI.ReportPlaybackStopped(ctx).PlaybackStopInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report playback stopped: %w", err)
	}
	return nil
}
