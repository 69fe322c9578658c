package jellyfin

import (
	"fmt"
	"math"

	jellyfin "github.com/sj14/jellyfin-go/api"

	"github.com/depeter/signviewer/internal/constants"
	"github.com/depeter/signviewer/internal/dataset"
)

// Item is the part of a Jellyfin video item the viewer reads.
type Item struct {
	ID           string
	Name         string
	Container    string
	RuntimeTicks int64

	Width     int
	Height    int
	FrameRate float64
}

// GetItem returns a single item by ID.
func (c *Client) GetItem(itemID string) (*Item, error) {
	ctx, cancel := c.reqCtx()
	defer cancel()
	result, _, err := c.api.UserLibraryAPI.GetItem(ctx, itemID).
		UserId(c.userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	item := convertItem(result)
	return &item, nil
}

func convertItem(dto *jellyfin.BaseItemDto) Item {
	it := Item{
		ID:           dto.GetId(),
		Name:         dto.GetName(),
		Container:    dto.GetContainer(),
		RuntimeTicks: dto.GetRunTimeTicks(),
	}
	for _, s := range dto.GetMediaStreams() {
		if s.GetType() != jellyfin.MEDIASTREAMTYPE_VIDEO {
			continue
		}
		it.Width = int(s.GetWidth())
		it.Height = int(s.GetHeight())
		it.FrameRate = float64(s.GetRealFrameRate())
		if it.FrameRate <= 0 {
			it.FrameRate = float64(s.GetAverageFrameRate())
		}
		break
	}
	return it
}

// VideoFile derives the video metadata from the item's run time and first
// video stream.
func (it Item) VideoFile() (dataset.VideoFile, error) {
	duration := float64(it.RuntimeTicks) / constants.TicksPerSecond
	v := dataset.VideoFile{
		MediaType:       "video/" + it.Container,
		DurationSeconds: duration,
		FrameCount:      int(math.Round(duration * it.FrameRate)),
		Framerate:       it.FrameRate,
		FrameWidth:      it.Width,
		FrameHeight:     it.Height,
	}
	if err := v.Validate(); err != nil {
		return dataset.VideoFile{}, fmt.Errorf("item %s: %w", it.ID, err)
	}
	return v, nil
}
