//go:build !linux

package player

import (
	"strconv"

	"github.com/gen2brain/go-mpv"
)

// osdOverlaySet uses the positional form of the osd-overlay command.
func osdOverlaySet(m *mpv.Mpv, id int, data string, resX, resY int) error {
	return m.Command([]string{"osd-overlay", strconv.Itoa(id), "ass-events", data,
		strconv.Itoa(resX), strconv.Itoa(resY)})
}

func osdOverlayRemove(m *mpv.Mpv, id int) error {
	return m.Command([]string{"osd-overlay", strconv.Itoa(id), "none", ""})
}
