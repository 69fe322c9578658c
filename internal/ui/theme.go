package ui

import "image/color"

// Dark theme colors
var (
	ColorBackground    = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF}
	ColorSurface       = color.RGBA{R: 0x1C, G: 0x1C, B: 0x24, A: 0xFF}
	ColorSurfaceHover  = color.RGBA{R: 0x28, G: 0x28, B: 0x34, A: 0xFF}
	ColorPrimary       = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	ColorPrimaryDark   = color.RGBA{R: 0x00, G: 0x78, B: 0xA8, A: 0xFF}
	ColorText          = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	ColorTextSecondary = color.RGBA{R: 0x90, G: 0x90, B: 0x9C, A: 0xFF}
	ColorTextMuted     = color.RGBA{R: 0x60, G: 0x60, B: 0x6C, A: 0xFF}
	ColorFocusBorder   = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	ColorTrack         = color.RGBA{R: 0x44, G: 0x44, B: 0x50, A: 0xFF}
	ColorTick          = color.RGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF} // clip boundary
)

// Layout constants
const (
	NavBarHeight = 64
	Padding      = 16

	CropSize  = 200
	CropGap   = 16
	CropLabel = 22

	FontSizeHeading = 20
	FontSizeBody    = 16
	FontSizeSmall   = 13
)
