package icon

import (
	"image"
	"image/color"
	"math"
)

var (
	frameBlue = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	frameDark = color.RGBA{R: 0x00, G: 0x78, B: 0xA8, A: 0xFF}
	darkBG    = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF}
	lime      = color.RGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}
	boneCol   = color.RGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0x80}
	yellow    = color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

// generate draws a video frame with a hand skeleton inside it.
func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	fillRect(img, 0, 0, size, size, darkBG)
	fillRoundedRect(img, s*0.06, s*0.12, s*0.88, s*0.76, s*0.08, frameDark)
	fillRoundedRect(img, s*0.10, s*0.16, s*0.80, s*0.68, s*0.06, darkBG)

	drawHand(img, s)
	return img
}

// drawHand draws five fingers fanning out from a wrist point, each as a chain
// of landmark dots joined by faint bones.
func drawHand(img *image.RGBA, s float64) {
	wx, wy := s*0.50, s*0.76
	dot := math.Max(1, s*0.035)

	for i := 0; i < 5; i++ {
		angle := math.Pi*1.5 + (float64(i)-2)*0.42
		length := s * 0.44
		if i == 0 || i == 4 {
			length = s * 0.32
		}
		for j := 1; j <= 3; j++ {
			t := float64(j) / 3
			x := wx + math.Cos(angle)*length*t
			y := wy + math.Sin(angle)*length*t
			drawBone(img, wx+math.Cos(angle)*length*(t-1.0/3), wy+math.Sin(angle)*length*(t-1.0/3), x, y, dot*0.5)
			fillCircle(img, x, y, dot, lime)
		}
	}
	fillCircle(img, wx, wy, dot*1.4, yellow)
	fillCircle(img, s*0.86, s*0.22, dot, frameBlue)
}

func drawBone(img *image.RGBA, x0, y0, x1, y1, width float64) {
	steps := int(math.Hypot(x1-x0, y1-y0)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		fillCircle(img, x0+(x1-x0)*t, y0+(y1-y0)*t, width, boneCol)
	}
}

func fillRect(img *image.RGBA, x0, y0, w, h int, c color.Color) {
	bounds := img.Bounds()
	for y := y0; y < y0+h && y < bounds.Max.Y; y++ {
		for x := x0; x < x0+w && x < bounds.Max.X; x++ {
			if x >= 0 && y >= 0 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillRoundedRect(img *image.RGBA, xf, yf, wf, hf, rf float64, c color.Color) {
	x0 := int(xf)
	y0 := int(yf)
	x1 := int(xf + wf)
	y1 := int(yf + hf)
	r := rf
	bounds := img.Bounds()

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			// Check if inside rounded rect
			fx := float64(x)
			fy := float64(y)
			inside := true

			// Check corners
			if fx < xf+r && fy < yf+r {
				// Top-left corner
				dx := xf + r - fx
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy < yf+r {
				// Top-right corner
				dx := fx - (xf + wf - r)
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx < xf+r && fy > yf+hf-r {
				// Bottom-left corner
				dx := xf + r - fx
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy > yf+hf-r {
				// Bottom-right corner
				dx := fx - (xf + wf - r)
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			}

			if inside {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.Color) {
	bounds := img.Bounds()
	x0 := int(cx - r)
	y0 := int(cy - r)
	x1 := int(cx + r + 1)
	y1 := int(cy + r + 1)
	r2 := r * r

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

// blendPixel alpha-blends color c onto the existing pixel at (x, y).
func blendPixel(img *image.RGBA, x, y int, c color.Color) {
	r0, g0, b0, a0 := c.RGBA()
	if a0 == 0 {
		return
	}
	if a0 == 0xFFFF {
		img.Set(x, y, c)
		return
	}

	// Existing pixel
	existing := img.RGBAAt(x, y)
	er := uint32(existing.R) * 257
	eg := uint32(existing.G) * 257
	eb := uint32(existing.B) * 257

	// Alpha blend
	alpha := a0
	invAlpha := 0xFFFF - alpha
	nr := (r0*alpha + er*invAlpha) / 0xFFFF
	ng := (g0*alpha + eg*invAlpha) / 0xFFFF
	nb := (b0*alpha + eb*invAlpha) / 0xFFFF

	img.SetRGBA(x, y, color.RGBA{
		R: uint8(nr >> 8),
		G: uint8(ng >> 8),
		B: uint8(nb >> 8),
		A: 0xFF,
	})
}
