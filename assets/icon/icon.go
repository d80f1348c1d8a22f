package icon

import (
	"image"
	"image/color"
)

// Theme colors from the app
var (
	bgNavy     = color.RGBA{R: 0x0F, G: 0x17, B: 0x2A, A: 0xFF}
	cardFace   = color.RGBA{R: 0x1E, G: 0x29, B: 0x3B, A: 0xFF}
	cardBack   = color.RGBA{R: 0x17, G: 0x21, B: 0x33, A: 0xFF}
	cyanAccent = color.RGBA{R: 0x22, G: 0xD3, B: 0xEE, A: 0xFF}
	skyAccent  = color.RGBA{R: 0x0E, G: 0xA5, B: 0xE9, A: 0xFF}
	mutedLine  = color.RGBA{R: 0x64, G: 0x74, B: 0x8B, A: 0xFF}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	fillRect(img, 0, 0, size, size, bgNavy)

	drawDeck(img, s)
	drawConfetti(img, s)

	return img
}

// drawDeck stacks two slide cards with the front one carrying a title bar,
// a big-value block, and two caption lines.
func drawDeck(img *image.RGBA, s float64) {
	// Card behind, peeking out to the upper right
	fillRoundedRect(img, s*0.26, s*0.14, s*0.52, s*0.64, s*0.06, cardBack)

	// Front card
	fillRoundedRect(img, s*0.16, s*0.22, s*0.52, s*0.64, s*0.06, cardFace)

	// Title bar
	fillRoundedRect(img, s*0.24, s*0.32, s*0.26, s*0.06, s*0.02, cyanAccent)

	// Big value block
	fillRoundedRect(img, s*0.24, s*0.46, s*0.36, s*0.14, s*0.03, skyAccent)

	// Caption lines
	fillRoundedRect(img, s*0.24, s*0.68, s*0.30, s*0.035, s*0.015, mutedLine)
	fillRoundedRect(img, s*0.24, s*0.74, s*0.22, s*0.035, s*0.015, mutedLine)
}

// drawConfetti scatters a few dots around the stack.
func drawConfetti(img *image.RGBA, s float64) {
	fillCircle(img, s*0.86, s*0.26, s*0.045, cyanAccent)
	fillCircle(img, s*0.90, s*0.46, s*0.035, skyAccent)
	fillCircle(img, s*0.82, s*0.62, s*0.030, cyanAccent)
	fillCircle(img, s*0.10, s*0.16, s*0.040, skyAccent)
	fillCircle(img, s*0.08, s*0.38, s*0.028, cyanAccent)
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
