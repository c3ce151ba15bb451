//go:build darwin

package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

var (
	iconIdle []byte
	iconRec  []byte
)

func init() {
	iconIdle = renderRing(22, nil)
	iconRec = renderRing(22, &color.RGBA{R: 255, G: 59, B: 48, A: 255})
}

// renderRing draws an outlined circle; a non-nil fill adds a solid center dot.
func renderRing(size int, fill *color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	outer := c - 1
	ring := outer - 2.5
	dot := c / 2.5
	for y := range size {
		for x := range size {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			switch {
			case fill != nil && d <= dot:
				img.Set(x, y, fill)
			case d <= outer && d >= ring:
				img.Set(x, y, color.Black)
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic("renderRing: " + err.Error())
	}
	return buf.Bytes()
}
