package relaysim

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
)

// Frame renders the n-th test frame: a gradient whose hue shifts with n
// and a moving bar, so consecutive frames differ.
func Frame(n, width, height int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	shift := uint8(n * 17)
	barX := (n * 4) % width

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{
				R: uint8(x*255/width) + shift,
				G: uint8(y*255/height) + shift/2,
				B: 128 + shift,
				A: 255,
			}
			if x >= barX && x < barX+4 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
