package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/jpeg"

	"github.com/gen2brain/webp"
	"golang.org/x/image/draw"
)

// NormalizeImage decodes a PNG, JPEG or WebP photograph, scales it down so the
// longest side is at most maxDim, and re-encodes it as PNG for the vision
// model. Images already within bounds are still re-encoded so every upload
// reaches the model in one format.
func NormalizeImage(data []byte, maxDim int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		var err2 error
		img, err2 = webp.Decode(bytes.NewReader(data))
		if err2 != nil {
			return nil, fmt.Errorf("failed to decode image (generic: %v, webp: %v)", err, err2)
		}
	}

	if maxDim > 0 {
		img = scaleDown(img, maxDim)
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func scaleDown(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = h * maxDim / w
	} else {
		nh = maxDim
		nw = w * maxDim / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
