// Package images produces the inline profile thumbnails stored directly on
// entities. Photos are scaled down so neither dimension exceeds MaxDim and
// re-encoded as JPEG at a fixed quality, then wrapped as a base64 data URL.
package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	MaxDim      = 300
	JPEGQuality = 70
)

// Compress decodes raw (JPEG or PNG), scales it to fit MaxDim and returns
// the re-encoded thumbnail as a data URL. Images already within bounds are
// re-encoded without scaling; nothing is ever upscaled.
func Compress(raw []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > MaxDim || h > MaxDim {
		if w >= h {
			h = h * MaxDim / w
			w = MaxDim
		} else {
			w = w * MaxDim / h
			h = MaxDim
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
