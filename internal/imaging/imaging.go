// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging generates grid thumbnails for uploaded photos. The
// original is stored untouched; only a single scaled-down JPEG is
// produced for the category grid and admin list views. Images narrower
// than the target width are re-encoded without upscaling.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// ThumbWidth is the target width for grid thumbnails.
	ThumbWidth = 640

	// thumbQuality is the JPEG quality for thumbnails.
	thumbQuality = 80
)

// Thumbnail holds a generated thumbnail ready for upload.
type Thumbnail struct {
	Width       int
	Height      int
	Data        []byte
	ContentType string // always "image/jpeg"
}

// Generate decodes the original (JPEG, PNG, GIF, or WebP) and scales it
// to ThumbWidth, preserving aspect ratio. Sources narrower than
// ThumbWidth keep their dimensions.
func Generate(original []byte) (*Thumbnail, error) {
	src, format, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("imaging: empty %s image", format)
	}

	outW := ThumbWidth
	if srcW <= outW {
		outW = srcW
	}
	outH := srcH * outW / srcW
	if outH == 0 {
		outH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}

	return &Thumbnail{
		Width:       outW,
		Height:      outH,
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
	}, nil
}
