// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging checks and downsizes uploaded catalog images. Sources
// wider than the target are scaled down with CatmullRom; smaller ones are
// left untouched to avoid upscaling.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// MaxPixels caps the decoded size of an upload. 10000x10000 is roughly
// 400 MB as RGBA.
const MaxPixels = 100_000_000

// DefaultQuality is the JPEG quality of downsized images.
const DefaultQuality = 85

var (
	ErrUnsupported = errors.New("unsupported image format")
	ErrTooLarge    = errors.New("image dimensions too large")
)

// Info describes an image without decoding its pixels.
type Info struct {
	Width  int
	Height int
	Format string // "jpeg", "png", "gif" or "webp"
}

// Inspect reads the image header of data.
func Inspect(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Info{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// Fit scales data down to maxWidth, keeping the aspect ratio. It returns
// nil when the image is already narrow enough. PNG sources stay PNG to
// keep transparency; everything else is re-encoded as JPEG.
func Fit(data []byte, maxWidth, quality int) ([]byte, string, error) {
	info, err := Inspect(data)
	if err != nil {
		return nil, "", err
	}
	if info.Width <= maxWidth {
		return nil, "", nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imaging: decode: %w", err)
	}

	bounds := img.Bounds()
	height := int(float64(bounds.Dy()) * float64(maxWidth) / float64(bounds.Dx()))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if info.Format == "png" {
		if err := png.Encode(&buf, dst); err != nil {
			return nil, "", fmt.Errorf("imaging: encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("imaging: encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
