// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"sync"
)

// Format is an image encoding.
type Format int

const (
	PNG Format = iota
	JPEG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	default:
		return fmt.Sprint(int(f))
	}
}

// ParseFormat returns the Format for an abbreviation such as "png" or
// "jpg".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return PNG, fmt.Errorf("preview: unrecognized image format %q", s)
}

func (f Format) mimeType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// Black on white line art compresses well; speed matters more.
var pngEnc = png.Encoder{CompressionLevel: png.BestSpeed, BufferPool: &pngPool{}}

var jpegOpts = jpeg.Options{Quality: 90}

type pngPool sync.Pool

func (p *pngPool) Get() *png.EncoderBuffer {
	buf, _ := (*sync.Pool)(p).Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngPool) Put(buf *png.EncoderBuffer) {
	(*sync.Pool)(p).Put(buf)
}

func (f Format) encode(w io.Writer, img image.Image) error {
	switch f {
	case PNG:
		return pngEnc.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpegOpts)
	}
	return fmt.Errorf("preview: unhandled image format %s", f)
}
