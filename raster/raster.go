// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package raster

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Panel geometry, in pixels.
const (
	PanelWidth  = 240
	PanelHeight = 360
)

// ErrOutOfBounds is returned when a window or a scaled raster does not fit
// inside the panel.
var ErrOutOfBounds = errors.New("raster: out of bounds")

// Raster is a 1 bit per pixel image stored row by row.
//
// Each row is padded to a whole number of bytes. The most significant bit of
// a byte is the leftmost pixel. A set bit is white (background), a cleared
// bit is ink.
type Raster struct {
	Width  int
	Height int
	Pix    []byte
}

// Stride returns the number of bytes needed to hold a row of width pixels.
func Stride(width int) int {
	return (width + 7) / 8
}

// New returns a white raster of the given size.
func New(width, height int) *Raster {
	r := &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]byte, Stride(width)*height),
	}
	for i := range r.Pix {
		r.Pix[i] = 0xFF
	}
	return r
}

// Stride returns the number of bytes per row.
func (r *Raster) Stride() int {
	return Stride(r.Width)
}

// Row returns the bytes of row y. The slice aliases Pix.
func (r *Raster) Row(y int) []byte {
	s := r.Stride()
	return r.Pix[y*s : (y+1)*s]
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	return &Raster{
		Width:  r.Width,
		Height: r.Height,
		Pix:    append([]byte(nil), r.Pix...),
	}
}

// Rows returns a copy of h rows starting at row y.
func (r *Raster) Rows(y, h int) *Raster {
	s := r.Stride()
	return &Raster{
		Width:  r.Width,
		Height: h,
		Pix:    append([]byte(nil), r.Pix[y*s:(y+h)*s]...),
	}
}

// ColorModel implements image.Image.
func (r *Raster) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// At implements image.Image.
func (r *Raster) At(x, y int) color.Color {
	return r.BitAt(x, y)
}

// BitAt returns image1bit.On for white pixels and image1bit.Off for ink.
func (r *Raster) BitAt(x, y int) image1bit.Bit {
	if !image.Pt(x, y).In(r.Bounds()) {
		return image1bit.Off
	}
	return image1bit.Bit(r.Pix[y*r.Stride()+x/8]&(0x80>>uint(x%8)) != 0)
}

// Set implements draw.Image.
func (r *Raster) Set(x, y int, c color.Color) {
	r.SetBit(x, y, image1bit.BitModel.Convert(c).(image1bit.Bit))
}

// SetBit sets a single pixel.
func (r *Raster) SetBit(x, y int, b image1bit.Bit) {
	if !image.Pt(x, y).In(r.Bounds()) {
		return
	}
	i := y*r.Stride() + x/8
	mask := byte(0x80 >> uint(x%8))
	if b {
		r.Pix[i] |= mask
	} else {
		r.Pix[i] &^= mask
	}
}

// FromImage thresholds img into a raster of the same size.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := New(b.Dx(), b.Dy())
	draw.Src.Draw(r, r.Bounds(), img, b.Min)
	return r
}

// Shift returns src with every row moved right by s pixels, s in [0, 7].
//
// The first s bits of each row are white and the output is s pixels wider.
// All bits past the last meaningful one are white. A shift of 0 returns an
// exact copy.
func Shift(src *Raster, s int) *Raster {
	if s <= 0 {
		return src.Clone()
	}
	if s > 7 {
		s = 7
	}
	in := src.Stride()
	dst := &Raster{Width: src.Width + s, Height: src.Height}
	out := dst.Stride()
	dst.Pix = make([]byte, out*src.Height)
	used := uint(dst.Width % 8)
	for y := 0; y < src.Height; y++ {
		row := src.Pix[y*in : (y+1)*in]
		o := dst.Pix[y*out : (y+1)*out]
		carry := byte(0xFF << uint(8-s))
		for i, b := range row {
			o[i] = carry | b>>uint(s)
			carry = b << uint(8-s)
		}
		if out > in {
			o[in] = carry | 0xFF>>uint(s)
		}
		if used != 0 {
			o[out-1] |= 0xFF >> used
		}
	}
	return dst
}

// DupBits returns m bytes where every bit of b, most significant first, is
// repeated m times.
func DupBits(b byte, m int) []byte {
	if m < 1 {
		return nil
	}
	out := make([]byte, m)
	for k := 0; k < 8; k++ {
		if b&(0x80>>uint(k)) == 0 {
			continue
		}
		for j := 0; j < m; j++ {
			p := k*m + j
			out[p/8] |= 0x80 >> uint(p%8)
		}
	}
	return out
}

// Scale enlarges src by an integer factor m in both directions.
//
// Every stored byte is widened, padding included, so the result is
// src.Stride()*8*m pixels wide and src.Height*m tall. ErrOutOfBounds is
// returned if that exceeds max.
func Scale(src *Raster, m int, max image.Point) (*Raster, error) {
	if m < 1 {
		return nil, ErrOutOfBounds
	}
	in := src.Stride()
	// m is compared by division, the products can overflow.
	if in == 0 || src.Height == 0 || m > max.X/(in*8) || m > max.Y/src.Height {
		return nil, ErrOutOfBounds
	}
	w, h := in*8*m, src.Height*m
	dst := &Raster{Width: w, Height: h, Pix: make([]byte, in*m*h)}
	out := dst.Stride()
	for y := 0; y < h; y++ {
		row := src.Pix[(y/m)*in : (y/m+1)*in]
		o := dst.Pix[y*out : (y+1)*out]
		for i, b := range row {
			copy(o[i*m:], DupBits(b, m))
		}
	}
	return dst, nil
}

// FlipVertical returns src with its rows in reverse order.
func FlipVertical(src *Raster) *Raster {
	s := src.Stride()
	dst := &Raster{Width: src.Width, Height: src.Height, Pix: make([]byte, len(src.Pix))}
	for y := 0; y < src.Height; y++ {
		copy(dst.Pix[y*s:(y+1)*s], src.Pix[(src.Height-1-y)*s:(src.Height-y)*s])
	}
	return dst
}

var _ draw.Image = &Raster{}
