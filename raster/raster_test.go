// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package raster

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func TestShift(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  *Raster
		s    int
		want *Raster
	}{
		{
			name: "zero copies",
			src:  &Raster{Width: 12, Height: 1, Pix: []byte{0xA5, 0x3C}},
			s:    0,
			want: &Raster{Width: 12, Height: 1, Pix: []byte{0xA5, 0x3C}},
		},
		{
			name: "one byte grows",
			src:  &Raster{Width: 8, Height: 1, Pix: []byte{0x00}},
			s:    3,
			want: &Raster{Width: 11, Height: 1, Pix: []byte{0xE0, 0x1F}},
		},
		{
			name: "one byte by one",
			src:  &Raster{Width: 8, Height: 1, Pix: []byte{0xAA}},
			s:    1,
			want: &Raster{Width: 9, Height: 1, Pix: []byte{0xD5, 0x7F}},
		},
		{
			name: "one byte by seven",
			src:  &Raster{Width: 8, Height: 1, Pix: []byte{0x0F}},
			s:    7,
			want: &Raster{Width: 15, Height: 1, Pix: []byte{0xFE, 0x1F}},
		},
		{
			name: "fits in same stride",
			src:  &Raster{Width: 5, Height: 1, Pix: []byte{0x07}},
			s:    2,
			want: &Raster{Width: 7, Height: 1, Pix: []byte{0xC1}},
		},
		{
			name: "two rows carry reset",
			src:  &Raster{Width: 16, Height: 2, Pix: []byte{0x00, 0x01, 0xFF, 0x00}},
			s:    4,
			want: &Raster{Width: 20, Height: 2, Pix: []byte{
				0xF0, 0x00, 0x1F,
				0xFF, 0xF0, 0x0F,
			}},
		},
		{
			name: "non multiple width pads white",
			src:  &Raster{Width: 10, Height: 1, Pix: []byte{0x00, 0x00}},
			s:    5,
			want: &Raster{Width: 15, Height: 1, Pix: []byte{0xF8, 0x01}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Shift(tc.src, tc.s)
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Shift() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestShiftAllOffsets(t *testing.T) {
	src := New(13, 3)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if (x+y)%3 == 0 {
				src.SetBit(x, y, image1bit.Off)
			}
		}
	}
	for s := 1; s < 8; s++ {
		got := Shift(src, s)
		if got.Width != src.Width+s {
			t.Fatalf("Shift(%d) width = %d", s, got.Width)
		}
		for y := 0; y < got.Height; y++ {
			for x := 0; x < got.Stride()*8; x++ {
				want := image1bit.On
				if x >= s && x < got.Width {
					want = src.BitAt(x-s, y)
				}
				if b := image1bit.Bit(got.Row(y)[x/8]&(0x80>>uint(x%8)) != 0); b != want {
					t.Errorf("Shift(%d) bit (%d,%d) = %v, want %v", s, x, y, b, want)
				}
			}
		}
	}
}

func TestDupBits(t *testing.T) {
	for _, tc := range []struct {
		b    byte
		m    int
		want []byte
	}{
		{b: 0xA5, m: 1, want: []byte{0xA5}},
		{b: 0x80, m: 2, want: []byte{0xC0, 0x00}},
		{b: 0x01, m: 2, want: []byte{0x00, 0x03}},
		{b: 0xF0, m: 3, want: []byte{0xFF, 0xF0, 0x00}},
		{b: 0x55, m: 4, want: []byte{0x0F, 0x0F, 0x0F, 0x0F}},
		{b: 0xFF, m: 8, want: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{b: 0xFF, m: 0},
	} {
		if diff := cmp.Diff(DupBits(tc.b, tc.m), tc.want); diff != "" {
			t.Errorf("DupBits(%#x, %d) difference (-got +want):\n%s", tc.b, tc.m, diff)
		}
	}
}

func TestScale(t *testing.T) {
	src := &Raster{Width: 8, Height: 2, Pix: []byte{0x80, 0x01}}
	got, err := Scale(src, 2, image.Pt(PanelWidth, PanelHeight))
	if err != nil {
		t.Fatal(err)
	}
	want := &Raster{Width: 16, Height: 4, Pix: []byte{
		0xC0, 0x00,
		0xC0, 0x00,
		0x00, 0x03,
		0x00, 0x03,
	}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Scale() difference (-got +want):\n%s", diff)
	}
}

func TestScaleGlyphSize(t *testing.T) {
	for m := 1; m <= 8; m++ {
		got, err := Scale(New(8, 5), m, image.Pt(PanelWidth, PanelHeight))
		if err != nil {
			t.Fatalf("Scale(%d) = %v", m, err)
		}
		if got.Width != 8*m || got.Height != 5*m {
			t.Errorf("Scale(%d) = %dx%d, want %dx%d", m, got.Width, got.Height, 8*m, 5*m)
		}
	}
}

func TestScaleOutOfBounds(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  *Raster
		m    int
		max  image.Point
	}{
		{name: "too wide", src: New(8, 5), m: 31, max: image.Pt(240, 360)},
		{name: "too tall", src: New(8, 40), m: 10, max: image.Pt(240, 360)},
		{name: "zero factor", src: New(8, 5), m: 0, max: image.Pt(240, 360)},
		{name: "overflowing factor", src: New(8, 5), m: 1 << 61, max: image.Pt(240, 360)},
		{name: "empty source", src: New(8, 0), m: 2, max: image.Pt(240, 360)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Scale(tc.src, tc.m, tc.max)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("Scale() error = %v, want %v", err, ErrOutOfBounds)
			}
			if got != nil {
				t.Errorf("Scale() = %v, want nil", got)
			}
		})
	}
}

func TestFlipVertical(t *testing.T) {
	src := &Raster{Width: 16, Height: 3, Pix: []byte{1, 2, 3, 4, 5, 6}}
	want := &Raster{Width: 16, Height: 3, Pix: []byte{5, 6, 3, 4, 1, 2}}
	if diff := cmp.Diff(FlipVertical(src), want); diff != "" {
		t.Errorf("FlipVertical() difference (-got +want):\n%s", diff)
	}
}

func TestFromImage(t *testing.T) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 10, 2))
	for x := 0; x < 10; x++ {
		img.SetBit(x, 0, image1bit.On)
	}
	img.SetBit(9, 1, image1bit.On)
	// Padding bits stay white.
	want := &Raster{Width: 10, Height: 2, Pix: []byte{0xFF, 0xFF, 0x00, 0x7F}}
	if diff := cmp.Diff(FromImage(img), want); diff != "" {
		t.Errorf("FromImage() difference (-got +want):\n%s", diff)
	}
}

func TestWindow(t *testing.T) {
	for _, tc := range []struct {
		name      string
		w         Window
		wantErr   bool
		wantAddr  AddressWindow
		wantShift int
	}{
		{
			name:      "aligned",
			w:         Window{X: 0, Y: 0, Width: 240, Height: 360},
			wantAddr:  AddressWindow{ColStart: 0, ColEnd: 239, RowStart: 0, RowEnd: 359},
			wantShift: 0,
		},
		{
			name:      "unaligned",
			w:         Window{X: 13, Y: 100, Width: 20, Height: 5},
			wantAddr:  AddressWindow{ColStart: 8, ColEnd: 39, RowStart: 100, RowEnd: 104},
			wantShift: 5,
		},
		{
			name:      "single pixel",
			w:         Window{X: 7, Y: 359, Width: 1, Height: 1},
			wantAddr:  AddressWindow{ColStart: 0, ColEnd: 7, RowStart: 359, RowEnd: 359},
			wantShift: 7,
		},
		{name: "empty", w: Window{X: 0, Y: 0, Width: 0, Height: 5}, wantErr: true},
		{name: "too wide", w: Window{X: 200, Y: 0, Width: 41, Height: 5}, wantErr: true},
		{name: "too tall", w: Window{X: 0, Y: 300, Width: 8, Height: 61}, wantErr: true},
		{name: "negative", w: Window{X: -1, Y: 0, Width: 8, Height: 1}, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.w.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrOutOfBounds) {
					t.Errorf("Validate() = %v, want %v", err, ErrOutOfBounds)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if diff := cmp.Diff(tc.w.Address(), tc.wantAddr); diff != "" {
				t.Errorf("Address() difference (-got +want):\n%s", diff)
			}
			if got := tc.w.Shift(); got != tc.wantShift {
				t.Errorf("Shift() = %d, want %d", got, tc.wantShift)
			}
			if got, want := tc.w.Address().Stride(), Stride(tc.w.Width+tc.w.Shift()); got != want {
				t.Errorf("Address().Stride() = %d, want %d", got, want)
			}
		})
	}
}

func TestWindowAddressCoversWindow(t *testing.T) {
	for _, width := range []int{1, 3, 7, 8, 9, 13, 64, 100, 240} {
		for x := 0; x+width <= PanelWidth; x++ {
			w := Window{X: x, Y: 17, Width: width, Height: 5}
			a := w.Address()
			if a.ColStart > w.X || a.ColEnd < w.X+w.Width-1 {
				t.Fatalf("%v.Address() = %+v does not cover the window", w, a)
			}
			if a.ColStart%8 != 0 || (a.ColEnd+1)%8 != 0 || a.ColEnd >= PanelWidth {
				t.Fatalf("%v.Address() = %+v is not byte aligned on the panel", w, a)
			}
			if a.RowStart != w.Y || a.RowEnd != w.Y+w.Height-1 {
				t.Fatalf("%v.Address() rows = %d..%d", w, a.RowStart, a.RowEnd)
			}
			aligned := Window{X: a.ColStart, Y: w.Y, Width: a.ColEnd - a.ColStart + 1, Height: w.Height}
			if diff := cmp.Diff(aligned.Address(), a); diff != "" {
				t.Fatalf("%v.Address() is not stable (-got +want):\n%s", w, diff)
			}
		}
	}
}
