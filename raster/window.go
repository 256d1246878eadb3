// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package raster

import (
	"fmt"
	"image"
)

// Window is a rectangle on the panel, in pixels.
type Window struct {
	X, Y          int
	Width, Height int
}

// WindowAt returns the window covered by r when drawn at pos.
func WindowAt(pos image.Point, r *Raster) Window {
	return Window{X: pos.X, Y: pos.Y, Width: r.Width, Height: r.Height}
}

// Validate returns ErrOutOfBounds unless w is non-empty and fits on the
// panel.
func (w Window) Validate() error {
	if w.X < 0 || w.Y < 0 || w.Width <= 0 || w.Height <= 0 ||
		w.X+w.Width > PanelWidth || w.Y+w.Height > PanelHeight {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, w)
	}
	return nil
}

// Shift is the number of pixels the content must be moved right to land on
// the byte-aligned address window.
func (w Window) Shift() int {
	return w.X % 8
}

// Address returns the byte-aligned window the controller is programmed with.
func (w Window) Address() AddressWindow {
	return AddressWindow{
		ColStart: w.X &^ 7,
		ColEnd:   (w.X+w.Width-1)&^7 | 7,
		RowStart: w.Y,
		RowEnd:   w.Y + w.Height - 1,
	}
}

func (w Window) String() string {
	return fmt.Sprintf("(%d,%d)+%dx%d", w.X, w.Y, w.Width, w.Height)
}

// AddressWindow is an inclusive window whose columns are aligned to whole
// bytes.
type AddressWindow struct {
	ColStart, ColEnd int
	RowStart, RowEnd int
}

// Stride returns the number of bytes per row inside the window.
func (a AddressWindow) Stride() int {
	return (a.ColEnd - a.ColStart + 1) / 8
}
