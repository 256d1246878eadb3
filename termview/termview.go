// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a display.Drawer that shows the e-paper panel
// on a terminal using ANSI color codes.
//
// The panel is shown in landscape, the way the clock is mounted, and shrunk
// so that each character cell covers Scale by Scale pixels. Cells are shaded
// by the share of inked pixels they cover.
//
// Useful while the panel is still on its way, or to watch a headless clock
// over ssh.
package termview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/paperclock/raster"
)

// Opts represents the options available for this display.
type Opts struct {
	// Scale is the number of pixels per character cell along each axis.
	Scale   int
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultOpts fits a 90x60 terminal.
var DefaultOpts = Opts{Scale: 4}

// Dev is an e-paper panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	scale   int
	palette ansi256.Palette

	frame *image1bit.VerticalLSB
	buf   bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Dev that writes escape sequences to w.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	s := opts.Scale
	if s < 1 {
		s = 1
	}
	f := image1bit.NewVerticalLSB(image.Rect(0, 0, raster.PanelWidth, raster.PanelHeight))
	draw.Draw(f, f.Bounds(), &image.Uniform{C: image1bit.On}, image.Point{}, draw.Src)
	return &Dev{w: w, scale: s, palette: *p, frame: f}
}

func (d *Dev) String() string {
	return "TermView"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. It is the panel, in portrait.
func (d *Dev) Bounds() image.Rectangle {
	return d.frame.Bounds()
}

// Draw implements display.Drawer.
//
// The whole view is redrawn after every call.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	draw.Draw(d.frame, r, src, sp, draw.Src)
	return d.refresh()
}

// Size returns the number of character cells of the view.
func (d *Dev) Size() (cols, rows int) {
	return (raster.PanelHeight + d.scale - 1) / d.scale, (raster.PanelWidth + d.scale - 1) / d.scale
}

func (d *Dev) refresh() error {
	cols, rows := d.Size()
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H\033[0m")
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(color.NRGBAModel.Convert(d.shade(col, row)).(color.NRGBA)))
		}
		_, _ = d.buf.WriteString("\033[0m\r\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

// shade averages the cell at (col, row) of the landscape view.
//
// View (vx, vy) is panel (PanelWidth-1-vy, vx).
func (d *Dev) shade(col, row int) color.Gray {
	total, white := 0, 0
	for vy := row * d.scale; vy < (row+1)*d.scale && vy < raster.PanelWidth; vy++ {
		for vx := col * d.scale; vx < (col+1)*d.scale && vx < raster.PanelHeight; vx++ {
			total++
			if d.frame.BitAt(raster.PanelWidth-1-vy, vx) {
				white++
			}
		}
	}
	return color.Gray{Y: uint8(white * 255 / total)}
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
