// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pixelfont

import (
	"errors"
	"image"

	"github.com/GermanBionicSystems/paperclock/raster"
)

// Writer sends a raster to a window of the panel.
type Writer interface {
	PartialDisplay(pos image.Point, img *raster.Raster) error
}

// Layout describes where a string is printed.
//
// Text runs along the panel Y axis from Start to End. Lines are stacked
// along the X axis starting at Line.
type Layout struct {
	Scale int
	Start int
	End   int
	Line  int
}

var panelMax = image.Pt(raster.PanelWidth, raster.PanelHeight)

// Print lays out s and writes it one line at a time.
//
// Runes that do not fit on the current line wrap to the next one, and
// printing stops silently once a line would fall off the panel. Rows not
// covered by text are written white so a shorter string erases a longer one.
// Nothing is written when the region is not on the panel or cannot hold a
// single glyph.
func Print(w Writer, s string, l Layout) error {
	if l.Start < 0 || l.Line < 0 || l.End > raster.PanelHeight || l.Line >= raster.PanelWidth {
		return nil
	}
	maxWidth := l.End - l.Start
	maxHeight := raster.PanelWidth - l.Line
	if l.Scale < 1 || l.Scale > maxWidth/(wideColumns+1) || l.Scale > maxHeight/LineWidth {
		return nil
	}
	lineWidth := LineWidth * l.Scale
	line := raster.New(lineWidth, maxWidth)
	cursorX, cursorY := 0, 0
	flush := func() error {
		return ignoreBounds(w.PartialDisplay(image.Pt(l.Line+cursorY, l.Start), line))
	}
	for _, r := range s {
		g := Lookup(r)
		adv := g.Advance() * l.Scale
		if cursorX+adv > maxWidth {
			if err := flush(); err != nil {
				return err
			}
			cursorY += lineWidth
			if cursorY+lineWidth > maxHeight {
				return nil
			}
			line = raster.New(lineWidth, maxWidth)
			cursorX = 0
		}
		src := g.Raster
		if l.Scale > 1 {
			var err error
			if src, err = raster.Scale(src, l.Scale, panelMax); err != nil {
				return nil
			}
		}
		n := g.Columns * l.Scale
		copy(line.Pix[cursorX*line.Stride():(cursorX+n)*line.Stride()], src.Pix)
		cursorX += adv
	}
	if cursorX > 0 {
		return flush()
	}
	return nil
}

// PrintRune writes a single glyph at pos, enlarged by scale.
//
// The window is LineWidth*scale pixels across and GlyphRows*scale tall.
// Glyphs that would not fit are skipped.
func PrintRune(w Writer, r rune, scale int, pos image.Point) error {
	src := Lookup(r).Raster
	if scale > 1 {
		var err error
		if src, err = raster.Scale(src, scale, panelMax); err != nil {
			return nil
		}
	} else if scale < 1 {
		return nil
	}
	return ignoreBounds(w.PartialDisplay(pos, src))
}

// Width returns the number of pixels s covers along a line at scale.
func Width(s string, scale int) int {
	n := 0
	for _, r := range s {
		n += Lookup(r).Advance()
	}
	return n * scale
}

func ignoreBounds(err error) error {
	if errors.Is(err, raster.ErrOutOfBounds) {
		return nil
	}
	return err
}
