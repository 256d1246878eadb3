// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pixelfont

import "github.com/GermanBionicSystems/paperclock/raster"

// columns holds the classic 5x7 LCD font in index order, one byte per text
// column with bit 0 at the top and set bits inked.
var columns = [...][5]byte{
	// 0-9
	{0x3E, 0x51, 0x49, 0x45, 0x3E},
	{0x00, 0x42, 0x7F, 0x40, 0x00},
	{0x42, 0x61, 0x51, 0x49, 0x46},
	{0x21, 0x41, 0x45, 0x4B, 0x31},
	{0x18, 0x14, 0x12, 0x7F, 0x10},
	{0x27, 0x45, 0x45, 0x45, 0x39},
	{0x3C, 0x4A, 0x49, 0x49, 0x30},
	{0x01, 0x71, 0x09, 0x05, 0x03},
	{0x36, 0x49, 0x49, 0x49, 0x36},
	{0x06, 0x49, 0x49, 0x29, 0x1E},
	// A-Z
	{0x7E, 0x11, 0x11, 0x11, 0x7E},
	{0x7F, 0x49, 0x49, 0x49, 0x36},
	{0x3E, 0x41, 0x41, 0x41, 0x22},
	{0x7F, 0x41, 0x41, 0x22, 0x1C},
	{0x7F, 0x49, 0x49, 0x49, 0x41},
	{0x7F, 0x09, 0x09, 0x01, 0x01},
	{0x3E, 0x41, 0x41, 0x51, 0x32},
	{0x7F, 0x08, 0x08, 0x08, 0x7F},
	{0x00, 0x41, 0x7F, 0x41, 0x00},
	{0x20, 0x40, 0x41, 0x3F, 0x01},
	{0x7F, 0x08, 0x14, 0x22, 0x41},
	{0x7F, 0x40, 0x40, 0x40, 0x40},
	{0x7F, 0x02, 0x04, 0x02, 0x7F},
	{0x7F, 0x04, 0x08, 0x10, 0x7F},
	{0x3E, 0x41, 0x41, 0x41, 0x3E},
	{0x7F, 0x09, 0x09, 0x09, 0x06},
	{0x3E, 0x41, 0x51, 0x21, 0x5E},
	{0x7F, 0x09, 0x19, 0x29, 0x46},
	{0x46, 0x49, 0x49, 0x49, 0x31},
	{0x01, 0x01, 0x7F, 0x01, 0x01},
	{0x3F, 0x40, 0x40, 0x40, 0x3F},
	{0x1F, 0x20, 0x40, 0x20, 0x1F},
	{0x7F, 0x20, 0x18, 0x20, 0x7F},
	{0x63, 0x14, 0x08, 0x14, 0x63},
	{0x03, 0x04, 0x78, 0x04, 0x03},
	{0x61, 0x51, 0x49, 0x45, 0x43},
	// a-z
	{0x20, 0x54, 0x54, 0x54, 0x78},
	{0x7F, 0x48, 0x44, 0x44, 0x38},
	{0x38, 0x44, 0x44, 0x44, 0x20},
	{0x38, 0x44, 0x44, 0x48, 0x7F},
	{0x38, 0x54, 0x54, 0x54, 0x18},
	{0x08, 0x7E, 0x09, 0x01, 0x02},
	{0x0C, 0x52, 0x52, 0x52, 0x3E},
	{0x7F, 0x08, 0x04, 0x04, 0x78},
	{0x00, 0x44, 0x7D, 0x40, 0x00},
	{0x20, 0x40, 0x44, 0x3D, 0x00},
	{0x7F, 0x10, 0x28, 0x44, 0x00},
	{0x00, 0x41, 0x7F, 0x40, 0x00},
	{0x7C, 0x04, 0x18, 0x04, 0x78},
	{0x7C, 0x08, 0x04, 0x04, 0x78},
	{0x38, 0x44, 0x44, 0x44, 0x38},
	{0x7C, 0x14, 0x14, 0x14, 0x08},
	{0x08, 0x14, 0x14, 0x18, 0x7C},
	{0x7C, 0x08, 0x04, 0x04, 0x08},
	{0x48, 0x54, 0x54, 0x54, 0x20},
	{0x04, 0x3F, 0x44, 0x40, 0x20},
	{0x3C, 0x40, 0x40, 0x20, 0x7C},
	{0x1C, 0x20, 0x40, 0x20, 0x1C},
	{0x3C, 0x40, 0x30, 0x40, 0x3C},
	{0x44, 0x28, 0x10, 0x28, 0x44},
	{0x0C, 0x50, 0x50, 0x50, 0x3C},
	{0x44, 0x64, 0x54, 0x4C, 0x44},
	// '*' is drawn as a degree sign.
	{0x00, 0x06, 0x09, 0x09, 0x06},
	// '-'
	{0x08, 0x08, 0x08, 0x08, 0x08},
	// '%'
	{0x23, 0x13, 0x08, 0x64, 0x62},
	// ' ' and every other rune.
	{},
}

// Indexes of the symbols following the alphanumerics.
const (
	indexDegree = 62 + iota
	indexMinus
	indexPercent
	indexBlank
)

// Glyph heights and column counts.
const (
	// GlyphRows is the number of text columns stored per glyph.
	GlyphRows = 5
	// LineWidth is the number of pixels across a line at scale 1.
	LineWidth = 8

	wideColumns   = 5
	narrowColumns = 2
)

// Glyph is a single character ready to be sent to the panel.
type Glyph struct {
	// Raster is LineWidth pixels wide and GlyphRows tall; row k is text
	// column k.
	Raster *raster.Raster
	// Columns is the number of meaningful text columns.
	Columns int
}

// Advance is the distance to the next glyph at scale 1, spacing included.
func (g Glyph) Advance() int {
	return g.Columns + 1
}

var glyphs [len(columns)]Glyph

func init() {
	for i, cols := range columns {
		r := raster.New(LineWidth, GlyphRows)
		for k, c := range cols {
			r.Pix[k] = ^c
		}
		n := wideColumns
		if i == indexBlank {
			n = narrowColumns
		}
		glyphs[i] = Glyph{Raster: r, Columns: n}
	}
}

// Index returns the position of r in the font table.
//
// Digits come first, then upper and lower case letters, then the symbols
// '*', '-' and '%'. Space and any rune without a glyph map to the narrow
// blank.
func Index(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 36
	case r == '*':
		return indexDegree
	case r == '-':
		return indexMinus
	case r == '%':
		return indexPercent
	default:
		return indexBlank
	}
}

// Lookup returns the glyph for r. The returned raster must not be modified.
func Lookup(r rune) Glyph {
	return glyphs[Index(r)]
}
