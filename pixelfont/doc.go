// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pixelfont prints text with a fixed 5x7 pixel font through the
// partial refresh window of an e-paper panel.
//
// Glyphs are stored rotated: each of the five text columns is one byte, so a
// line of text is a raster LineWidth pixels across the panel X axis and as
// long as the text along the Y axis. Digits, ASCII letters and the symbols
// '*' (degree), '-' and '%' have glyphs; every other rune prints as a narrow
// blank.
package pixelfont
