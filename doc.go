// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package paperclock is a weather clock on a Waveshare 3.52inch e-paper
// panel.
//
// The panel driver lives in waveshare3in52 and works on 1-bit rasters from
// raster. pixelfont and dial turn text and the sun and moon into rasters,
// and clockface puts them in place. almanac, envsensor and esp01 provide
// the calendar, the weather and the time. cmd/paperclock ties everything
// together on a Raspberry Pi.
//
// termview and preview show the panel on a terminal or a web browser.
package paperclock
