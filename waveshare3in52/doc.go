// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package waveshare3in52 controls the Waveshare 3.52inch e-paper display, a
// 240x360 black and white panel with partial refresh.
//
// Partial refreshes are addressed in whole bytes along the X axis. The driver
// shifts images that start mid byte and pads them with white, so any window
// on the panel can be updated without touching its neighbours.
//
// Mirror decodes the command stream into an image and can be used instead of,
// or in front of, the hardware.
//
// Product page:
//
// https://www.waveshare.com/wiki/3.52inch_e-Paper_HAT
//
package waveshare3in52
