// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package raster holds the packed 1 bit per pixel images sent to the e-paper
// panel, and the few transforms the partial refresh protocol needs: sub-byte
// shifting, integer scaling and flipping.
//
// A Raster also implements draw.Image with image1bit colors so it can be the
// target of the standard image/draw functions.
package raster
