// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dial places a sun or moon icon on a rounded rectangular track
// around the clock face, one lap per day.
//
// The icons are drawn with gg at start up and kept as 16x16 rasters; they
// are doubled to 32x32 when sent to the panel.
package dial
