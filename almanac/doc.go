// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package almanac derives the calendar values shown by the clock from a
// point in time: the local date, the moon phase and the sunrise and sunset
// minutes for a place.
//
// Sun times use the NOAA sunrise equation approximation, which is accurate
// to a few minutes away from the poles.
package almanac
