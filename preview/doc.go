// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview serves a live picture of the e-paper panel over HTTP.
//
// Server implements display.Drawer over the panel coordinates and
// http.Handler. Clients receive the current picture and a new one after
// every change, as an "MJPEG" stream (https://en.wikipedia.org/wiki/Motion_JPEG)
// of PNG images by default. The "format" URL parameter selects PNG or JPEG
// and "single" returns one image and ends the response.
//
// The picture is shown in landscape, the way the clock is mounted, and
// enlarged by Opts.Zoom.
package preview
