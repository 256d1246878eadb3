// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package clockface lays out the weather clock on a 240x360 e-paper panel.
//
// The panel is mounted in landscape. Text runs along the panel Y axis and
// every field owns a fixed region so it can be refreshed on its own:
//
//   - the four hour digits, enlarged eight times, in the middle;
//   - the date along the top edge;
//   - pressure, humidity and temperature on the right;
//   - a sun or moon icon travelling around a dial once a day.
//
// Face remembers what it drew and only refreshes the fields that changed,
// down to single digits of the hour.
package clockface
