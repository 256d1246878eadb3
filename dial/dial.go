// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dial

import (
	"image"
	"math"

	"github.com/GermanBionicSystems/paperclock/raster"
)

// MinutesPerDay is the length of one lap around the dial.
const MinutesPerDay = 24 * 60

const (
	radius  = 49
	segment = 180
	// straight is the length of a straight edge covered in one segment.
	straight = 77
)

// Icon selects the bitmap drawn on the dial.
type Icon uint8

// Icons. The moon icons cover the waxing half of the cycle; the waning half
// reuses them flipped.
const (
	Sun Icon = iota
	NewMoon
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
)

func (i Icon) String() string {
	switch i {
	case Sun:
		return "Sun"
	case NewMoon:
		return "NewMoon"
	case WaxingCrescent:
		return "WaxingCrescent"
	case FirstQuarter:
		return "FirstQuarter"
	case WaxingGibbous:
		return "WaxingGibbous"
	case FullMoon:
		return "FullMoon"
	default:
		return "Icon(?)"
	}
}

// State is what the dial shows.
type State struct {
	// Minute of the day, 0 to 1439.
	Minute int
	// Sunrise and Sunset are minutes of the day. The sun is shown strictly
	// between them.
	Sunrise int
	Sunset  int
	// MoonPhase is 0 (new) to 7 (waning crescent).
	MoonPhase int
}

// Placement is where and how the icon is drawn.
type Placement struct {
	Pos  image.Point
	Icon Icon
	Flip bool
}

// Locate returns the placement for s.
func Locate(s State) Placement {
	m := wrap(s.Minute)
	p := Placement{Pos: Position(m)}
	if s.Sunrise < m && m < s.Sunset {
		p.Icon = Sun
		return p
	}
	phase := s.MoonPhase % 8
	if phase < 0 {
		phase += 8
	}
	if phase > 4 {
		p.Icon = NewMoon + Icon(8-phase)
		p.Flip = true
	} else {
		p.Icon = NewMoon + Icon(phase)
	}
	return p
}

// Position returns the top-left corner of the icon at minute m.
//
// The track is a rounded rectangle: four straight edges joined by quarter
// circles, each covering 180 minutes, with midnight halfway along the first
// edge.
func Position(m int) image.Point {
	m = wrap(m)
	f := float64(m)
	var x, y float64
	switch {
	case m < 90:
		x = 0
		y = 130 - 38.5 - f/segment*straight
	case m < 270:
		th := -(f-90)/segment*math.Pi/2 - math.Pi/2
		x = math.Sin(th)*radius + 49
		y = math.Cos(th)*radius + 51
	case m < 450:
		x = 49 + (f-270)/segment*straight
		y = 2
	case m < 630:
		th := -(f-450)/segment*math.Pi/2 - math.Pi
		x = math.Sin(th)*radius + 126
		y = math.Cos(th)*radius + 51
	case m < 810:
		x = 176
		y = 51 + (f-630)/segment*straight
	case m < 990:
		th := -(f-810)/segment*math.Pi/2 - 1.5*math.Pi
		x = math.Sin(th)*radius + 126
		y = math.Cos(th)*radius + 128
	case m < 1170:
		x = 126 - (f-990)/segment*straight
		y = 178
	case m < 1350:
		th := -(f - 1170) / segment * math.Pi / 2
		x = math.Sin(th)*radius + 49
		y = math.Cos(th)*radius + 128
	default:
		x = 0
		y = 128 - (f-1350)/segment*straight
	}
	return image.Pt(clamp(x), clamp(y))
}

// Bitmap returns the 32x32 raster for p.
func Bitmap(p Placement) (*raster.Raster, error) {
	src := icon(p.Icon)
	if p.Flip {
		src = raster.FlipVertical(src)
	}
	return raster.Scale(src, scale, image.Pt(Size, Size))
}

func wrap(m int) int {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}

func clamp(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v)
}
