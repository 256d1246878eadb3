// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package clockface

import (
	"errors"
	"fmt"
	"image"

	"github.com/GermanBionicSystems/paperclock/almanac"
	"github.com/GermanBionicSystems/paperclock/dial"
	"github.com/GermanBionicSystems/paperclock/envsensor"
	"github.com/GermanBionicSystems/paperclock/pixelfont"
	"github.com/GermanBionicSystems/paperclock/raster"
)

// Regions of the face, in panel coordinates.
var (
	// digitPos holds the tens of hours, hours, tens of minutes and minutes.
	digitPos = [4]image.Point{
		image.Pt(104, 60),
		image.Pt(104, 108),
		image.Pt(40, 60),
		image.Pt(40, 108),
	}
	dateLayout        = pixelfont.Layout{Scale: 3, Start: 0, End: 360, Line: 208}
	temperatureLayout = pixelfont.Layout{Scale: 4, Start: 218, End: 360, Line: 150}
	pressureLayout    = pixelfont.Layout{Scale: 3, Start: 215, End: 360, Line: 10}
	humidityLayout    = pixelfont.Layout{Scale: 4, Start: 266, End: 360, Line: 80}
)

// digitScale enlarges hour digits to 64x40 pixels.
const digitScale = 8

// Opts is the face configuration.
type Opts struct {
	Locale Locale
}

// DefaultOpts prints French dates.
var DefaultOpts = Opts{Locale: French}

// Snapshot is everything the face shows at a given minute.
type Snapshot struct {
	Date almanac.Date
	Env  envsensor.Reading
	// Sunrise and Sunset are minutes of the day.
	Sunrise   int
	Sunset    int
	MoonPhase int
}

// Dial returns the dial state of s.
func (s *Snapshot) Dial() dial.State {
	return dial.State{Minute: s.Date.Minute, Sunrise: s.Sunrise, Sunset: s.Sunset, MoonPhase: s.MoonPhase}
}

// Face draws snapshots on a panel.
//
// It is not safe for concurrent use; the panel driver serializes the wire
// protocol, not the face layout.
type Face struct {
	w    pixelfont.Writer
	opts Opts

	drawn bool
	last  Snapshot
	icon  dial.Placement
}

// New returns a Face writing to w. The first Update draws every field.
func New(w pixelfont.Writer, opts *Opts) *Face {
	return &Face{w: w, opts: *opts}
}

// Reset forgets what was drawn, for example after the panel was cleared.
func (f *Face) Reset() {
	f.drawn = false
}

// Update draws s, refreshing only the fields that differ from the previous
// snapshot.
//
// When an error occurs the next Update redraws every field.
func (f *Face) Update(s Snapshot) error {
	err := f.update(&s)
	if err != nil {
		f.drawn = false
		return err
	}
	f.drawn = true
	f.last = s
	return nil
}

func (f *Face) update(s *Snapshot) error {
	prev := -1
	if f.drawn {
		prev = f.last.Date.Minute
	}
	if prev != s.Date.Minute {
		if err := f.PrintHour(s.Date.Minute, prev); err != nil {
			return err
		}
	}
	d, l := s.Date, f.last.Date
	if !f.drawn || d.Weekday != l.Weekday || d.Day != l.Day || d.Month != l.Month {
		if err := f.PrintDate(d.Weekday, d.Day, d.Month); err != nil {
			return err
		}
	}
	if !f.drawn || s.Env.Temperature != f.last.Env.Temperature {
		if err := f.PrintTemperature(s.Env.Temperature); err != nil {
			return err
		}
	}
	if !f.drawn || s.Env.Pressure != f.last.Env.Pressure {
		if err := f.PrintPressure(s.Env.Pressure); err != nil {
			return err
		}
	}
	if !f.drawn || s.Env.Humidity != f.last.Env.Humidity {
		if err := f.PrintHumidity(s.Env.Humidity); err != nil {
			return err
		}
	}
	if p := dial.Locate(s.Dial()); !f.drawn || p != f.icon {
		if err := f.printPlacement(p); err != nil {
			return err
		}
	}
	return nil
}

// PrintHour draws the hour digits of minute, a minute of the day.
//
// Only the digits that differ from those of prev are redrawn. A negative
// prev redraws all four.
func (f *Face) PrintHour(minute, prev int) error {
	cur := digits(minute)
	old := digits(prev)
	for i, d := range cur {
		if prev >= 0 && d == old[i] {
			continue
		}
		if err := pixelfont.PrintRune(f.w, rune('0'+d), digitScale, digitPos[i]); err != nil {
			return fmt.Errorf("clockface: hour: %w", err)
		}
	}
	return nil
}

// PrintDate draws the date line. weekday is 0 for Monday and month is 0 for
// January.
func (f *Face) PrintDate(weekday, day, month int) error {
	return f.print("date", f.opts.Locale.Date(weekday, day, month), dateLayout)
}

// PrintTemperature draws t, in tenths of a degree Celsius.
func (f *Face) PrintTemperature(t int) error {
	return f.print("temperature", formatTemperature(t), temperatureLayout)
}

// PrintPressure draws p, in hectopascal.
func (f *Face) PrintPressure(p uint32) error {
	return f.print("pressure", formatPressure(p), pressureLayout)
}

// PrintHumidity draws h, in percent.
func (f *Face) PrintHumidity(h uint32) error {
	return f.print("humidity", formatHumidity(h), humidityLayout)
}

// PrintDial draws the sun or the moon on the dial.
func (f *Face) PrintDial(s dial.State) error {
	return f.printPlacement(dial.Locate(s))
}

func (f *Face) printPlacement(p dial.Placement) error {
	img, err := dial.Bitmap(p)
	if err != nil {
		return fmt.Errorf("clockface: dial: %w", err)
	}
	if err := f.w.PartialDisplay(p.Pos, img); err != nil && !errors.Is(err, raster.ErrOutOfBounds) {
		return fmt.Errorf("clockface: dial: %w", err)
	}
	f.icon = p
	return nil
}

func (f *Face) print(field, s string, l pixelfont.Layout) error {
	if err := pixelfont.Print(f.w, s, l); err != nil {
		return fmt.Errorf("clockface: %s: %w", field, err)
	}
	return nil
}

// digits splits a minute of the day into the four digits of HHMM.
func digits(m int) [4]int {
	if m < 0 {
		return [4]int{-1, -1, -1, -1}
	}
	m %= dial.MinutesPerDay
	return [4]int{m / 600, m % 600 / 60, m % 60 / 10, m % 10}
}

// formatTemperature prints tenths of a degree with a decimal comma. The
// value is clamped to what fits the region.
func formatTemperature(t int) string {
	switch {
	case t > 999:
		t = 999
	case t < -99:
		t = -99
	}
	if t < 0 {
		return fmt.Sprintf("-%d,%d*C", -t/10, -t%10)
	}
	return fmt.Sprintf("%2d,%d*C", t/10, t%10)
}

func formatPressure(p uint32) string {
	if p > 9999 {
		p = 9999
	}
	return fmt.Sprintf("%4d hPa", p)
}

func formatHumidity(h uint32) string {
	if h > 99 {
		h = 99
	}
	return fmt.Sprintf("%2d %%", h)
}
