// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package almanac

import (
	"fmt"
	"math"
	"time"

	moon "github.com/pdevine/goMoonPhase"
)

// DefaultZone is the IANA zone the clock was built for.
const DefaultZone = "Europe/Paris"

// MinutesPerDay is the number of minutes in a civil day.
const MinutesPerDay = 24 * 60

// Date is a local date broken down the way the clock face prints it.
type Date struct {
	// Weekday is 0 for Monday through 6 for Sunday.
	Weekday int
	// Day of the month, 1 based.
	Day int
	// Month is 0 for January through 11 for December.
	Month int
	Year  int
	// Minute of the day, 0 to 1439.
	Minute int
}

// Local converts t to loc and breaks it down.
//
// A nil loc keeps the location of t. Daylight saving transitions follow the
// zone rules.
func Local(t time.Time, loc *time.Location) Date {
	if loc != nil {
		t = t.In(loc)
	}
	return Date{
		Weekday: (int(t.Weekday()) + 6) % 7,
		Day:     t.Day(),
		Month:   int(t.Month()) - 1,
		Year:    t.Year(),
		Minute:  t.Hour()*60 + t.Minute(),
	}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", d.Year, d.Month+1, d.Day, d.Minute/60, d.Minute%60)
}

// Moon phases, in lunation order.
const (
	NewMoon = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
	WaningGibbous
	ThirdQuarter
	WaningCrescent
)

var phases = map[string]int{
	"New Moon":        NewMoon,
	"Waxing Crescent": WaxingCrescent,
	"First Quarter":   FirstQuarter,
	"Waxing Gibbous":  WaxingGibbous,
	"Full Moon":       FullMoon,
	"Waning Gibbous":  WaningGibbous,
	"Third Quarter":   ThirdQuarter,
	"Waning Crescent": WaningCrescent,
}

// MoonPhase returns the phase of the moon at t, from NewMoon to
// WaningCrescent.
func MoonPhase(t time.Time) int {
	// Unknown names map to NewMoon.
	return phases[moon.New(t).PhaseName()]
}

// SunTimes returns the sunrise and sunset of the calendar day of day, in
// minutes since local midnight in the location of day.
//
// When the sun stays up all day it returns (-1, MinutesPerDay), and when it
// never rises it returns (0, 0). Either way a minute of the day is between
// the two values exactly when the sun is up.
func SunTimes(day time.Time, lat, lon float64) (rise, set int) {
	r, ok := sunEvent(day, lat, lon, true)
	if !ok {
		return polar(day, lat, lon)
	}
	s, ok := sunEvent(day, lat, lon, false)
	if !ok {
		return polar(day, lat, lon)
	}
	return minuteOf(day, r), minuteOf(day, s)
}

// zenith is the official sunrise zenith, accounting for refraction and the
// solar disc.
const zenith = 90.833

// sunEvent returns the UTC hour of sunrise or sunset.
func sunEvent(day time.Time, lat, lon float64, rising bool) (float64, bool) {
	cosH, ra, t := hourAngle(day, lat, lon, rising)
	if cosH > 1 || cosH < -1 {
		return 0, false
	}
	h := rad2deg(math.Acos(cosH)) / 15
	if rising {
		h = (360 - rad2deg(math.Acos(cosH))) / 15
	}
	local := h + ra - 0.06571*t - 6.622
	return normalizeHour(local - lon/15), true
}

// hourAngle returns the cosine of the local hour angle, the sun's right
// ascension in hours and the approximate event time in days.
func hourAngle(day time.Time, lat, lon float64, rising bool) (cosH, ra, t float64) {
	n := float64(day.YearDay())
	approx := 18.0
	if rising {
		approx = 6
	}
	t = n + (approx-lon/15)/24
	m := 0.9856*t - 3.289
	l := normalizeDeg(m + 1.916*math.Sin(deg2rad(m)) + 0.020*math.Sin(2*deg2rad(m)) + 282.634)
	ra = normalizeDeg(rad2deg(math.Atan(0.91764 * math.Tan(deg2rad(l)))))
	lQuadrant := math.Floor(l/90) * 90
	raQuadrant := math.Floor(ra/90) * 90
	ra = (ra + (lQuadrant - raQuadrant)) / 15
	sinDec := 0.39782 * math.Sin(deg2rad(l))
	cosDec := math.Cos(math.Asin(sinDec))
	cosH = (math.Cos(deg2rad(zenith)) - sinDec*math.Sin(deg2rad(lat))) / (cosDec * math.Cos(deg2rad(lat)))
	return cosH, ra, t
}

func polar(day time.Time, lat, lon float64) (int, int) {
	if cosH, _, _ := hourAngle(day, lat, lon, true); cosH > 1 {
		return 0, 0
	}
	return -1, MinutesPerDay
}

func minuteOf(day time.Time, ut float64) int {
	utc := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(ut * float64(time.Hour))).In(day.Location())
	return utc.Hour()*60 + utc.Minute()
}

func deg2rad(v float64) float64 { return v * math.Pi / 180 }
func rad2deg(v float64) float64 { return v * 180 / math.Pi }

func normalizeDeg(v float64) float64 {
	for v < 0 {
		v += 360
	}
	for v >= 360 {
		v -= 360
	}
	return v
}

func normalizeHour(v float64) float64 {
	for v < 0 {
		v += 24
	}
	for v >= 24 {
		v -= 24
	}
	return v
}
