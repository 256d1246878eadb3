// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package clockface

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/paperclock/almanac"
	"github.com/GermanBionicSystems/paperclock/dial"
	"github.com/GermanBionicSystems/paperclock/envsensor"
	"github.com/GermanBionicSystems/paperclock/pixelfont"
	"github.com/GermanBionicSystems/paperclock/raster"
	"github.com/GermanBionicSystems/paperclock/waveshare3in52"
)

type write struct {
	Pos image.Point
	Img *raster.Raster
}

// recorder keeps a copy of every window written to the panel.
type recorder struct {
	writes []write
	err    error
}

func (r *recorder) PartialDisplay(pos image.Point, img *raster.Raster) error {
	if r.err != nil {
		return r.err
	}
	r.writes = append(r.writes, write{Pos: pos, Img: img.Clone()})
	return nil
}

func (r *recorder) positions() []image.Point {
	var out []image.Point
	for _, w := range r.writes {
		out = append(out, w.Pos)
	}
	return out
}

func digitWrite(t *testing.T, r rune, i int) write {
	img, err := raster.Scale(pixelfont.Lookup(r).Raster, digitScale, image.Pt(raster.PanelWidth, raster.PanelHeight))
	if err != nil {
		t.Fatal(err)
	}
	return write{Pos: digitPos[i], Img: img}
}

func TestPrintHour(t *testing.T) {
	for _, tc := range []struct {
		name   string
		minute int
		prev   int
		want   map[int]rune
	}{
		{name: "first draw", minute: 599, prev: -1, want: map[int]rune{0: '0', 1: '9', 2: '5', 3: '9'}},
		{name: "ten o'clock", minute: 600, prev: 599, want: map[int]rune{0: '1', 1: '0', 2: '0', 3: '0'}},
		{name: "one minute", minute: 601, prev: 600, want: map[int]rune{3: '1'}},
		{name: "ten minutes", minute: 610, prev: 609, want: map[int]rune{2: '1', 3: '0'}},
		{name: "eleven o'clock", minute: 660, prev: 659, want: map[int]rune{1: '1', 2: '0', 3: '0'}},
		{name: "midnight", minute: 0, prev: 1439, want: map[int]rune{0: '0', 1: '0', 2: '0', 3: '0'}},
		{name: "same", minute: 754, prev: 754},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			if err := New(rec, &DefaultOpts).PrintHour(tc.minute, tc.prev); err != nil {
				t.Fatal(err)
			}
			var want []write
			for i := range digitPos {
				if r, ok := tc.want[i]; ok {
					want = append(want, digitWrite(t, r, i))
				}
			}
			if diff := cmp.Diff(rec.writes, want, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("PrintHour(%d, %d) difference (-got +want):\n%s", tc.minute, tc.prev, diff)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	for _, tc := range []struct {
		got  string
		want string
	}{
		{formatTemperature(215), "21,5*C"},
		{formatTemperature(5), " 0,5*C"},
		{formatTemperature(0), " 0,0*C"},
		{formatTemperature(-5), "-0,5*C"},
		{formatTemperature(-33), "-3,3*C"},
		{formatTemperature(-250), "-9,9*C"},
		{formatTemperature(1234), "99,9*C"},
		{formatPressure(1013), "1013 hPa"},
		{formatPressure(987), " 987 hPa"},
		{formatPressure(12000), "9999 hPa"},
		{formatHumidity(45), "45 %"},
		{formatHumidity(7), " 7 %"},
		{formatHumidity(100), "99 %"},
	} {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestLocale(t *testing.T) {
	if got := French.Date(0, 5, 0); got != "Lundi 5 janvier" {
		t.Errorf("French.Date() = %q", got)
	}
	if got := English.Date(6, 31, 11); got != "Sunday 31 Dec" {
		t.Errorf("English.Date() = %q", got)
	}
	if got := French.Date(9, 1, 12); got != "Lundi 1 janvier" {
		t.Errorf("French.Date() out of range = %q", got)
	}
	l, err := LookupLocale("EN")
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "en" {
		t.Errorf("LookupLocale() = %q", l.Name)
	}
	if _, err := LookupLocale("de"); err == nil {
		t.Error("LookupLocale(de) succeeded")
	}
}

func TestLocaleDateFits(t *testing.T) {
	for _, l := range []Locale{French, English} {
		t.Run(l.Name, func(t *testing.T) {
			width := dateLayout.End - dateLayout.Start
			for w := range l.Weekdays {
				for m := range l.Months {
					for d := 1; d <= 31; d++ {
						s := l.Date(w, d, m)
						if got := pixelfont.Width(s, dateLayout.Scale); got > width {
							t.Fatalf("Width(%q) = %d, want <= %d", s, got, width)
						}
					}
				}
			}
		})
	}
}

// printed returns the windows pixelfont.Print writes for s.
func printed(t *testing.T, s string, l pixelfont.Layout) []write {
	rec := &recorder{}
	if err := pixelfont.Print(rec, s, l); err != nil {
		t.Fatal(err)
	}
	return rec.writes
}

func TestPrintFields(t *testing.T) {
	for _, tc := range []struct {
		name  string
		print func(f *Face) error
		want  func(t *testing.T) []write
	}{
		{
			name:  "date",
			print: func(f *Face) error { return f.PrintDate(4, 16, 0) },
			want:  func(t *testing.T) []write { return printed(t, "Vendredi 16 janvier", dateLayout) },
		},
		{
			name:  "temperature",
			print: func(f *Face) error { return f.PrintTemperature(-33) },
			want:  func(t *testing.T) []write { return printed(t, "-3,3*C", temperatureLayout) },
		},
		{
			name:  "pressure",
			print: func(f *Face) error { return f.PrintPressure(1013) },
			want:  func(t *testing.T) []write { return printed(t, "1013 hPa", pressureLayout) },
		},
		{
			name:  "humidity",
			print: func(f *Face) error { return f.PrintHumidity(45) },
			want:  func(t *testing.T) []write { return printed(t, "45 %", humidityLayout) },
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			if err := tc.print(New(rec, &DefaultOpts)); err != nil {
				t.Fatal(err)
			}
			want := tc.want(t)
			if len(want) != 1 {
				t.Fatalf("expected a single line, got %d", len(want))
			}
			if diff := cmp.Diff(rec.writes, want); diff != "" {
				t.Errorf("difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestPrintDial(t *testing.T) {
	rec := &recorder{}
	s := dial.State{Minute: 720, Sunrise: 480, Sunset: 1200, MoonPhase: 6}
	if err := New(rec, &DefaultOpts).PrintDial(s); err != nil {
		t.Fatal(err)
	}
	img, err := dial.Bitmap(dial.Placement{Pos: dial.Position(720), Icon: dial.Sun})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rec.writes, []write{{Pos: dial.Position(720), Img: img}}); diff != "" {
		t.Errorf("PrintDial() difference (-got +want):\n%s", diff)
	}
}

var snapshot = Snapshot{
	Date:      almanac.Date{Weekday: 4, Day: 16, Month: 0, Year: 2026, Minute: 925},
	Env:       envsensor.Reading{Temperature: 215, Pressure: 1013, Humidity: 45},
	Sunrise:   500,
	Sunset:    1000,
	MoonPhase: 2,
}

func TestUpdate(t *testing.T) {
	rec := &recorder{}
	f := New(rec, &DefaultOpts)

	if err := f.Update(snapshot); err != nil {
		t.Fatal(err)
	}
	icon := dial.Position(925)
	want := []image.Point{
		digitPos[0], digitPos[1], digitPos[2], digitPos[3],
		image.Pt(208, 0), image.Pt(150, 218), image.Pt(10, 215), image.Pt(80, 266),
		icon,
	}
	if diff := cmp.Diff(rec.positions(), want); diff != "" {
		t.Fatalf("first Update() difference (-got +want):\n%s", diff)
	}

	rec.writes = nil
	if err := f.Update(snapshot); err != nil {
		t.Fatal(err)
	}
	if len(rec.writes) != 0 {
		t.Errorf("unchanged Update() wrote %v", rec.positions())
	}

	rec.writes = nil
	s := snapshot
	s.Env.Temperature = 216
	if err := f.Update(s); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rec.positions(), []image.Point{image.Pt(150, 218)}); diff != "" {
		t.Errorf("temperature Update() difference (-got +want):\n%s", diff)
	}

	rec.writes = nil
	s.Date.Minute = 926
	if err := f.Update(s); err != nil {
		t.Fatal(err)
	}
	want = []image.Point{digitPos[3]}
	if p := dial.Position(926); p != icon {
		want = append(want, p)
	}
	if diff := cmp.Diff(rec.positions(), want); diff != "" {
		t.Errorf("minute Update() difference (-got +want):\n%s", diff)
	}
}

func TestUpdateError(t *testing.T) {
	errSPI := errors.New("spi: tx failed")
	rec := &recorder{err: errSPI}
	f := New(rec, &DefaultOpts)
	if err := f.Update(snapshot); !errors.Is(err, errSPI) {
		t.Fatalf("Update() = %v, want %v", err, errSPI)
	}

	// Everything is redrawn once the panel answers again.
	rec.err = nil
	if err := f.Update(snapshot); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.writes); n != 9 {
		t.Errorf("Update() after an error wrote %d windows, want 9", n)
	}

	rec.writes = nil
	f.Reset()
	if err := f.Update(snapshot); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.writes); n != 9 {
		t.Errorf("Update() after Reset wrote %d windows, want 9", n)
	}
}

func TestFaceOnPanel(t *testing.T) {
	m := waveshare3in52.NewMirror(nil, &waveshare3in52.EPD3in52)
	dev, err := waveshare3in52.New(m, &waveshare3in52.EPD3in52)
	if err != nil {
		t.Fatal(err)
	}
	if err := New(dev, &DefaultOpts).Update(snapshot); err != nil {
		t.Fatal(err)
	}

	img := m.Image()
	ink := func(r image.Rectangle) int {
		n := 0
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if img.BitAt(x, y) == image1bit.Off {
					n++
				}
			}
		}
		return n
	}
	if ink(image.Rect(40, 60, 168, 148)) == 0 {
		t.Error("no ink in the hour digits")
	}
	if ink(image.Rect(208, 0, 232, 360)) == 0 {
		t.Error("no ink on the date line")
	}
	if n := ink(image.Rect(236, 0, 240, 360)); n != 0 {
		t.Errorf("%d inked pixels along the top edge", n)
	}
	if got := m.Refreshes(); got != 9 {
		t.Errorf("Refreshes() = %d, want 9", got)
	}
}
