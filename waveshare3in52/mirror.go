// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare3in52

import (
	"fmt"
	"image"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/paperclock/raster"
)

// Mirror is a Transport that decodes the command stream into an image of
// what the panel shows.
//
// Every call is forwarded to next when it is not nil, so a Mirror can sit in
// front of real hardware. Without next, the busy line always reads idle and
// Sleep returns immediately.
type Mirror struct {
	next Transport

	mu        sync.Mutex
	width     int
	height    int
	frame     []byte
	shown     *image1bit.VerticalLSB
	cmd       byte
	n         int
	args      []byte
	register  bool
	partial   bool
	win       raster.AddressWindow
	refreshes int
	listeners []func(image.Image)
}

// NewMirror returns a Mirror of a panel of the size in opts. The panel
// starts white.
func NewMirror(next Transport, opts *Opts) *Mirror {
	m := &Mirror{
		next:   next,
		width:  opts.Width,
		height: opts.Height,
		frame:  make([]byte, frameSize(opts)),
		shown:  image1bit.NewVerticalLSB(image.Rect(0, 0, opts.Width, opts.Height)),
	}
	for i := range m.shown.Pix {
		m.shown.Pix[i] = 0xFF
	}
	return m
}

// OnRefresh registers f to be called with a copy of the panel image after
// every refresh.
func (m *Mirror) OnRefresh(f func(img image.Image)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, f)
}

// Image returns a copy of what the panel shows. On is white.
func (m *Mirror) Image() *image1bit.VerticalLSB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Refreshes returns the number of refreshes decoded so far.
func (m *Mirror) Refreshes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}

// Command implements Transport.
func (m *Mirror) Command(c byte) error {
	var err error
	if m.next != nil {
		err = m.next.Command(c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmd = c
	m.n = 0
	m.args = m.args[:0]
	switch c {
	case partialIn:
		m.partial = true
	case partialOut:
		m.partial = false
	}
	return err
}

// Data implements Transport.
func (m *Mirror) Data(d []byte) error {
	var err error
	if m.next != nil {
		err = m.next.Data(d)
	}
	m.mu.Lock()
	var shown []image.Image
	for _, b := range d {
		switch m.cmd {
		case panelSetting:
			if m.n == 0 {
				m.register = b&panelRegisterFlag != 0
			}
		case partialWindow:
			m.args = append(m.args, b)
			if len(m.args) == 7 {
				m.win = raster.AddressWindow{
					ColStart: int(m.args[0]),
					ColEnd:   int(m.args[1]),
					RowStart: int(m.args[2])<<8 | int(m.args[3]),
					RowEnd:   int(m.args[4])<<8 | int(m.args[5]),
				}
			}
		case dataStartTransmission2:
			m.store(b)
		case autoSequence:
			if b == autoRefresh {
				m.show()
				m.refreshes++
				if len(m.listeners) != 0 {
					shown = append(shown, m.snapshot())
				}
			}
		}
		m.n++
	}
	listeners := m.listeners
	m.mu.Unlock()
	for _, img := range shown {
		for _, f := range listeners {
			f(img)
		}
	}
	return err
}

// Reset implements Transport. A reset leaves the displayed image alone.
func (m *Mirror) Reset(l gpio.Level) error {
	var err error
	if m.next != nil {
		err = m.next.Reset(l)
	}
	if l == gpio.Low {
		m.mu.Lock()
		m.partial = false
		m.register = false
		m.mu.Unlock()
	}
	return err
}

// Busy implements Transport.
func (m *Mirror) Busy() gpio.Level {
	if m.next != nil {
		return m.next.Busy()
	}
	return gpio.High
}

// Sleep implements Transport.
func (m *Mirror) Sleep(d time.Duration) {
	if m.next != nil {
		m.next.Sleep(d)
	}
}

func (m *Mirror) String() string {
	if m.next != nil {
		return fmt.Sprintf("Mirror(%v)", m.next)
	}
	return "Mirror"
}

func (m *Mirror) stride() int {
	return (m.width + 7) / 8
}

func (m *Mirror) store(b byte) {
	stride := m.stride()
	if !m.partial {
		if m.n < len(m.frame) {
			m.frame[m.n] = b
		}
		return
	}
	ws := m.win.Stride()
	if ws <= 0 {
		return
	}
	row := m.win.RowStart + m.n/ws
	col := m.win.ColStart/8 + m.n%ws
	if row > m.win.RowEnd || row >= m.height || col >= stride {
		return
	}
	m.frame[row*stride+col] = b
}

// show copies the frame buffer to the displayed image. A partial refresh
// only touches its window. With the panel's own waveform a cleared bit is
// white, with the register waveform a set bit is.
func (m *Mirror) show() {
	r := image.Rect(0, 0, m.width, m.height)
	if m.partial {
		r = image.Rect(m.win.ColStart, m.win.RowStart, m.win.ColEnd+1, m.win.RowEnd+1).Intersect(r)
	}
	stride := m.stride()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			set := m.frame[y*stride+x/8]&(0x80>>uint(x%8)) != 0
			m.shown.SetBit(x, y, image1bit.Bit(set == m.register))
		}
	}
}

func (m *Mirror) snapshot() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(m.shown.Rect)
	copy(img.Pix, m.shown.Pix)
	return img
}

var _ Transport = &Mirror{}
