// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare3in52

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/paperclock/raster"
)

// Commands
const (
	panelSetting           byte = 0x00
	powerOn                byte = 0x04
	boosterSoftStart       byte = 0x06
	dataStartTransmission1 byte = 0x10
	dataStartTransmission2 byte = 0x13
	autoSequence           byte = 0x17
	lutVCOM                byte = 0x20
	lutWW                  byte = 0x21
	lutBW                  byte = 0x22
	lutWB                  byte = 0x23
	lutBB                  byte = 0x24
	vcomDataInterval       byte = 0x50
	resolutionSetting      byte = 0x61
	partialWindow          byte = 0x90
	partialIn              byte = 0x91
	partialOut             byte = 0x92
	powerSaving            byte = 0xE3
)

// Command arguments
const (
	// autoRefresh runs power on, refresh and power off in one go.
	autoRefresh byte = 0xA5

	panelOTPWaveform      byte = 0x0F
	panelRegisterWaveform byte = 0x3F
	panelSettingSource    byte = 0x0D

	// panelRegisterFlag is set in the first panel setting byte when the
	// waveform comes from the LUT registers.
	panelRegisterFlag byte = 0x20
)

// lutLength is the size of each waveform table.
const lutLength = 42

// ErrBusyTimeout is returned when the busy line is not released within
// Opts.BusyTimeout.
var ErrBusyTimeout = errors.New("waveshare3in52: busy timeout")

// LUT contains one waveform table used to program the display.
type LUT []byte

// Waveform holds the five tables of a partial refresh, one per pixel
// transition plus the common voltage.
type Waveform struct {
	VCOM LUT
	WW   LUT
	BW   LUT
	WB   LUT
	BB   LUT
}

// Opts definies the structure of the display configuration.
type Opts struct {
	Width  int
	Height int
	LUT    Waveform

	// BusyPoll is the interval between two reads of the busy line.
	BusyPoll time.Duration
	// BusySettle is waited after the busy line is released.
	BusySettle time.Duration
	// BusyTimeout bounds the wait for the busy line. Zero waits forever.
	BusyTimeout time.Duration
}

func lut(head ...byte) LUT {
	l := make(LUT, lutLength)
	copy(l, head)
	return l
}

// EPD3in52 contains display configuration for the Waveshare 3.52inch
// e-Paper HAT.
//
// The waveform is the partial update table Waveshare publishes for its
// UC8151 class panels (EPD_4IN2_Partial_lut_* in the e-Paper demo code),
// each 6 byte group padded with zeros to 42 bytes. Panels tuned with other
// tables can replace Opts.LUT.
var EPD3in52 = Opts{
	Width:  raster.PanelWidth,
	Height: raster.PanelHeight,
	LUT: Waveform{
		VCOM: lut(0x00, 0x19, 0x01, 0x00, 0x00, 0x01),
		WW:   lut(0x00, 0x19, 0x01, 0x00, 0x00, 0x01),
		BW:   lut(0x80, 0x19, 0x01, 0x00, 0x00, 0x01),
		WB:   lut(0x40, 0x19, 0x01, 0x00, 0x00, 0x01),
		BB:   lut(0x00, 0x19, 0x01, 0x00, 0x00, 0x01),
	},
	BusyPoll:    20 * time.Millisecond,
	BusySettle:  200 * time.Millisecond,
	BusyTimeout: 10 * time.Second,
}

// Phase is the step of a refresh sequence the controller is in.
type Phase uint8

// Phases of a refresh.
const (
	Idle Phase = iota
	CommandSent
	DataStreaming
	Refreshing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case CommandSent:
		return "command sent"
	case DataStreaming:
		return "data streaming"
	case Refreshing:
		return "refreshing"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

type mode uint8

const (
	modeNone mode = iota
	modeFull
	modePartial
)

// Dev defines the handler which is used to access the display.
//
// All methods are safe for concurrent use; operations are serialized.
type Dev struct {
	mu   sync.Mutex
	t    Transport
	opts *Opts
	mode mode
}

// New returns a handler sending its bytes through t.
func New(t Transport, opts *Opts) (*Dev, error) {
	for name, l := range map[string]LUT{
		"VCOM": opts.LUT.VCOM,
		"WW":   opts.LUT.WW,
		"BW":   opts.LUT.BW,
		"WB":   opts.LUT.WB,
		"BB":   opts.LUT.BB,
	} {
		if len(l) < lutLength {
			return nil, fmt.Errorf("waveshare3in52: LUT %s has %d bytes, need %d", name, len(l), lutLength)
		}
	}
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width > raster.PanelWidth || opts.Height > raster.PanelHeight {
		return nil, fmt.Errorf("waveshare3in52: invalid size %dx%d", opts.Width, opts.Height)
	}
	return &Dev{t: t, opts: opts}, nil
}

// NewHat creates new handler which is used to access the display. Default
// Waveshare Hat configuration is used.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	t, err := NewHatSPI(p)
	if err != nil {
		return nil, err
	}
	return New(t, opts)
}

func (d *Dev) seq() *sequencer {
	return &sequencer{t: d.t, opts: d.opts}
}

// Init resets the panel and prepares it for full refreshes.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initLocked()
}

func (d *Dev) initLocked() error {
	sq := d.seq()
	sq.reset()
	initDisplay(sq, d.opts)
	if sq.err != nil {
		d.mode = modeNone
		return sq.err
	}
	d.mode = modeFull
	return nil
}

// InitPartial resets the panel and prepares it for partial refreshes.
func (d *Dev) InitPartial() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initPartialLocked()
}

func (d *Dev) initPartialLocked() error {
	sq := d.seq()
	sq.reset()
	initPartial(sq, d.opts)
	if sq.err != nil {
		d.mode = modeNone
		return sq.err
	}
	d.mode = modePartial
	return nil
}

// Clear writes zeros to both frame buffers and refreshes the whole panel.
// With the panel's own waveform this leaves it white.
func (d *Dev) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	sq := d.seq()
	clearFrame(sq, d.opts, 0x00)
	return sq.err
}

// Fill writes v to every byte of the new frame buffer and refreshes the
// whole panel.
func (d *Dev) Fill(v byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	sq := d.seq()
	fillFrame(sq, d.opts, v)
	return sq.err
}

// Refresh redraws the panel from the frame buffers.
func (d *Dev) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	sq := d.seq()
	refresh(sq)
	return sq.err
}

// FullRefresh reinitializes the panel for full refreshes and clears it,
// removing the ghosting left by partial refreshes.
func (d *Dev) FullRefresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.initLocked(); err != nil {
		return err
	}
	sq := d.seq()
	clearFrame(sq, d.opts, 0x00)
	return sq.err
}

// PartialDisplay sends img to the window at pos and refreshes only that
// window. The panel is switched to partial mode first if needed.
//
// raster.ErrOutOfBounds is returned, before anything is sent, when the
// window does not fit on the panel.
func (d *Dev) PartialDisplay(pos image.Point, img *raster.Raster) error {
	w := raster.WindowAt(pos, img)
	if err := w.Validate(); err != nil {
		return err
	}
	if w.X+w.Width > d.opts.Width || w.Y+w.Height > d.opts.Height {
		return fmt.Errorf("%w: %v", raster.ErrOutOfBounds, w)
	}
	pix := raster.Shift(img, w.Shift()).Pix

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode != modePartial {
		if err := d.initPartialLocked(); err != nil {
			return err
		}
	}
	sq := d.seq()
	partialFrame(sq, w.Address(), pix)
	return sq.err
}

// ColorModel returns a 1Bit color model.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the bounds for the configurated display.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.opts.Width, d.opts.Height)
}

// Draw draws the given image to the display with a partial refresh of
// dstRect.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	r := dstRect.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	img := raster.New(r.Dx(), r.Dy())
	draw.Src.Draw(img, img.Bounds(), src, srcPts.Add(r.Min.Sub(dstRect.Min)))
	return d.PartialDisplay(r.Min, img)
}

// Halt clears the display.
func (d *Dev) Halt() error {
	return d.FullRefresh()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%v, Width: %d, Height: %d}", d.t, d.opts.Width, d.opts.Height)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
