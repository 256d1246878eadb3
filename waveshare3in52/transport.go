// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare3in52

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// Transport moves command and data bytes to the panel controller.
//
// Busy reports gpio.Low while the controller is working.
type Transport interface {
	Command(c byte) error
	Data(d []byte) error
	Reset(l gpio.Level) error
	Busy() gpio.Level
	Sleep(d time.Duration)
}

// SPI is the Transport of a panel wired to a SPI port and four GPIOs.
//
// Every byte is sent in its own chip select frame.
type SPI struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn
}

// NewSPI connects to the panel controller.
func NewSPI(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn) (*SPI, error) {
	c, err := p.Connect(5*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("waveshare3in52: connect: %w", err)
	}
	if err := busy.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("waveshare3in52: busy pin: %w", err)
	}
	return &SPI{
		c:    c,
		dc:   dc,
		cs:   cs,
		rst:  rst,
		busy: busy,
	}, nil
}

// NewHatSPI connects using the pins of the Waveshare e-Paper HAT.
func NewHatSPI(p spi.Port) (*SPI, error) {
	return NewSPI(p, rpi.P1_22, rpi.P1_24, rpi.P1_11, rpi.P1_18)
}

// Command implements Transport.
func (s *SPI) Command(c byte) error {
	eh := errorHandler{s: s}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{c}, nil)
	eh.csOut(gpio.High)

	return eh.err
}

// Data implements Transport.
func (s *SPI) Data(d []byte) error {
	eh := errorHandler{s: s}

	eh.dcOut(gpio.High)
	for i := range d {
		eh.csOut(gpio.Low)
		eh.cTx(d[i:i+1], nil)
		eh.csOut(gpio.High)
	}

	return eh.err
}

// Reset implements Transport.
func (s *SPI) Reset(l gpio.Level) error {
	return s.rst.Out(l)
}

// Busy implements Transport.
func (s *SPI) Busy() gpio.Level {
	return s.busy.Read()
}

// Sleep implements Transport.
func (s *SPI) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (s *SPI) String() string {
	return fmt.Sprintf("%s, %s", s.c, s.dc)
}

var _ Transport = &SPI{}
