// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare3in52

import (
	"bytes"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/paperclock/raster"
)

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	waitUntilIdle()
	delay(time.Duration)
}

func powerUp(ctrl controller) {
	ctrl.sendCommand(powerOn)
	ctrl.delay(100 * time.Millisecond)
	ctrl.waitUntilIdle()
}

// initDisplay programs the controller for full refreshes with the waveform
// stored in the panel.
func initDisplay(ctrl controller, opts *Opts) {
	ctrl.sendCommand(resolutionSetting)
	ctrl.sendData(resolution(opts))

	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData([]byte{0x17, 0x17, 0x17})

	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{panelOTPWaveform, panelSettingSource})

	powerUp(ctrl)
}

// initPartial programs the controller for partial refreshes with the
// waveform from opts.
func initPartial(ctrl controller, opts *Opts) {
	powerUp(ctrl)

	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{panelRegisterWaveform, panelSettingSource})

	ctrl.sendCommand(resolutionSetting)
	ctrl.sendData(resolution(opts))

	ctrl.sendCommand(vcomDataInterval)
	ctrl.sendData([]byte{0xF7})

	ctrl.sendCommand(powerSaving)
	ctrl.sendData([]byte{0x88})

	writeLUT(ctrl, &opts.LUT)
}

func writeLUT(ctrl controller, w *Waveform) {
	for _, t := range []struct {
		cmd byte
		lut LUT
	}{
		{lutVCOM, w.VCOM},
		{lutWW, w.WW},
		{lutBW, w.BW},
		{lutWB, w.WB},
		{lutBB, w.BB},
	} {
		ctrl.sendCommand(t.cmd)
		ctrl.sendData(t.lut[:lutLength])
	}
}

func refresh(ctrl controller) {
	ctrl.sendCommand(autoSequence)
	ctrl.sendData([]byte{autoRefresh})
	ctrl.waitUntilIdle()
}

// clearFrame writes v to both frame buffers and refreshes.
func clearFrame(ctrl controller, opts *Opts, v byte) {
	frame := bytes.Repeat([]byte{v}, frameSize(opts))

	ctrl.sendCommand(dataStartTransmission1)
	ctrl.sendData(frame)

	ctrl.sendCommand(dataStartTransmission2)
	ctrl.sendData(frame)

	refresh(ctrl)
}

// fillFrame writes v to the new frame buffer only and refreshes.
func fillFrame(ctrl controller, opts *Opts, v byte) {
	ctrl.sendCommand(dataStartTransmission2)
	ctrl.sendData(bytes.Repeat([]byte{v}, frameSize(opts)))

	refresh(ctrl)
}

// partialFrame sends the rows of pix to the address window a and refreshes
// only that window.
func partialFrame(ctrl controller, a raster.AddressWindow, pix []byte) {
	ctrl.sendCommand(partialIn)

	ctrl.sendCommand(partialWindow)
	ctrl.sendData([]byte{
		byte(a.ColStart),
		byte(a.ColEnd),
		byte(a.RowStart >> 8),
		byte(a.RowStart),
		byte(a.RowEnd >> 8),
		byte(a.RowEnd),
		0x01,
	})

	ctrl.sendCommand(dataStartTransmission2)
	ctrl.sendData(pix)

	refresh(ctrl)

	ctrl.sendCommand(partialOut)
}

func resolution(opts *Opts) []byte {
	return []byte{byte(opts.Width), byte(opts.Height >> 8), byte(opts.Height)}
}

func frameSize(opts *Opts) int {
	return (opts.Width + 7) / 8 * opts.Height
}

// sequencer is the controller backed by a Transport.
//
// The first error is kept, tagged with the phase it happened in, and every
// later call is a no-op.
type sequencer struct {
	t     Transport
	opts  *Opts
	phase Phase
	err   error
}

func (sq *sequencer) fail(err error) {
	sq.err = fmt.Errorf("waveshare3in52: %s: %w", sq.phase, err)
}

func (sq *sequencer) sendCommand(cmd byte) {
	if sq.err != nil {
		return
	}
	sq.phase = CommandSent
	if err := sq.t.Command(cmd); err != nil {
		sq.fail(err)
	}
}

func (sq *sequencer) sendData(data []byte) {
	if sq.err != nil || len(data) == 0 {
		return
	}
	sq.phase = DataStreaming
	if err := sq.t.Data(data); err != nil {
		sq.fail(err)
	}
}

func (sq *sequencer) delay(d time.Duration) {
	if sq.err != nil {
		return
	}
	sq.t.Sleep(d)
}

// waitUntilIdle polls the busy line until the controller releases it, then
// lets it settle. BusyTimeout bounds the polling time when it is set.
func (sq *sequencer) waitUntilIdle() {
	if sq.err != nil {
		return
	}
	sq.phase = Refreshing
	poll := sq.opts.BusyPoll
	if poll <= 0 {
		poll = time.Millisecond
	}
	var waited time.Duration
	for sq.t.Busy() == gpio.Low {
		if sq.opts.BusyTimeout > 0 && waited >= sq.opts.BusyTimeout {
			sq.fail(ErrBusyTimeout)
			return
		}
		sq.t.Sleep(poll)
		waited += poll
	}
	sq.t.Sleep(sq.opts.BusySettle)
	sq.phase = Idle
}

// reset pulses the reset line.
func (sq *sequencer) reset() {
	for _, step := range []struct {
		l gpio.Level
		d time.Duration
	}{
		{gpio.High, 200 * time.Millisecond},
		{gpio.Low, 2 * time.Millisecond},
		{gpio.High, 200 * time.Millisecond},
	} {
		if sq.err != nil {
			return
		}
		if err := sq.t.Reset(step.l); err != nil {
			sq.fail(err)
			return
		}
		sq.t.Sleep(step.d)
	}
}
