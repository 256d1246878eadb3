// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/paperclock/waveshare3in52"
)

var (
	panelCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperclock_panel_commands_total",
		Help: "commands sent to the panel, by command byte",
	}, []string{"command"})

	panelDataBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paperclock_panel_data_bytes_total",
		Help: "data bytes sent to the panel",
	})

	panelErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paperclock_panel_errors_total",
		Help: "transport errors while talking to the panel",
	})

	panelBusy = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "paperclock_panel_busy_seconds",
		Help:    "time the panel held its busy line",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	updateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "paperclock_update_seconds",
		Help:    "time taken to bring the face up to date",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	updateErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperclock_update_errors_total",
		Help: "failed steps of a face update, by step",
	}, []string{"step"})

	missedTicksCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paperclock_missed_ticks_total",
		Help: "count of minute ticks that were generated but never received by anything",
	})
)

// meteredTransport counts what goes over the wire to the panel.
type meteredTransport struct {
	waveshare3in52.Transport
	busySince time.Time
}

func (m *meteredTransport) Command(c byte) error {
	panelCommands.WithLabelValues(fmt.Sprintf("0x%02x", c)).Inc()
	return m.count(m.Transport.Command(c))
}

func (m *meteredTransport) Data(d []byte) error {
	panelDataBytes.Add(float64(len(d)))
	return m.count(m.Transport.Data(d))
}

func (m *meteredTransport) Reset(l gpio.Level) error {
	return m.count(m.Transport.Reset(l))
}

// Busy times how long the line stays low, from the first low reading to the
// first high one.
func (m *meteredTransport) Busy() gpio.Level {
	l := m.Transport.Busy()
	switch {
	case l == gpio.Low && m.busySince.IsZero():
		m.busySince = time.Now()
	case l == gpio.High && !m.busySince.IsZero():
		panelBusy.Observe(time.Since(m.busySince).Seconds())
		m.busySince = time.Time{}
	}
	return l
}

func (m *meteredTransport) count(err error) error {
	if err != nil {
		panelErrors.Inc()
	}
	return err
}
