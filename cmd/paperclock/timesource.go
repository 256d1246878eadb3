// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/facebookincubator/ntp/protocol/chrony"
	"golang.org/x/net/trace"
)

// timeSource returns the current time.
type timeSource interface {
	Now() (time.Time, error)
}

// systemClock trusts the host clock, optionally checking that chronyd has
// it synchronized.
type systemClock struct {
	// chrony is the address of the chronyd command port, empty to skip the
	// check.
	chrony string
	l      trace.EventLog
}

func (s *systemClock) Now() (time.Time, error) {
	if s.chrony != "" {
		t, err := chronyTracking(s.chrony)
		if err != nil {
			// The clock still runs; an unsynchronized time beats no time.
			s.l.Errorf("chrony: %v", err)
			updateErrors.WithLabelValues("chrony").Inc()
		} else {
			s.l.Printf("tracking: stratum %d, offset %v s, correction %v s", t.Stratum, t.LastOffset, t.CurrentCorrection)
		}
	}
	return time.Now(), nil
}

// chronyTracking asks chronyd for its tracking report.
func chronyTracking(addr string) (*chrony.ReplyTracking, error) {
	conn, err := net.DialTimeout("udp", addr, time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}
	c := chrony.Client{Sequence: 1, Connection: conn}
	res, err := c.Communicate(chrony.NewTrackingPacket())
	if err != nil {
		return nil, fmt.Errorf("get tracking info: communicate: %w", err)
	}
	tracking, ok := res.(*chrony.ReplyTracking)
	if !ok {
		return nil, fmt.Errorf("tracking reply was of unexpected type: %#v", res)
	}
	return tracking, nil
}

// dater is implemented by esp01.Dev.
type dater interface {
	Date() (time.Time, error)
}

// networkClock reads the time from the network through the ESP-01 and
// extrapolates it with the monotonic clock between synchronizations.
type networkClock struct {
	d      dater
	maxAge time.Duration
	l      trace.EventLog

	synced time.Time
	at     time.Time
}

var errNeverSynced = errors.New("time was never synchronized")

func (n *networkClock) Now() (time.Time, error) {
	if n.at.IsZero() || time.Since(n.at) >= n.maxAge {
		t, err := n.d.Date()
		switch {
		case err == nil:
			n.synced, n.at = t, time.Now()
			n.l.Printf("synchronized to %v", t)
		case n.at.IsZero():
			return time.Time{}, fmt.Errorf("%w: %v", errNeverSynced, err)
		default:
			// Keep extrapolating and retry on the next call.
			n.l.Errorf("sync: %v", err)
			updateErrors.WithLabelValues("sync").Inc()
		}
	}
	return n.synced.Add(time.Since(n.at)), nil
}
