// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package esp01

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"
)

var (
	// ErrTimeout is returned when the expected reply did not arrive in time.
	ErrTimeout = errors.New("esp01: timeout")
	// ErrCommand is returned when the module replied with ERROR or FAIL.
	ErrCommand = errors.New("esp01: command failed")
	// ErrNoDate is returned when the HTTP response carries no usable Date
	// header.
	ErrNoDate = errors.New("esp01: no date in response")
)

// Port is the serial link to the module. go.bug.st/serial.Port implements
// it.
type Port interface {
	io.ReadWriter
	ResetInputBuffer() error
}

// Opts is the module configuration.
type Opts struct {
	// Timeout bounds every command except joining a network.
	Timeout time.Duration
	// JoinTimeout bounds AT+CWJAP.
	JoinTimeout time.Duration
	// Server is the IPv4 address of the HTTP server queried by Date.
	Server string
}

// DefaultOpts queries a Google front end, which answers any request with a
// Date header.
var DefaultOpts = Opts{
	Timeout:     2 * time.Second,
	JoinTimeout: 15 * time.Second,
	Server:      "216.239.35.0",
}

// readTimeout bounds a single read on a real serial port so command
// deadlines are honoured.
const readTimeout = 10 * time.Millisecond

// Open opens the serial port name at baud and returns a Dev using it.
func Open(name string, baud int, opts *Opts) (*Dev, error) {
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("esp01: open %s: %w", name, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("esp01: %w", err)
	}
	return New(p, opts), nil
}

// New returns a Dev talking over p.
func New(p Port, opts *Opts) *Dev {
	return &Dev{p: p, opts: *opts}
}

// Dev is an ESP-01 module.
type Dev struct {
	p    Port
	opts Opts
}

func (d *Dev) String() string {
	return fmt.Sprintf("esp01.Dev{%v}", d.p)
}

// Command discards pending input, sends cmd followed by CRLF and reads the
// reply until it contains expect.
//
// It returns everything read so far, including on error.
func (d *Dev) Command(cmd, expect string, timeout time.Duration) (string, error) {
	if err := d.p.ResetInputBuffer(); err != nil {
		return "", fmt.Errorf("esp01: flush: %w", err)
	}
	if _, err := io.WriteString(d.p, cmd+"\r\n"); err != nil {
		return "", fmt.Errorf("esp01: %s: %w", name(cmd), err)
	}
	var buf bytes.Buffer
	if err := d.readUntil(&buf, expect, timeout); err != nil {
		return buf.String(), fmt.Errorf("esp01: %s: %w", name(cmd), err)
	}
	return buf.String(), nil
}

// Join puts the module in station mode with DHCP and connects it to the
// network ssid.
func (d *Dev) Join(ssid, pass string) error {
	for _, c := range []struct {
		cmd     string
		timeout time.Duration
	}{
		{"AT", d.opts.Timeout},
		{"AT+CWMODE=1", d.opts.Timeout},
		{"AT+CWDHCP=1,1", d.opts.Timeout},
		{"AT+CWJAP=" + strconv.Quote(ssid) + "," + strconv.Quote(pass), d.opts.JoinTimeout},
		{"AT+CIFSR", d.opts.Timeout},
	} {
		if _, err := d.Command(c.cmd, "OK", c.timeout); err != nil {
			return err
		}
	}
	return nil
}

// Date asks the HTTP server for its current time and returns it in UTC.
//
// The resolution is one second.
func (d *Dev) Date() (time.Time, error) {
	req := "GET / HTTP/1.1\r\nHost: " + d.opts.Server + "\r\n"
	if _, err := d.Command("AT+CIPSTART=\"TCP\",\""+d.opts.Server+"\",80", "OK", d.opts.Timeout); err != nil {
		return time.Time{}, err
	}
	t, err := d.get(req)
	// The link is closed on every path so the next CIPSTART can connect.
	_, cerr := d.Command("AT+CIPCLOSE", "OK", d.opts.Timeout)
	if err != nil {
		return time.Time{}, err
	}
	if cerr != nil {
		return time.Time{}, cerr
	}
	return t, nil
}

func (d *Dev) get(req string) (time.Time, error) {
	// The request is terminated by the CRLF Command appends.
	if _, err := d.Command("AT+CIPSEND="+strconv.Itoa(len(req)+2), ">", d.opts.Timeout); err != nil {
		return time.Time{}, err
	}
	resp, err := d.Command(req, "+IPD", d.opts.Timeout)
	if err != nil {
		return time.Time{}, err
	}
	buf := bytes.NewBufferString(resp)
	if err := d.readUntil(buf, "GMT\r\n", d.opts.Timeout); err != nil {
		return time.Time{}, fmt.Errorf("esp01: http: %w", err)
	}
	return ParseDate(buf.Bytes())
}

// Close closes the serial port when it can be closed.
func (d *Dev) Close() error {
	if c, ok := d.p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ParseDate extracts the Date header of a raw HTTP response.
func ParseDate(resp []byte) (time.Time, error) {
	i := bytes.Index(resp, []byte("Date: "))
	if i < 0 {
		return time.Time{}, ErrNoDate
	}
	v := resp[i+len("Date: "):]
	end := bytes.IndexAny(v, "\r\n")
	if end < 0 {
		return time.Time{}, ErrNoDate
	}
	t, err := http.ParseTime(string(v[:end]))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoDate, err)
	}
	return t.UTC(), nil
}

func (d *Dev) readUntil(buf *bytes.Buffer, expect string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var chunk [64]byte
	for {
		if bytes.Contains(buf.Bytes(), []byte(expect)) {
			return nil
		}
		if bytes.Contains(buf.Bytes(), []byte("ERROR\r\n")) || bytes.Contains(buf.Bytes(), []byte("FAIL\r\n")) {
			return ErrCommand
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w waiting for %q", ErrTimeout, expect)
		}
		n, err := d.p.Read(chunk[:])
		buf.Write(chunk[:n])
		if err != nil {
			return err
		}
		if n == 0 {
			time.Sleep(time.Millisecond)
		}
	}
}

// name shortens a command for error messages and keeps passwords out of
// them.
func name(cmd string) string {
	if i := strings.IndexAny(cmd, "=\r"); i >= 0 {
		return cmd[:i]
	}
	return cmd
}
