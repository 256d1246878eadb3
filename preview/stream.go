// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
)

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

// ServeHTTP handles GET requests.
//
// "?format=png" and "?format=jpeg" select the encoding. "?single" sends the
// current picture as a plain response instead of a stream.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		log.Printf("preview: closing request body failed: %v", err)
	}
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	f := s.format
	if v := q.Get("format"); v != "" {
		var err error
		if f, err = ParseFormat(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if _, ok := q["single"]; ok {
		b, err := s.snapshot(f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", f.mimeType())
		w.Header().Set("Content-Length", strconv.Itoa(len(b)))
		_, _ = w.Write(b)
		return
	}

	fw := newFrameWriter(w)
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{"boundary": fw.boundary}))

	c := &client{refresh: make(chan struct{}, 1), terminate: make(chan struct{}, 1)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
	}()

	for {
		b, err := s.snapshot(f)
		if err == nil {
			err = fw.writeFrame(f.mimeType(), b)
		}
		if err != nil {
			// There is no way to report an error inside an image stream.
			return
		}
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// frameWriter writes an endless multipart/x-mixed-replace body. Every part
// is followed by the boundary so clients show it without waiting for the
// next one, which mime/multipart.Writer does not do.
type frameWriter struct {
	w        io.Writer
	boundary string
	started  bool
}

func newFrameWriter(w io.Writer) *frameWriter {
	var b [32]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		panic(err)
	}
	return &frameWriter{w: w, boundary: fmt.Sprintf("%x", b[:])}
}

func (f *frameWriter) writeFrame(contentType string, body []byte) error {
	if !f.started {
		if _, err := fmt.Fprintf(f.w, "--%s\r\n", f.boundary); err != nil {
			return err
		}
		f.started = true
	}
	if _, err := fmt.Fprintf(f.w, "Content-Type: %s\r\nContent-Length: %d\r\n\r\n", contentType, len(body)); err != nil {
		return err
	}
	if _, err := f.w.Write(body); err != nil {
		return err
	}
	_, err := fmt.Fprintf(f.w, "\r\n--%s\r\n", f.boundary)
	return err
}
