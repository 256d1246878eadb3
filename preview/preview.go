// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"sync"

	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/paperclock/raster"
)

// Opts for preview servers.
type Opts struct {
	// Zoom enlarges the picture. Values below 1 mean 1.
	Zoom int
	// Format is used when the client does not ask for one.
	Format Format
}

// DefaultOpts doubles the panel size and sends PNG.
var DefaultOpts = Opts{Zoom: 2, Format: PNG}

// Server is a display.Drawer streaming what is drawn to HTTP clients.
type Server struct {
	zoom   int
	format Format

	mu      sync.Mutex
	panel   *image1bit.VerticalLSB
	view    *image.Gray
	clients map[*client]struct{}
	// encoded caches the current picture per format.
	encoded map[Format][]byte
}

var _ display.Drawer = (*Server)(nil)

// New returns a Server showing a white panel.
func New(opts *Opts) *Server {
	z := opts.Zoom
	if z < 1 {
		z = 1
	}
	p := image1bit.NewVerticalLSB(image.Rect(0, 0, raster.PanelWidth, raster.PanelHeight))
	draw.Draw(p, p.Bounds(), &image.Uniform{C: image1bit.On}, image.Point{}, draw.Src)
	s := &Server{
		zoom:    z,
		format:  opts.Format,
		panel:   p,
		view:    image.NewGray(image.Rect(0, 0, raster.PanelHeight*z, raster.PanelWidth*z)),
		clients: map[*client]struct{}{},
		encoded: map[Format][]byte{},
	}
	s.renderLocked()
	return s
}

func (s *Server) String() string {
	return "Preview"
}

// Halt implements conn.Resource and ends every running stream.
func (s *Server) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
	return nil
}

// ColorModel implements display.Drawer.
func (s *Server) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. It is the panel, in portrait.
func (s *Server) Bounds() image.Rectangle {
	return s.panel.Bounds()
}

// Draw implements display.Drawer.
func (s *Server) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.panel, r.Intersect(s.panel.Bounds()), src, sp, draw.Src)
	s.renderLocked()
	s.encoded = map[Format][]byte{}
	for c := range s.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
	return nil
}

// View returns a copy of the landscape picture.
func (s *Server) View() *image.Gray {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := *s.view
	v.Pix = append([]uint8(nil), s.view.Pix...)
	return &v
}

// renderLocked rotates the panel into landscape and enlarges it.
//
// View (vx, vy) is panel (PanelWidth-1-vy, vx).
func (s *Server) renderLocked() {
	small := image.NewGray(image.Rect(0, 0, raster.PanelHeight, raster.PanelWidth))
	for vy := 0; vy < raster.PanelWidth; vy++ {
		for vx := 0; vx < raster.PanelHeight; vx++ {
			if s.panel.BitAt(raster.PanelWidth-1-vy, vx) {
				small.Pix[vy*small.Stride+vx] = 0xFF
			}
		}
	}
	xdraw.NearestNeighbor.Scale(s.view, s.view.Bounds(), small, small.Bounds(), xdraw.Src, nil)
}

// snapshot returns the encoded picture.
func (s *Server) snapshot(f Format) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.encoded[f]; ok {
		return b, nil
	}
	var buf bytes.Buffer
	if err := f.encode(&buf, s.view); err != nil {
		return nil, err
	}
	s.encoded[f] = buf.Bytes()
	return buf.Bytes(), nil
}
