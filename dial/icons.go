// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dial

import (
	"math"

	"github.com/fogleman/gg"

	"github.com/GermanBionicSystems/paperclock/raster"
)

const (
	iconSize = 16
	scale    = 2

	// Size is the side of an icon on the panel, in pixels.
	Size = iconSize * scale
)

var (
	sunIcon *raster.Raster
	// moonSheet stacks the NewMoon to FullMoon icons, iconSize rows each.
	moonSheet *raster.Raster
)

func init() {
	sunIcon = render(drawSun)
	n := int(FullMoon-NewMoon) + 1
	moonSheet = raster.New(iconSize, iconSize*n)
	stride := iconSize * moonSheet.Stride()
	for k := 0; k < n; k++ {
		k := k
		m := render(func(dc *gg.Context) { drawMoon(dc, k) })
		copy(moonSheet.Pix[k*stride:], m.Pix)
	}
}

func icon(i Icon) *raster.Raster {
	if i == Sun {
		return sunIcon
	}
	if i > FullMoon {
		i = FullMoon
	}
	return moonSheet.Rows(int(i-NewMoon)*iconSize, iconSize)
}

// render paints an upright icon and returns it in panel orientation, where
// the top of the picture faces the panel's last column.
func render(paint func(dc *gg.Context)) *raster.Raster {
	dc := gg.NewContext(iconSize, iconSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Translate(iconSize, 0)
	dc.Rotate(gg.Radians(90))
	dc.SetRGB(0, 0, 0)
	paint(dc)
	return raster.FromImage(dc.Image())
}

func drawSun(dc *gg.Context) {
	const c = iconSize / 2
	dc.DrawCircle(c, c, 3.5)
	dc.Fill()
	dc.SetLineWidth(1.5)
	for i := 0; i < 8; i++ {
		s, co := math.Sincos(gg.Radians(float64(i) * 45))
		dc.DrawLine(c+5.5*co, c+5.5*s, c+7.5*co, c+7.5*s)
	}
	dc.Stroke()
}

// drawMoon paints the moon k eighths of a cycle after new moon, k in [0, 4].
// The shadow is inked and the lit side faces right.
func drawMoon(dc *gg.Context, k int) {
	const (
		c = iconSize / 2
		r = 6.5
	)
	dc.DrawCircle(c, c, r)
	dc.Clip()
	dc.DrawRectangle(0, 0, iconSize, iconSize)
	dc.Fill()
	if k > 0 {
		dc.SetRGB(1, 1, 1)
		dc.DrawRectangle(c, 0, c, iconSize)
		dc.Fill()
		// The terminator is a half ellipse: it eats into the lit half before
		// first quarter and into the shadow after it.
		if a := r * math.Abs(math.Cos(float64(k)*math.Pi/4)); a >= 0.5 {
			if k < 2 {
				dc.SetRGB(0, 0, 0)
			}
			dc.DrawEllipse(c, c, a, r)
			dc.Fill()
		}
	}
	dc.ResetClip()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawCircle(c, c, r)
	dc.Stroke()
}
