package models

import "math"

// PageBounds is a PDF page's media box size in points
type PageBounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both sides are positive and finite
func (b PageBounds) Valid() bool {
	return b.Width > 0 && b.Height > 0 &&
		!math.IsInf(b.Width, 0) && !math.IsInf(b.Height, 0)
}

// MaxSide returns the longer side in points
func (b PageBounds) MaxSide() float64 {
	return math.Max(b.Width, b.Height)
}

// RenderedPage is one rasterized PDF page ready to be placed on a slide
type RenderedPage struct {
	Index       int        `json:"index"` // 0-based source page index
	Image       []byte     `json:"-"`     // PNG-encoded raster
	Bounds      PageBounds `json:"bounds"`
	PixelWidth  int        `json:"pixel_width"`
	PixelHeight int        `json:"pixel_height"`
}

// SlideGeometry is the picture transform on a slide, in EMU
type SlideGeometry struct {
	OffX  int64 `json:"off_x"`
	OffY  int64 `json:"off_y"`
	ExtCx int64 `json:"ext_cx"`
	ExtCy int64 `json:"ext_cy"`
}
