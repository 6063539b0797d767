// -----------------------------------------------------------------------
// Page Rasterizer - Render every PDF page to a bounded-size PNG
// -----------------------------------------------------------------------

package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/interfaces"
	"github.com/ternarybob/pdfdeck/internal/models"
	xdraw "golang.org/x/image/draw"
)

const (
	// DefaultUpscaleFactor allows up to 2x supersampling for small pages
	DefaultUpscaleFactor = 2.0
	// DefaultMaxPixelDimension caps the longest side of a rendered page
	DefaultMaxPixelDimension = 2880
)

// Rasterizer renders pages onto opaque white canvases and encodes them as PNG
type Rasterizer struct {
	logger            arbor.ILogger
	upscaleFactor     float64
	maxPixelDimension int
}

// Compile-time interface assertion
var _ interfaces.PageRasterizer = (*Rasterizer)(nil)

// NewRasterizer creates a rasterizer. Non-positive settings fall back to the defaults.
func NewRasterizer(config common.RenderConfig, logger arbor.ILogger) *Rasterizer {
	r := &Rasterizer{
		logger:            logger,
		upscaleFactor:     config.UpscaleFactor,
		maxPixelDimension: config.MaxPixelDimension,
	}
	if r.upscaleFactor <= 0 {
		r.upscaleFactor = DefaultUpscaleFactor
	}
	if r.maxPixelDimension <= 0 {
		r.maxPixelDimension = DefaultMaxPixelDimension
	}
	return r
}

// RenderScale returns min(upscaleFactor, maxPixelDimension / longest side)
func (r *Rasterizer) RenderScale(bounds models.PageBounds) float64 {
	return math.Min(r.upscaleFactor, float64(r.maxPixelDimension)/bounds.MaxSide())
}

// Rasterize renders every page of doc in order. Pages that fail are skipped;
// the call fails only when the document is empty or nothing rendered.
func (r *Rasterizer) Rasterize(doc interfaces.PDFDocument) ([]models.RenderedPage, error) {
	pageCount := doc.PageCount()
	if pageCount == 0 {
		return nil, common.NewError(common.KindInput, "rasterize", common.ErrEmptyDocument)
	}

	pages := make([]models.RenderedPage, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		page, err := r.renderPage(doc, i)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Int("page", i+1).
				Int("page_count", pageCount).
				Msg("Skipping page that failed to render")
			continue
		}
		pages = append(pages, page)
	}

	if len(pages) == 0 {
		return nil, common.NewError(common.KindRender, "rasterize", common.ErrNoRenderablePages)
	}

	r.logger.Debug().
		Int("page_count", pageCount).
		Int("rendered", len(pages)).
		Msg("Rasterized PDF pages")

	return pages, nil
}

func (r *Rasterizer) renderPage(doc interfaces.PDFDocument, index int) (page models.RenderedPage, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Debug().Str("stack", common.GetStackTrace()).Int("page", index+1).Msg("Recovered from panic while rendering page")
			err = fmt.Errorf("panic rendering page %d: %v", index+1, rec)
		}
	}()

	bounds, err := doc.PageBounds(index)
	if err != nil {
		return page, fmt.Errorf("page bounds: %w", err)
	}
	if !bounds.Valid() {
		return page, fmt.Errorf("invalid page bounds %.2fx%.2f", bounds.Width, bounds.Height)
	}

	scale := r.RenderScale(bounds)
	width := r.pixelSize(bounds.Width * scale)
	height := r.pixelSize(bounds.Height * scale)

	src, err := doc.RenderPage(index, scale)
	if err != nil {
		return page, err
	}
	if src == nil || src.Bounds().Empty() {
		return page, fmt.Errorf("renderer returned an empty image")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)

	sb := src.Bounds()
	target := fitRect(canvas.Bounds(), sb.Dx(), sb.Dy())
	if target.Dx() == sb.Dx() && target.Dy() == sb.Dy() {
		xdraw.Draw(canvas, target, src, sb.Min, xdraw.Over)
	} else {
		xdraw.CatmullRom.Scale(canvas, target, src, sb, xdraw.Over, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return page, fmt.Errorf("encode png: %w", err)
	}

	return models.RenderedPage{
		Index:       index,
		Image:       buf.Bytes(),
		Bounds:      bounds,
		PixelWidth:  width,
		PixelHeight: height,
	}, nil
}

func (r *Rasterizer) pixelSize(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		n = 1
	}
	if n > r.maxPixelDimension {
		n = r.maxPixelDimension
	}
	return n
}

// fitRect returns the largest rectangle with the aspect of a srcW x srcH image
// that fits centered inside dst. A dimension within one pixel of dst snaps to
// it, absorbing the backend's own rounding of the pixel box.
func fitRect(dst image.Rectangle, srcW, srcH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 {
		return dst
	}
	scale := math.Min(float64(dst.Dx())/float64(srcW), float64(dst.Dy())/float64(srcH))
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	if abs(dst.Dx()-w) <= 1 {
		w = dst.Dx()
	}
	if abs(dst.Dy()-h) <= 1 {
		h = dst.Dy()
	}
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
