// -----------------------------------------------------------------------
// PDF Document - pdfcpu for structure, MuPDF (go-fitz) for drawing
// -----------------------------------------------------------------------

package pdf

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/interfaces"
	"github.com/ternarybob/pdfdeck/internal/models"
)

func init() {
	// Keep pdfcpu from creating a config directory under the user's home
	model.ConfigPath = "disable"
}

// Opener parses PDF bytes into a renderable document
type Opener struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.PDFOpener = (*Opener)(nil)

// NewOpener creates a new PDF opener
func NewOpener(logger arbor.ILogger) *Opener {
	return &Opener{logger: logger}
}

// Open parses pdfBytes. Any structural failure is reported as ErrInvalidPDF.
func (o *Opener) Open(pdfBytes []byte) (interfaces.PDFDocument, error) {
	if len(pdfBytes) == 0 {
		return nil, common.NewError(common.KindInput, "parse pdf", common.ErrInvalidPDF)
	}

	ctx, err := readContext(pdfBytes)
	if err != nil {
		return nil, common.NewError(common.KindInput, "parse pdf", fmt.Errorf("%w: %v", common.ErrInvalidPDF, err))
	}

	bounds, err := pageBounds(ctx)
	if err != nil {
		return nil, common.NewError(common.KindInput, "read page boxes", fmt.Errorf("%w: %v", common.ErrInvalidPDF, err))
	}

	raster, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, common.NewError(common.KindInput, "open pdf for rendering", fmt.Errorf("%w: %v", common.ErrInvalidPDF, err))
	}

	if n := raster.NumPage(); n != len(bounds) {
		o.logger.Warn().
			Int("structure_pages", len(bounds)).
			Int("render_pages", n).
			Msg("Page count differs between parser and renderer")
	}

	o.logger.Debug().
		Int("page_count", len(bounds)).
		Int("file_size", len(pdfBytes)).
		Bool("encrypted", ctx.Encrypt != nil).
		Msg("Opened PDF document")

	return &document{raster: raster, bounds: bounds}, nil
}

// document pairs page boxes read by pdfcpu with a MuPDF handle for drawing
type document struct {
	raster *fitz.Document
	bounds []models.PageBounds
}

func (d *document) PageCount() int {
	return len(d.bounds)
}

func (d *document) PageBounds(index int) (models.PageBounds, error) {
	if index < 0 || index >= len(d.bounds) {
		return models.PageBounds{}, fmt.Errorf("page index %d out of range [0,%d)", index, len(d.bounds))
	}
	return d.bounds[index], nil
}

// RenderPage draws the page at 72*scale DPI. MuPDF maps the PDF's bottom-left
// origin onto the raster's top-left origin and clears the pixmap to white.
func (d *document) RenderPage(index int, scale float64) (image.Image, error) {
	if index < 0 || index >= d.raster.NumPage() {
		return nil, fmt.Errorf("page index %d not renderable (renderer has %d pages)", index, d.raster.NumPage())
	}
	img, err := d.raster.ImageDPI(index, 72*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index+1, err)
	}
	return img, nil
}

func (d *document) Close() error {
	return d.raster.Close()
}

func readContext(pdfBytes []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		return nil, err
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, err
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// pageBounds returns the visible area of every page: the crop box clipped to
// the media box, with width and height swapped for quarter-turn rotations.
// This is the box MuPDF draws, so rasters keep the aspect of these bounds.
func pageBounds(ctx *model.Context) ([]models.PageBounds, error) {
	if ctx.PageCount == 0 {
		return nil, nil
	}
	boundaries, err := ctx.PageBoundaries(nil)
	if err != nil {
		return nil, err
	}
	bounds := make([]models.PageBounds, len(boundaries))
	for i, pb := range boundaries {
		box := visibleBox(pb.MediaBox(), pb.CropBox())
		if box == nil {
			return nil, fmt.Errorf("page %d has no media box", i+1)
		}
		width, height := box.Width(), box.Height()
		if pb.Rot%180 != 0 {
			width, height = height, width
		}
		bounds[i] = models.PageBounds{Width: width, Height: height}
	}
	return bounds, nil
}

func visibleBox(media, crop *types.Rectangle) *types.Rectangle {
	if media == nil {
		return crop
	}
	if crop == nil {
		return media
	}
	clipped := types.NewRectangle(
		math.Max(media.LL.X, crop.LL.X),
		math.Max(media.LL.Y, crop.LL.Y),
		math.Min(media.UR.X, crop.UR.X),
		math.Min(media.UR.Y, crop.UR.Y),
	)
	if clipped.Width() <= 0 || clipped.Height() <= 0 {
		return media
	}
	return clipped
}
