// -----------------------------------------------------------------------
// PDF Document Interface - Page access for rasterization
// -----------------------------------------------------------------------

package interfaces

import (
	"image"

	"github.com/ternarybob/pdfdeck/internal/models"
)

// PDFDocument is a parsed PDF held open for the duration of one conversion.
// Implementations are not safe for concurrent use.
type PDFDocument interface {
	// PageCount returns the number of pages in the document
	PageCount() int

	// PageBounds returns the media box size of the page at index (0-based) in points
	PageBounds(index int) (models.PageBounds, error)

	// RenderPage draws the page at index with the given points-to-pixels scale.
	// The returned image uses a top-left origin.
	RenderPage(index int, scale float64) (image.Image, error)

	// Close releases the document
	Close() error
}

// PDFOpener parses raw PDF bytes into a PDFDocument
type PDFOpener interface {
	Open(pdfBytes []byte) (PDFDocument, error)
}
