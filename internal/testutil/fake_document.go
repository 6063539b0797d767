package testutil

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ternarybob/pdfdeck/internal/interfaces"
	"github.com/ternarybob/pdfdeck/internal/models"
)

// FakeDocument is an in-memory PDFDocument. Each page renders as a solid
// fill whose red channel encodes the page index, so tests can check order.
type FakeDocument struct {
	Pages      []models.PageBounds
	FailPages  map[int]error // pages whose RenderPage fails
	PanicPages map[int]bool  // pages whose RenderPage panics
	Closed     bool
}

var _ interfaces.PDFDocument = (*FakeDocument)(nil)

// NewFakeDocument creates a fake with the given page sizes
func NewFakeDocument(pages ...models.PageBounds) *FakeDocument {
	return &FakeDocument{Pages: pages, FailPages: map[int]error{}, PanicPages: map[int]bool{}}
}

// PageColor is the fill used for the page at index
func PageColor(index int) color.RGBA {
	return color.RGBA{R: uint8(10 + index*20), G: 40, B: 80, A: 255}
}

func (d *FakeDocument) PageCount() int {
	return len(d.Pages)
}

func (d *FakeDocument) PageBounds(index int) (models.PageBounds, error) {
	if index < 0 || index >= len(d.Pages) {
		return models.PageBounds{}, fmt.Errorf("page %d out of range", index)
	}
	return d.Pages[index], nil
}

func (d *FakeDocument) RenderPage(index int, scale float64) (image.Image, error) {
	if d.PanicPages[index] {
		panic(fmt.Sprintf("fake renderer panic on page %d", index))
	}
	if err := d.FailPages[index]; err != nil {
		return nil, err
	}
	b := d.Pages[index]
	w := int(b.Width*scale + 0.5)
	h := int(b.Height*scale + 0.5)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := PageColor(index)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

func (d *FakeDocument) Close() error {
	d.Closed = true
	return nil
}

// FakeOpener returns a fixed document (or error) for any input
type FakeOpener struct {
	Doc *FakeDocument
	Err error
}

var _ interfaces.PDFOpener = (*FakeOpener)(nil)

func (o *FakeOpener) Open(pdfBytes []byte) (interfaces.PDFDocument, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	return o.Doc, nil
}
