// Package testutil builds PDF fixtures and fake documents for package tests.
package testutil

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageSpec describes one generated PDF page, sized in points
type PageSpec struct {
	Width  float64
	Height float64
	Label  string

	// Crop, when set, becomes the page's CropBox in PDF user space
	// (bottom-left origin)
	Crop *Box

	// LeftBand fills a black stripe this many points wide, full height,
	// from the left edge of the media box
	LeftBand float64
}

// Box is a rectangle in points
type Box struct {
	X, Y, Width, Height float64
}

// Letter and A4 page sizes in points
var (
	Letter          = PageSpec{Width: 612, Height: 792}
	LetterLandscape = PageSpec{Width: 792, Height: 612}
	A4              = PageSpec{Width: 595.28, Height: 841.89}
)

// BuildPDF generates a PDF with one page per spec, each carrying its label
func BuildPDF(specs ...PageSpec) ([]byte, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one page is required")
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: specs[0].Width, Ht: specs[0].Height},
	})
	doc.SetAutoPageBreak(false, 0)

	cropped := false
	for i, spec := range specs {
		doc.AddPageFormat("P", fpdf.SizeType{Wd: spec.Width, Ht: spec.Height})

		// fpdf carries a page box over to every following page
		switch {
		case spec.Crop != nil:
			doc.SetPageBox("crop", spec.Crop.X, spec.Crop.Y, spec.Crop.Width, spec.Crop.Height)
			cropped = true
		case cropped:
			doc.SetPageBox("crop", 0, 0, spec.Width, spec.Height)
		}

		// A filled band makes each page visibly non-blank once rendered
		doc.SetFillColor(30*(i%8), 90, 160)
		doc.Rect(0, 0, spec.Width, spec.Height/4, "F")

		label := spec.Label
		if label == "" {
			label = fmt.Sprintf("Page %d", i+1)
		}
		doc.SetFont("Helvetica", "B", 24)
		doc.SetTextColor(0, 0, 0)
		doc.Text(36, spec.Height/2, label)

		if spec.LeftBand > 0 {
			doc.SetFillColor(0, 0, 0)
			doc.Rect(0, 0, spec.LeftBand, spec.Height, "F")
		}
	}

	if err := doc.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RotatePDF sets /Rotate on every page of pdfBytes
func RotatePDF(pdfBytes []byte, degrees int) ([]byte, error) {
	model.ConfigPath = "disable"

	var buf bytes.Buffer
	if err := api.Rotate(bytes.NewReader(pdfBytes), &buf, degrees, nil, model.NewDefaultConfiguration()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
