package interfaces

import (
	"github.com/ternarybob/pdfdeck/internal/models"
)

// PageRasterizer turns every page of a document into a PNG raster
type PageRasterizer interface {
	Rasterize(doc PDFDocument) ([]models.RenderedPage, error)
}

// PackageBuilder assembles rendered pages into PPTX archive bytes
type PackageBuilder interface {
	Build(pages []models.RenderedPage) ([]byte, error)
}
