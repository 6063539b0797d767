package pptx

import (
	"math"

	"github.com/ternarybob/pdfdeck/internal/models"
)

const (
	// SlideWidthEMU and SlideHeightEMU are a 10in x 7.5in (4:3) slide
	SlideWidthEMU  int64 = 9144000
	SlideHeightEMU int64 = 6858000

	// EMUPerPoint converts PDF points to English Metric Units
	EMUPerPoint = 12700

	// FirstSlideID is the id of the first <p:sldId>; later slides increment from it
	FirstSlideID = 257

	// Master and layout ids live in the reserved range above 2^31
	SlideMasterID uint32 = 2147483648
	SlideLayoutID uint32 = 2147483649
)

// ComputeGeometry scales a page of the given bounds uniformly to fit the
// slide and centers it on both axes.
func ComputeGeometry(bounds models.PageBounds) models.SlideGeometry {
	imgW := bounds.Width * EMUPerPoint
	imgH := bounds.Height * EMUPerPoint

	scale := math.Min(float64(SlideWidthEMU)/imgW, float64(SlideHeightEMU)/imgH)

	extCx := int64(math.Round(imgW * scale))
	extCy := int64(math.Round(imgH * scale))
	if extCx > SlideWidthEMU {
		extCx = SlideWidthEMU
	}
	if extCy > SlideHeightEMU {
		extCy = SlideHeightEMU
	}

	return models.SlideGeometry{
		OffX:  (SlideWidthEMU - extCx) / 2,
		OffY:  (SlideHeightEMU - extCy) / 2,
		ExtCx: extCx,
		ExtCy: extCy,
	}
}
