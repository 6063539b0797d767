package pdf

import (
	"fmt"

	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/models"
)

// Inspect reads the structure of a PDF without rendering any page
func Inspect(pdfBytes []byte) (*models.PDFInfo, error) {
	if len(pdfBytes) == 0 {
		return nil, common.NewError(common.KindInput, "inspect pdf", common.ErrInvalidPDF)
	}

	ctx, err := readContext(pdfBytes)
	if err != nil {
		return nil, common.NewError(common.KindInput, "inspect pdf", fmt.Errorf("%w: %v", common.ErrInvalidPDF, err))
	}

	bounds, err := pageBounds(ctx)
	if err != nil {
		return nil, common.NewError(common.KindInput, "read page boxes", fmt.Errorf("%w: %v", common.ErrInvalidPDF, err))
	}

	info := &models.PDFInfo{
		PageCount: len(bounds),
		Pages:     bounds,
		Encrypted: ctx.Encrypt != nil,
		FileSize:  int64(len(pdfBytes)),
	}
	if ctx.HeaderVersion != nil {
		info.Version = ctx.HeaderVersion.String()
	}

	return info, nil
}
