// -----------------------------------------------------------------------
// Converter Service - PDF bytes in, saved .pptx out
// -----------------------------------------------------------------------

package converter

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/interfaces"
	"github.com/ternarybob/pdfdeck/internal/models"
)

const (
	// DefaultFileName is used when no output name is given
	DefaultFileName = "converted.pptx"
	pptxExtension   = ".pptx"
)

// Result describes one conversion
type Result struct {
	PageCount    int
	SlideCount   int
	SkippedPages []int // 0-based indices of pages that did not render
	ArchiveSize  int64
}

// Service orchestrates open -> rasterize -> package -> write
type Service struct {
	opener      interfaces.PDFOpener
	rasterizer  interfaces.PageRasterizer
	builder     interfaces.PackageBuilder
	storage     interfaces.ConversionStorage
	outputDir   string
	defaultName string
	logger      arbor.ILogger
	now         func() time.Time
}

// NewService creates a converter writing into config.Dir
func NewService(
	config common.OutputConfig,
	opener interfaces.PDFOpener,
	rasterizer interfaces.PageRasterizer,
	builder interfaces.PackageBuilder,
	storage interfaces.ConversionStorage,
	logger arbor.ILogger,
) *Service {
	defaultName := config.DefaultName
	if defaultName == "" {
		defaultName = DefaultFileName
	}
	return &Service{
		opener:      opener,
		rasterizer:  rasterizer,
		builder:     builder,
		storage:     storage,
		outputDir:   config.Dir,
		defaultName: NormalizeFileName(defaultName, DefaultFileName),
		logger:      logger,
		now:         time.Now,
	}
}

// NormalizeFileName reduces name to a bare file name ending in .pptx.
// An empty name becomes fallback.
func NormalizeFileName(name, fallback string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name != "" {
		name = path.Base(name)
	}
	if name == "" || name == "." || name == "/" || name == ".." {
		name = fallback
	}
	if !strings.EqualFold(path.Ext(name), pptxExtension) {
		name += pptxExtension
	}
	return name
}

// ConvertAndSave converts pdfBytes and writes the presentation into the
// output directory, replacing any file of the same name. It returns the
// absolute path of the written file.
func (s *Service) ConvertAndSave(pdfBytes []byte, outputFileName string) (string, error) {
	record, err := s.ConvertFile(context.Background(), "", pdfBytes, outputFileName)
	if err != nil {
		return "", err
	}
	return record.OutputPath, nil
}

// ConvertFile is ConvertAndSave with a source name for the history record
func (s *Service) ConvertFile(ctx context.Context, sourceName string, pdfBytes []byte, outputFileName string) (*models.ConversionRecord, error) {
	started := s.now()
	record := &models.ConversionRecord{
		ID:         common.NewConversionID(),
		SourceName: sourceName,
		CreatedAt:  started,
	}

	outputPath, result, err := s.convertAndWrite(pdfBytes, NormalizeFileName(outputFileName, s.defaultName))
	record.Duration = s.now().Sub(started)
	if result != nil {
		record.PageCount = result.PageCount
		record.SlideCount = result.SlideCount
		record.SkippedPages = result.SkippedPages
		record.ArchiveSize = result.ArchiveSize
	}

	if err != nil {
		record.Status = models.ConversionStatusFailed
		record.Error = err.Error()
		record.ErrorKind = common.KindOf(err).String()
		s.logger.Error().
			Err(err).
			Str("source", sourceName).
			Str("kind", record.ErrorKind).
			Msg("Conversion failed")
		s.recordHistory(ctx, record)
		return nil, err
	}

	record.Status = models.ConversionStatusCompleted
	record.OutputPath = outputPath
	s.recordHistory(ctx, record)

	s.logger.Info().
		Str("source", sourceName).
		Str("output", outputPath).
		Int("slides", record.SlideCount).
		Int("skipped", len(record.SkippedPages)).
		Int64("bytes", record.ArchiveSize).
		Str("duration", record.Duration.String()).
		Msg("Conversion completed")

	return record, nil
}

// Convert runs the pipeline without touching the output directory
func (s *Service) Convert(pdfBytes []byte) ([]byte, *Result, error) {
	doc, err := s.opener.Open(pdfBytes)
	if err != nil {
		if common.KindOf(err) == common.KindUnknown {
			err = common.NewError(common.KindInput, "parse pdf", fmt.Errorf("%w: %v", common.ErrInvalidPDF, err))
		}
		return nil, nil, err
	}
	defer func() {
		if err := doc.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to close PDF document")
		}
	}()

	result := &Result{PageCount: doc.PageCount()}

	pages, err := s.rasterizer.Rasterize(doc)
	if err != nil {
		return nil, result, err
	}
	result.SlideCount = len(pages)
	result.SkippedPages = skippedPages(result.PageCount, pages)

	data, err := s.builder.Build(pages)
	if err != nil {
		return nil, result, err
	}
	result.ArchiveSize = int64(len(data))

	return data, result, nil
}

func (s *Service) convertAndWrite(pdfBytes []byte, fileName string) (string, *Result, error) {
	data, result, err := s.Convert(pdfBytes)
	if err != nil {
		return "", result, err
	}

	outputPath, err := writeFileAtomic(s.outputDir, fileName, data)
	if err != nil {
		return "", result, common.NewError(common.KindIO, "write output", err)
	}
	return outputPath, result, nil
}

func (s *Service) recordHistory(ctx context.Context, record *models.ConversionRecord) {
	if s.storage == nil {
		return
	}
	if err := s.storage.SaveConversion(ctx, record); err != nil {
		s.logger.Warn().Err(err).Str("id", record.ID).Msg("Failed to record conversion history")
	}
}

func skippedPages(pageCount int, pages []models.RenderedPage) []int {
	rendered := make(map[int]bool, len(pages))
	for _, p := range pages {
		rendered[p.Index] = true
	}
	var skipped []int
	for i := 0; i < pageCount; i++ {
		if !rendered[i] {
			skipped = append(skipped, i)
		}
	}
	return skipped
}

// writeFileAtomic writes data to dir/name through a synced temp file in the
// same directory, then renames it into place. On failure nothing is left at
// the destination and any previous file there is untouched.
func writeFileAtomic(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	target, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	committed = true

	return target, nil
}
