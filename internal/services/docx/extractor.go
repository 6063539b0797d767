// -----------------------------------------------------------------------
// DOCX Extractor Service - Plain text from word/document.xml
// -----------------------------------------------------------------------

package docx

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/interfaces"
)

// DocumentEntry is the main body part of a WordprocessingML package
const DocumentEntry = "word/document.xml"

// Extractor implements the TextExtractor interface for DOCX archives
type Extractor struct {
	logger          arbor.ILogger
	maxInflatedSize int64
}

// Compile-time interface assertion
var _ interfaces.TextExtractor = (*Extractor)(nil)

// NewExtractor creates a new DOCX extractor service
func NewExtractor(config common.DocxConfig, logger arbor.ILogger) *Extractor {
	return &Extractor{
		logger:          logger,
		maxInflatedSize: config.MaxInflatedSize,
	}
}

// ExtractText returns the document's paragraphs separated by blank lines
func (e *Extractor) ExtractText(docxBytes []byte) (string, error) {
	data, source, err := readEntry(docxBytes, DocumentEntry, e.maxInflatedSize)
	if err != nil {
		e.logger.Warn().Err(err).Int("input_bytes", len(docxBytes)).Msg("Failed to read document body")
		return "", err
	}

	data, encoding, err := toUTF8(data)
	if err != nil {
		return "", common.NewError(common.KindDecode, "transcode", fmt.Errorf("%s: %w", DocumentEntry, err))
	}

	text, err := ExtractParagraphs(string(data))
	if err != nil {
		e.logger.Warn().Err(err).Str("entry", DocumentEntry).Msg("No extractable text in document")
		return "", err
	}

	e.logger.Debug().
		Str("source", source).
		Str("encoding", encoding).
		Int("xml_bytes", len(data)).
		Int("text_chars", len(text)).
		Msg("Extracted DOCX text")

	return text, nil
}
