package docx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
)

const documentTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s</w:body></w:document>`

func newTestExtractor(limit int64) *Extractor {
	return NewExtractor(common.DocxConfig{MaxInflatedSize: limit}, arbor.NewLogger())
}

func docxWith(t *testing.T, document string) []byte {
	t.Helper()
	return buildZip(t,
		zipFile{name: "[Content_Types].xml", method: zip.Deflate, body: `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		zipFile{name: "_rels/.rels", method: zip.Deflate, body: `<Relationships/>`},
		zipFile{name: DocumentEntry, method: zip.Deflate, body: document},
	)
}

func TestExtractText_TwoParagraphs(t *testing.T) {
	body := `<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>`
	archive := docxWith(t, fmt.Sprintf(documentTemplate, body))

	text, err := newTestExtractor(0).ExtractText(archive)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph\n\nSecond paragraph", text)
}

func TestExtractText_WithoutCentralDirectory(t *testing.T) {
	body := `<w:p w:rsidR="00AB"><w:r><w:t xml:space="preserve">Only </w:t></w:r><w:r><w:t>local headers</w:t></w:r></w:p>`
	archive := docxWith(t, fmt.Sprintf(documentTemplate, body))

	text, err := newTestExtractor(0).ExtractText(archive[:len(archive)-22])
	require.NoError(t, err)
	assert.Equal(t, "Only local headers", text)
}

func TestExtractText_Latin1Declaration(t *testing.T) {
	document := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<w:document><w:body><w:p><w:r><w:t>caf\xe9</w:t></w:r></w:p></w:body></w:document>"
	archive := docxWith(t, document)

	text, err := newTestExtractor(0).ExtractText(archive)
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestExtractText_UTF16WithByteOrderMark(t *testing.T) {
	body := `<w:p><w:r><w:t>Première</w:t></w:r></w:p><w:p><w:r><w:t>Seconde</w:t></w:r></w:p>`
	document := `<?xml version="1.0" encoding="UTF-16" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`
	archive := docxWith(t, string(utf16Bytes(document, false)))

	text, err := newTestExtractor(0).ExtractText(archive)
	require.NoError(t, err)
	assert.Equal(t, "Première\n\nSeconde", text)
}

func TestExtractText_Errors(t *testing.T) {
	tests := []struct {
		name     string
		archive  func(t *testing.T) []byte
		limit    int64
		wantErr  error
		wantKind common.Kind
	}{
		{
			name: "missing document part",
			archive: func(t *testing.T) []byte {
				return buildZip(t, zipFile{name: "word/styles.xml", method: zip.Deflate, body: "<w:styles/>"})
			},
			wantErr:  common.ErrEntryNotFound,
			wantKind: common.KindInput,
		},
		{
			name: "not a zip",
			archive: func(t *testing.T) []byte {
				return []byte("%PDF-1.7 definitely not a docx")
			},
			wantErr:  common.ErrEntryNotFound,
			wantKind: common.KindInput,
		},
		{
			name: "no run text",
			archive: func(t *testing.T) []byte {
				return docxWith(t, fmt.Sprintf(documentTemplate, `<w:p><w:pPr/></w:p><w:p/>`))
			},
			wantErr:  common.ErrNoText,
			wantKind: common.KindDecode,
		},
		{
			name: "document larger than limit",
			archive: func(t *testing.T) []byte {
				return docxWith(t, fmt.Sprintf(documentTemplate, `<w:p><w:r><w:t>text</w:t></w:r></w:p>`))
			},
			limit:    16,
			wantErr:  common.ErrInflateLimit,
			wantKind: common.KindDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestExtractor(tt.limit).ExtractText(tt.archive(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, tt.wantKind, common.KindOf(err))
		})
	}
}
