package docx

import (
	"errors"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/pdfdeck/internal/common"
)

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"&lt;tag&gt;", "<tag>"},
		{"&quot;quoted&quot; &apos;single&apos;", `"quoted" 'single'`},
		{"&amp;lt;hello&amp;gt;", "<hello>"},
		{"&copy; stays", "&copy; stays"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeEntities(tt.in))
		})
	}
}

func TestExtractParagraphs(t *testing.T) {
	tests := []struct {
		name     string
		document string
		want     string
	}{
		{
			name:     "paragraphs joined by blank line",
			document: `<w:body><w:p><w:r><w:t>One</w:t></w:r></w:p><w:p><w:r><w:t>Two</w:t></w:r></w:p></w:body>`,
			want:     "One\n\nTwo",
		},
		{
			name:     "runs concatenate without separator",
			document: `<w:p><w:r><w:t>Hel</w:t></w:r><w:r><w:t>lo</w:t></w:r></w:p><w:p><w:r><w:t>World</w:t></w:r></w:p>`,
			want:     "Hello\n\nWorld",
		},
		{
			name:     "attributes on paragraph and run text",
			document: `<w:p w:rsidR="1"><w:r><w:t xml:space="preserve">  padded  </w:t></w:r></w:p><w:p w:rsidR="2"><w:r><w:t>next</w:t></w:r></w:p>`,
			want:     "padded\n\nnext",
		},
		{
			name:     "empty and self-closing paragraphs dropped",
			document: `<w:p/><w:p><w:r><w:t>kept</w:t></w:r></w:p><w:p></w:p><w:p><w:r><w:t>   </w:t></w:r></w:p><w:p><w:r><w:t>also kept</w:t></w:r></w:p>`,
			want:     "kept\n\nalso kept",
		},
		{
			name:     "tabs and tables are not runs",
			document: `<w:p><w:r><w:tab/><w:t>cell</w:t></w:r></w:p><w:tbl><w:p><w:r><w:t>row</w:t></w:r></w:p></w:tbl>`,
			want:     "cell\n\nrow",
		},
		{
			name:     "paragraph properties do not split",
			document: `<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p><w:p><w:r><w:t>Body</w:t></w:r></w:p>`,
			want:     "Title\n\nBody",
		},
		{
			name:     "entities decoded",
			document: `<w:p><w:r><w:t>a &amp; b</w:t></w:r></w:p><w:p><w:r><w:t>&amp;lt;hello&amp;gt;</w:t></w:r></w:p>`,
			want:     "a & b\n\n<hello>",
		},
		{
			name:     "no paragraph markers joins runs with spaces",
			document: `<w:body><w:r><w:t>alpha</w:t></w:r><w:r><w:t>beta</w:t></w:r></w:body>`,
			want:     "alpha beta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractParagraphs(tt.document)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractParagraphs_NoText(t *testing.T) {
	for _, document := range []string{
		"",
		`<w:body></w:body>`,
		`<w:p><w:r><w:t></w:t></w:r></w:p><w:p/>`,
		`<w:p><w:r><w:t>  </w:t></w:r></w:p><w:p><w:r><w:tab/></w:r></w:p>`,
	} {
		_, err := ExtractParagraphs(document)
		require.Error(t, err, document)
		assert.True(t, errors.Is(err, common.ErrNoText))
		assert.Equal(t, common.KindDecode, common.KindOf(err))
	}
}

func TestToUTF8(t *testing.T) {
	t.Run("no declaration", func(t *testing.T) {
		out, label, err := toUTF8([]byte("<w:t>x</w:t>"))
		require.NoError(t, err)
		assert.Equal(t, "utf-8", label)
		assert.Equal(t, "<w:t>x</w:t>", string(out))
	})

	t.Run("windows-1252", func(t *testing.T) {
		out, label, err := toUTF8([]byte("<?xml version='1.0' encoding='windows-1252'?><w:t>\x93quoted\x94</w:t>"))
		require.NoError(t, err)
		assert.Equal(t, "windows-1252", label)
		assert.Contains(t, string(out), "“quoted”")
	})

	t.Run("utf-8 bom", func(t *testing.T) {
		out, label, err := toUTF8(append([]byte{0xef, 0xbb, 0xbf}, `<?xml version="1.0"?><w:t>é</w:t>`...))
		require.NoError(t, err)
		assert.Equal(t, "utf-8", label)
		assert.Equal(t, `<?xml version="1.0"?><w:t>é</w:t>`, string(out))
	})

	t.Run("utf-16le bom", func(t *testing.T) {
		out, label, err := toUTF8(utf16Bytes(`<?xml version="1.0" encoding="UTF-16"?><w:t>café</w:t>`, false))
		require.NoError(t, err)
		assert.Equal(t, "utf-16le", label)
		assert.Equal(t, `<?xml version="1.0" encoding="UTF-16"?><w:t>café</w:t>`, string(out))
	})

	t.Run("utf-16be bom", func(t *testing.T) {
		out, label, err := toUTF8(utf16Bytes(`<w:t>naïve</w:t>`, true))
		require.NoError(t, err)
		assert.Equal(t, "utf-16be", label)
		assert.Equal(t, `<w:t>naïve</w:t>`, string(out))
	})

	t.Run("unknown label", func(t *testing.T) {
		_, _, err := toUTF8([]byte(`<?xml version="1.0" encoding="x-made-up"?><w:t>x</w:t>`))
		assert.Error(t, err)
	})
}

// utf16Bytes encodes s as UTF-16 with a leading byte order mark
func utf16Bytes(s string, bigEndian bool) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, 2+2*len(units))
	if bigEndian {
		out = append(out, 0xfe, 0xff)
	} else {
		out = append(out, 0xff, 0xfe)
	}
	for _, u := range units {
		if bigEndian {
			out = append(out, byte(u>>8), byte(u))
		} else {
			out = append(out, byte(u), byte(u>>8))
		}
	}
	return out
}
