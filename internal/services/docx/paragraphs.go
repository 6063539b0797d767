// -----------------------------------------------------------------------
// Paragraph extraction - plain text from WordprocessingML body markup
// -----------------------------------------------------------------------

package docx

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/ternarybob/pdfdeck/internal/common"
	"golang.org/x/net/html/charset"
)

const paragraphSeparator = "\n\n"

var (
	// <w:t> or <w:t xml:space="preserve">, never <w:tab/> or <w:tbl>
	runTextPattern = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>`)

	xmlEncodingPattern = regexp.MustCompile(`^\s*<\?xml[^>]*\bencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

	// &amp; must be first so that "&amp;lt;" decodes to "&lt;" and then "<"
	entityReplacements = [][2]string{
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&quot;", `"`},
		{"&apos;", "'"},
	}
)

// DecodeEntities replaces the five predefined XML entities, one pass each
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	for _, r := range entityReplacements {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return s
}

// ExtractParagraphs returns the run text of every non-empty paragraph,
// separated by a blank line
func ExtractParagraphs(document string) (string, error) {
	normalized := strings.ReplaceAll(document, "<w:p>", "<w:p >")
	normalized = strings.ReplaceAll(normalized, "<w:p/>", "<w:p />")
	chunks := strings.Split(normalized, "<w:p ")

	if len(chunks) == 1 {
		// No paragraph markers at all
		if runs := runTexts(chunks[0]); len(runs) > 0 {
			if text := strings.TrimSpace(strings.Join(runs, " ")); text != "" {
				return text, nil
			}
		}
	} else {
		var paragraphs []string
		for _, chunk := range chunks {
			text := strings.TrimSpace(strings.Join(runTexts(chunk), ""))
			if text != "" {
				paragraphs = append(paragraphs, text)
			}
		}
		if len(paragraphs) > 0 {
			return strings.Join(paragraphs, paragraphSeparator), nil
		}
	}

	if text := strings.TrimSpace(strings.Join(runTexts(document), " ")); text != "" {
		return text, nil
	}
	return "", common.NewError(common.KindDecode, "extract paragraphs", common.ErrNoText)
}

func runTexts(markup string) []string {
	matches := runTextPattern.FindAllStringSubmatch(markup, -1)
	if len(matches) == 0 {
		return nil
	}
	runs := make([]string, 0, len(matches))
	for _, m := range matches {
		runs = append(runs, DecodeEntities(m[1]))
	}
	return runs
}

// byteOrderMarks maps each recognised BOM to its encoding label
var byteOrderMarks = []struct {
	bom   []byte
	label string
}{
	{[]byte{0xef, 0xbb, 0xbf}, "utf-8"},
	{[]byte{0xfe, 0xff}, "utf-16be"},
	{[]byte{0xff, 0xfe}, "utf-16le"},
}

// toUTF8 transcodes data to UTF-8. A byte order mark wins over the XML
// declaration's encoding; without either the data is taken as UTF-8.
func toUTF8(data []byte) ([]byte, string, error) {
	for _, b := range byteOrderMarks {
		if !bytes.HasPrefix(data, b.bom) {
			continue
		}
		body := data[len(b.bom):]
		if b.label == "utf-8" {
			return body, b.label, nil
		}
		return decodeLabel(b.label, body)
	}

	head := data
	if len(head) > 256 {
		head = head[:256]
	}
	m := xmlEncodingPattern.FindSubmatch(head)
	if m == nil {
		return data, "utf-8", nil
	}

	label := strings.ToLower(string(m[1]))
	if label == "utf-8" || label == "utf8" {
		return data, label, nil
	}
	return decodeLabel(label, data)
}

func decodeLabel(label string, data []byte) ([]byte, string, error) {
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, label, err
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, label, err
	}
	return out, label, nil
}
