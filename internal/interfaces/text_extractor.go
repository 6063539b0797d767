package interfaces

// TextExtractor extracts plain text from an Office document
type TextExtractor interface {
	ExtractText(docBytes []byte) (string, error)
}
