// -----------------------------------------------------------------------
// Error taxonomy shared by the conversion and extraction pipelines
// -----------------------------------------------------------------------

package common

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for logging and diagnostics
type Kind int

const (
	KindUnknown Kind = iota
	KindInput        // unparseable or empty input, missing ZIP entry, unsupported method
	KindRender       // no page could be rasterized
	KindPackage      // temp directory, part write or zip failure
	KindIO           // final write or archive read-back failure
	KindDecode       // inflate failure or no extractable text
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindRender:
		return "render"
	case KindPackage:
		return "package"
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidPDF             = errors.New("pdf could not be parsed")
	ErrEmptyDocument          = errors.New("pdf has no pages")
	ErrNoRenderablePages      = errors.New("no page could be rendered")
	ErrNoPages                = errors.New("no rendered pages to package")
	ErrEntryNotFound          = errors.New("zip entry not found")
	ErrUnsupportedCompression = errors.New("unsupported zip compression method")
	ErrInflate                = errors.New("deflate stream could not be inflated")
	ErrInflateLimit           = errors.New("inflated data exceeds size limit")
	ErrNoText                 = errors.New("no extractable text")
)

// Error is a classified failure. Op names the step that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind and the failing step
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
