package docx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/ternarybob/pdfdeck/internal/common"
)

// Inflate decodes a raw (headerless) DEFLATE stream. A positive limit caps the
// decoded size; zero means unlimited. Empty output is treated as a failure.
func Inflate(raw []byte, limit int64) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()

	data, err := drain(r, limit)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, common.NewError(common.KindDecode, "inflate", common.ErrInflate)
	}
	return data, nil
}

// drain reads r to the end, growing the buffer as needed
func drain(r io.Reader, limit int64) ([]byte, error) {
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}

	var buf bytes.Buffer
	n, err := buf.ReadFrom(src)
	if err != nil {
		return nil, common.NewError(common.KindDecode, "inflate", fmt.Errorf("%w: %v", common.ErrInflate, err))
	}
	if limit > 0 && n > limit {
		return nil, common.NewError(common.KindDecode, "inflate", fmt.Errorf("%w: more than %d bytes", common.ErrInflateLimit, limit))
	}
	return buf.Bytes(), nil
}
