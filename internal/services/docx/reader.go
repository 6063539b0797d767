package docx

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zip"
	"github.com/ternarybob/pdfdeck/internal/common"
)

// Entry sources reported by readEntry
const (
	sourceCentralDirectory = "central_directory"
	sourceLocalScan        = "local_scan"
)

// ReadEntry returns the decoded bytes of the named entry. The central
// directory is tried first; a missing or corrupt directory falls back to a
// forward scan of the local file headers.
func ReadEntry(buf []byte, name string) ([]byte, error) {
	data, _, err := readEntry(buf, name, 0)
	return data, err
}

func readEntry(buf []byte, name string, limit int64) ([]byte, string, error) {
	data, err := readFromDirectory(buf, name, limit)
	if err == nil {
		return data, sourceCentralDirectory, nil
	}
	if errors.Is(err, common.ErrUnsupportedCompression) || errors.Is(err, common.ErrInflateLimit) {
		return nil, sourceCentralDirectory, err
	}

	_, data, err = scanLocalEntry(buf, name, limit)
	return data, sourceLocalScan, err
}

func readFromDirectory(buf []byte, name string, limit int64) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		if !entryMatches(f.Name, name) {
			continue
		}

		switch f.Method {
		case zip.Store, zip.Deflate:
		default:
			return nil, common.NewError(common.KindInput, "read zip",
				fmt.Errorf("%w: method %d for %s", common.ErrUnsupportedCompression, f.Method, f.Name))
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		data, err := drain(rc, limit)
		if err != nil {
			return nil, err
		}
		if f.Method == zip.Deflate && len(data) == 0 {
			return nil, common.NewError(common.KindDecode, "inflate", common.ErrInflate)
		}
		return data, nil
	}

	return nil, common.ErrEntryNotFound
}
