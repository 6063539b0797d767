// -----------------------------------------------------------------------
// Local file header scan - locate one ZIP entry without the central directory
// -----------------------------------------------------------------------

package docx

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ternarybob/pdfdeck/internal/common"
)

const (
	localHeaderSignature = 0x04034b50
	localHeaderSize      = 30

	flagDataDescriptor = 0x0008

	methodStored  = 0
	methodDeflate = 8
)

// LocalFileHeader is the subset of a ZIP local file header the scanner reads
type LocalFileHeader struct {
	Offset           int // position of the signature in the buffer
	Flags            uint16
	Method           uint16
	CompressedSize   uint32
	UncompressedSize uint32
	Name             string
	DataOffset       int // first byte of the entry data
}

func (h *LocalFileHeader) hasDataDescriptor() bool {
	return h.Flags&flagDataDescriptor != 0
}

// entryMatches reports whether an archive entry name refers to name, either
// exactly or as a nested path ending in "/"+name
func entryMatches(entryName, name string) bool {
	return entryName == name || strings.HasSuffix(entryName, "/"+name)
}

// ScanLocalEntry walks buf forward looking for the local file header of name
// and returns its header with the decoded entry bytes
func ScanLocalEntry(buf []byte, name string) (*LocalFileHeader, []byte, error) {
	return scanLocalEntry(buf, name, 0)
}

func scanLocalEntry(buf []byte, name string, limit int64) (*LocalFileHeader, []byte, error) {
	pos := 0
	for pos+localHeaderSize <= len(buf) {
		if binary.LittleEndian.Uint32(buf[pos:]) != localHeaderSignature {
			pos++
			continue
		}

		header, ok := parseLocalHeader(buf, pos)
		if !ok {
			// Truncated header; keep looking in case the signature was data
			pos++
			continue
		}

		if !entryMatches(header.Name, name) {
			if header.hasDataDescriptor() && header.CompressedSize == 0 {
				// Size lives in the trailing descriptor; resync on the next signature
				pos = header.DataOffset
				continue
			}
			pos = header.DataOffset + int(header.CompressedSize)
			continue
		}

		data, err := readLocalEntry(buf, header, limit)
		if err != nil {
			return header, nil, err
		}
		return header, data, nil
	}

	return nil, nil, common.NewError(common.KindInput, "scan zip", fmt.Errorf("%w: %s", common.ErrEntryNotFound, name))
}

func parseLocalHeader(buf []byte, pos int) (*LocalFileHeader, bool) {
	h := buf[pos:]
	nameLen := int(binary.LittleEndian.Uint16(h[26:]))
	extraLen := int(binary.LittleEndian.Uint16(h[28:]))

	nameStart := pos + localHeaderSize
	dataOffset := nameStart + nameLen + extraLen
	if dataOffset > len(buf) {
		return nil, false
	}

	return &LocalFileHeader{
		Offset:           pos,
		Flags:            binary.LittleEndian.Uint16(h[6:]),
		Method:           binary.LittleEndian.Uint16(h[8:]),
		CompressedSize:   binary.LittleEndian.Uint32(h[18:]),
		UncompressedSize: binary.LittleEndian.Uint32(h[22:]),
		Name:             string(buf[nameStart : nameStart+nameLen]),
		DataOffset:       dataOffset,
	}, true
}

func readLocalEntry(buf []byte, header *LocalFileHeader, limit int64) ([]byte, error) {
	streaming := header.hasDataDescriptor() && header.CompressedSize == 0

	var raw []byte
	if streaming {
		// A deflate stream marks its own end; trailing bytes are ignored
		raw = buf[header.DataOffset:]
	} else {
		end := header.DataOffset + int(header.CompressedSize)
		if end > len(buf) {
			return nil, common.NewError(common.KindInput, "scan zip",
				fmt.Errorf("%w: %s is truncated", common.ErrEntryNotFound, header.Name))
		}
		raw = buf[header.DataOffset:end]
	}

	switch header.Method {
	case methodStored:
		if streaming {
			return nil, common.NewError(common.KindInput, "scan zip",
				fmt.Errorf("%w: stored entry %s has no size", common.ErrUnsupportedCompression, header.Name))
		}
		return raw, nil
	case methodDeflate:
		return Inflate(raw, limit)
	default:
		return nil, common.NewError(common.KindInput, "scan zip",
			fmt.Errorf("%w: method %d for %s", common.ErrUnsupportedCompression, header.Method, header.Name))
	}
}
