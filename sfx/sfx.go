// Package sfx appends a named-member payload to an executable and
// reads it back from the running binary. The payload is a tar stream,
// optionally xz-compressed, followed by a fixed-size trailer that
// records the payload length so the reader can find it without any
// knowledge of the stub's size. Data appended after the trailer, such
// as an Authenticode signature, is tolerated: the reader scans the
// tail of the file for the trailer magic.
package sfx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Method selects how the payload is compressed.
type Method byte

const (
	MethodStore Method = iota // No compression
	MethodFast                // xz with a small dictionary, fast to pack
	MethodMax                 // xz tuned for size
)

func (m Method) String() string {
	switch m {
	case MethodStore:
		return "store"
	case MethodFast:
		return "xz-fast"
	case MethodMax:
		return "xz-max"
	default:
		return fmt.Sprintf("method(%d)", byte(m))
	}
}

// ErrNoPayload is returned when the tail of the file carries no
// payload trailer, i.e. the executable is a bare stub.
var ErrNoPayload = errors.New("sfx: no payload trailer found")

// Trailer layout, 24 bytes at the end of the payload:
//
//	[0:2]   uint16 LE format version
//	[2]     method byte
//	[3:8]   reserved, zero
//	[8:16]  uint64 LE payload length, trailer excluded
//	[16:24] magic "SFORGE01"
const (
	formatVersion = 1
	trailerSize   = 24
	magicOffset   = 16
	tailWindow    = 64 * 1024
)

var magicBytes = []byte("SFORGE01")

func encodeTrailer(method Method, payloadLen int64) []byte {
	t := make([]byte, trailerSize)
	binary.LittleEndian.PutUint16(t[0:2], formatVersion)
	t[2] = byte(method)
	binary.LittleEndian.PutUint64(t[8:16], uint64(payloadLen))
	copy(t[magicOffset:], magicBytes)
	return t
}

// findTrailer scans the last tailWindow bytes of the file for the
// trailer magic, newest occurrence first, and returns the method plus
// the payload's offset and length. Candidates whose fields do not
// validate are skipped so magic bytes inside the payload or a trailing
// signature cannot fool the scan.
func findTrailer(ra io.ReaderAt, size int64) (Method, int64, int64, error) {
	window := int64(tailWindow)
	if size < window {
		window = size
	}
	if window < trailerSize {
		return 0, 0, 0, ErrNoPayload
	}
	buf := make([]byte, window)
	if _, err := ra.ReadAt(buf, size-window); err != nil {
		return 0, 0, 0, err
	}

	for hi := len(buf); hi >= trailerSize; {
		idx := bytes.LastIndex(buf[:hi], magicBytes)
		if idx < 0 {
			break
		}
		hi = idx
		start := idx - magicOffset
		if start < 0 || start+trailerSize > len(buf) {
			continue
		}
		t := buf[start : start+trailerSize]
		version := binary.LittleEndian.Uint16(t[0:2])
		method := Method(t[2])
		length := int64(binary.LittleEndian.Uint64(t[8:16]))
		trailerOff := size - window + int64(start)
		if version != formatVersion || method > MethodMax {
			continue
		}
		if length < 0 || length > trailerOff {
			continue
		}
		return method, trailerOff - length, length, nil
	}
	return 0, 0, 0, ErrNoPayload
}
