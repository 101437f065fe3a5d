package sfx

import (
	"archive/tar"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// Reader iterates over the members of a payload attached to an
// executable.
type Reader struct {
	f      *os.File
	tr     *tar.Reader
	method Method
}

// Open locates the payload attached to the executable at path. It
// returns ErrNoPayload when the file carries none.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := newReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func newReader(f *os.File) (*Reader, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	method, start, length, err := findTrailer(f, info.Size())
	if err != nil {
		return nil, err
	}

	var src io.Reader = io.NewSectionReader(f, start, length)
	if method != MethodStore {
		xr, err := xz.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("sfx: open payload: %w", err)
		}
		src = xr
	}
	return &Reader{f: f, tr: tar.NewReader(src), method: method}, nil
}

// Method reports how the payload was compressed.
func (r *Reader) Method() Method {
	return r.method
}

// Next advances to the next member. It returns io.EOF after the last
// one.
func (r *Reader) Next() (*tar.Header, error) {
	return r.tr.Next()
}

// Read reads the current member's content.
func (r *Reader) Read(p []byte) (int, error) {
	return r.tr.Read(p)
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
