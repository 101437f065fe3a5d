package sfx

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/ulikunitz/xz"
)

// fastDictCap keeps the fast profile's memory footprint small on both
// sides. The maximal profile uses the library defaults so any reader
// accepts the stream.
const fastDictCap = 1 << 20

// Writer appends a payload to an already-written stub. Members are
// added in order; Close finishes the compression stream and writes the
// trailer.
type Writer struct {
	count  *countingWriter
	method Method
	xw     *xz.Writer
	tw     *tar.Writer
	closed bool
}

// countingWriter tracks how many compressed bytes reach the underlying
// writer so the trailer can record the payload length.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// NewWriter starts a payload on w. The caller must have written the
// stub executable to w already.
func NewWriter(w io.Writer, method Method) (*Writer, error) {
	sw := &Writer{count: &countingWriter{w: w}, method: method}
	var dst io.Writer = sw.count
	switch method {
	case MethodStore:
	case MethodFast:
		xw, err := xz.WriterConfig{DictCap: fastDictCap}.NewWriter(dst)
		if err != nil {
			return nil, fmt.Errorf("sfx: %w", err)
		}
		sw.xw = xw
		dst = xw
	case MethodMax:
		xw, err := xz.NewWriter(dst)
		if err != nil {
			return nil, fmt.Errorf("sfx: %w", err)
		}
		sw.xw = xw
		dst = xw
	default:
		return nil, fmt.Errorf("sfx: unknown method %d", byte(method))
	}
	sw.tw = tar.NewWriter(dst)
	return sw, nil
}

// Add writes one member. size must match the number of bytes r yields.
func (w *Writer) Add(name string, mode fs.FileMode, size int64, r io.Reader) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    int64(mode),
		Size:    size,
		ModTime: time.Now(),
		Format:  tar.FormatPAX,
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("sfx: add %s: %w", name, err)
	}
	n, err := io.Copy(w.tw, r)
	if err != nil {
		return fmt.Errorf("sfx: add %s: %w", name, err)
	}
	if n != size {
		return fmt.Errorf("sfx: add %s: wrote %d bytes, expected %d", name, n, size)
	}
	return nil
}

// Close flushes the archive and compression streams and writes the
// trailer. The underlying writer is not closed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.tw.Close(); err != nil {
		return fmt.Errorf("sfx: %w", err)
	}
	if w.xw != nil {
		if err := w.xw.Close(); err != nil {
			return fmt.Errorf("sfx: %w", err)
		}
	}
	if _, err := w.count.w.Write(encodeTrailer(w.method, w.count.n)); err != nil {
		return fmt.Errorf("sfx: write trailer: %w", err)
	}
	return nil
}
