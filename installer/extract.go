package installer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/crafted-tech/setupforge"
	"github.com/crafted-tech/setupforge/sfx"
)

// OpenPayload opens the payload appended to the running executable
// and decodes its manifest, leaving the reader positioned before the
// first file member.
func OpenPayload() (*sfx.Reader, *setupforge.Manifest, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, nil, fmt.Errorf("locate executable: %w", err)
	}
	r, err := sfx.Open(exe)
	if err != nil {
		return nil, nil, err
	}
	hdr, err := r.Next()
	if err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("read payload: %w", err)
	}
	if hdr.Name != setupforge.ManifestName {
		r.Close()
		return nil, nil, fmt.Errorf("payload starts with %q, want %q", hdr.Name, setupforge.ManifestName)
	}
	m, err := setupforge.DecodeManifest(r)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, m, nil
}

// ExtractPayload unpacks the remaining payload members into destDir,
// verifying each against the manifest's size and digest. It returns
// the mapping from archive member name to extracted path. onFile,
// when set, receives each member's install name before it is written.
func ExtractPayload(r *sfx.Reader, m *setupforge.Manifest, destDir string, onFile func(name string)) (map[string]string, error) {
	want := make(map[string]*setupforge.PackedFile, len(m.Files))
	for i := range m.Files {
		want[m.Files[i].Archive] = &m.Files[i]
	}

	out := make(map[string]string, len(want))
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		pf, ok := want[hdr.Name]
		if !ok {
			return nil, fmt.Errorf("unexpected payload member %q", hdr.Name)
		}
		if strings.Contains(hdr.Name, "..") {
			return nil, fmt.Errorf("invalid payload member %q", hdr.Name)
		}
		if onFile != nil {
			onFile(pf.Name)
		}

		dst := filepath.Join(destDir, filepath.FromSlash(hdr.Name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return nil, fmt.Errorf("create staging directory: %w", err)
		}
		n, digest, err := writeVerified(dst, r, os.FileMode(hdr.Mode)&0o777)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", pf.Name, err)
		}
		if n != pf.Size {
			return nil, fmt.Errorf("payload member %q: size %d, want %d", hdr.Name, n, pf.Size)
		}
		if digest != pf.SHA256 {
			return nil, fmt.Errorf("payload member %q is corrupted", hdr.Name)
		}
		out[hdr.Name] = dst
	}

	for name, pf := range want {
		if _, ok := out[name]; !ok {
			return nil, fmt.Errorf("payload is missing %s (%s)", pf.Name, name)
		}
	}
	return out, nil
}

func writeVerified(dst string, r io.Reader, mode os.FileMode) (int64, string, error) {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return 0, "", err
	}
	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}
