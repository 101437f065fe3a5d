package setupforge

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// manifestFormat is bumped when the manifest layout changes in a way
// older stubs cannot read.
const manifestFormat = 1

// ManifestName is the archive member carrying the install manifest.
const ManifestName = "manifest.json"

// PackedFile is a file entry resolved against the build machine. The
// archive member name is assigned by the builder; Name is the base
// name the file installs under; size and digest describe the packed
// content. Version records the source's file version resource when
// the build host could read one.
type PackedFile struct {
	FileEntry
	Archive string `json:"archive"`
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	SHA256  string `json:"sha256"`
	Version string `json:"version,omitempty"`
}

// Manifest is everything the stub needs to drive an install: the
// setup directives plus the resolved file, shortcut, task, and run
// entries. It is serialized as the first member of the payload.
type Manifest struct {
	Format      int          `json:"format"`
	Setup       Setup        `json:"setup"`
	Files       []PackedFile `json:"files,omitempty"`
	Icons       []IconEntry  `json:"icons,omitempty"`
	Tasks       []TaskEntry  `json:"tasks,omitempty"`
	Run         []RunEntry   `json:"run,omitempty"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// EncodeManifest writes m as indented JSON.
func EncodeManifest(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// DecodeManifest reads a manifest and rejects formats this stub does
// not understand.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Format != manifestFormat {
		return nil, fmt.Errorf("unsupported manifest format %d", m.Format)
	}
	return &m, nil
}
