package installer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crafted-tech/setupforge"
	"github.com/crafted-tech/setupforge/sfx"
)

type payloadMember struct {
	name string
	data []byte
}

// writePayload builds a payload-only archive file. A zero-length stub
// prefix is a valid installer image, which keeps these tests focused
// on extraction.
func writePayload(t *testing.T, m *setupforge.Manifest, members []payloadMember) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w, err := sfx.NewWriter(f, sfx.MethodStore)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := setupforge.EncodeManifest(&buf, m); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(setupforge.ManifestName, 0o644, int64(buf.Len()), &buf); err != nil {
		t.Fatal(err)
	}
	for _, member := range members {
		if err := w.Add(member.name, 0o755, int64(len(member.data)), bytes.NewReader(member.data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// openPayloadFile opens a built payload and consumes the manifest
// member, mirroring what OpenPayload does with the running stub.
func openPayloadFile(t *testing.T, path string) *sfx.Reader {
	t.Helper()
	r, err := sfx.Open(path)
	if err != nil {
		t.Fatalf("sfx.Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	hdr, err := r.Next()
	if err != nil {
		t.Fatalf("read manifest member: %v", err)
	}
	if hdr.Name != setupforge.ManifestName {
		t.Fatalf("first member = %q, want %q", hdr.Name, setupforge.ManifestName)
	}
	return r
}

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// extractManifest pairs the session test manifest with consistent
// payload contents.
func extractManifest() (*setupforge.Manifest, []payloadMember) {
	m := testManifest()
	members := []payloadMember{
		{name: "files/0000_app.exe", data: []byte("app-v1")},
		{name: "files/0001_readme.txt", data: []byte("readme")},
	}
	for i, member := range members {
		m.Files[i].Size = int64(len(member.data))
		m.Files[i].SHA256 = digestOf(member.data)
	}
	return m, members
}

func TestExtractPayload_StagesAndVerifies(t *testing.T) {
	m, members := extractManifest()
	path := writePayload(t, m, members)
	r := openPayloadFile(t, path)

	var seen []string
	dest := t.TempDir()
	staged, err := ExtractPayload(r, m, dest, func(name string) { seen = append(seen, name) })
	if err != nil {
		t.Fatalf("ExtractPayload: %v", err)
	}

	if len(staged) != 2 {
		t.Fatalf("staged %d members, want 2", len(staged))
	}
	for _, member := range members {
		p, ok := staged[member.name]
		if !ok {
			t.Fatalf("member %s not staged", member.name)
		}
		if !strings.HasPrefix(p, dest) {
			t.Errorf("staged path %s escapes destination", p)
		}
		got, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read staged file: %v", err)
		}
		if !bytes.Equal(got, member.data) {
			t.Errorf("staged %s = %q, want %q", member.name, got, member.data)
		}
	}
	if strings.Join(seen, ",") != "app.exe,readme.txt" {
		t.Errorf("progress names = %v", seen)
	}
}

func TestExtractPayload_DetectsCorruption(t *testing.T) {
	m, members := extractManifest()
	m.Files[0].SHA256 = digestOf([]byte("something else"))
	path := writePayload(t, m, members)
	r := openPayloadFile(t, path)

	_, err := ExtractPayload(r, m, t.TempDir(), nil)
	if err == nil || !strings.Contains(err.Error(), "corrupted") {
		t.Errorf("ExtractPayload = %v, want corruption error", err)
	}
}

func TestExtractPayload_SizeMismatch(t *testing.T) {
	m, members := extractManifest()
	m.Files[1].Size++
	path := writePayload(t, m, members)
	r := openPayloadFile(t, path)

	_, err := ExtractPayload(r, m, t.TempDir(), nil)
	if err == nil || !strings.Contains(err.Error(), "size") {
		t.Errorf("ExtractPayload = %v, want size error", err)
	}
}

func TestExtractPayload_UnexpectedMember(t *testing.T) {
	m, members := extractManifest()
	members = append(members, payloadMember{name: "files/9999_extra.bin", data: []byte("x")})
	path := writePayload(t, m, members)
	r := openPayloadFile(t, path)

	_, err := ExtractPayload(r, m, t.TempDir(), nil)
	if err == nil || !strings.Contains(err.Error(), "unexpected payload member") {
		t.Errorf("ExtractPayload = %v, want unexpected member error", err)
	}
}

func TestExtractPayload_MissingMember(t *testing.T) {
	m, members := extractManifest()
	path := writePayload(t, m, members[:1])
	r := openPayloadFile(t, path)

	_, err := ExtractPayload(r, m, t.TempDir(), nil)
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("ExtractPayload = %v, want missing member error", err)
	}
}
