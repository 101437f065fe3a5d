package sfx

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type member struct {
	name string
	data []byte
}

// writeTestExe writes a fake stub followed by a payload holding the
// given members.
func writeTestExe(t *testing.T, path string, method Method, stub []byte, members []member) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(stub); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	w, err := NewWriter(f, method)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	for _, m := range members {
		if err := w.Add(m.name, 0o644, int64(len(m.data)), bytes.NewReader(m.data)); err != nil {
			t.Fatalf("Add %s: %v", m.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// readAll drains every member of an opened payload.
func readAll(t *testing.T, r *Reader) []member {
	t.Helper()
	var out []member
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("read %s: %v", hdr.Name, err)
		}
		out = append(out, member{name: hdr.Name, data: data})
	}
}

func TestRoundTrip_AllMethods(t *testing.T) {
	stub := bytes.Repeat([]byte{0x4D, 0x5A, 0x90, 0x00}, 1024)
	members := []member{
		{name: "manifest.json", data: []byte(`{"format":1}`)},
		{name: "files/0000_app.exe", data: bytes.Repeat([]byte("payload"), 4096)},
	}

	for _, method := range []Method{MethodStore, MethodFast, MethodMax} {
		t.Run(method.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "setup.exe")
			writeTestExe(t, path, method, stub, members)

			r, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer r.Close()

			if r.Method() != method {
				t.Errorf("method = %v, want %v", r.Method(), method)
			}
			got := readAll(t, r)
			if len(got) != len(members) {
				t.Fatalf("got %d members, want %d", len(got), len(members))
			}
			for i := range members {
				if got[i].name != members[i].name {
					t.Errorf("member %d name = %q, want %q", i, got[i].name, members[i].name)
				}
				if !bytes.Equal(got[i].data, members[i].data) {
					t.Errorf("member %d content differs", i)
				}
			}
		})
	}
}

func TestOpen_BareStub(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stub.exe")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xCC}, 8192), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, ErrNoPayload) {
		t.Errorf("Open = %v, want ErrNoPayload", err)
	}
}

func TestOpen_TinyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.exe")
	if err := os.WriteFile(path, []byte("MZ"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, ErrNoPayload) {
		t.Errorf("Open = %v, want ErrNoPayload", err)
	}
}

// A signature appended after the trailer must not hide the payload.
func TestOpen_TrailingSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signed.exe")
	writeTestExe(t, path, MethodFast, []byte("stub"), []member{
		{name: "manifest.json", data: []byte(`{"format":1}`)},
	})
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(bytes.Repeat([]byte{0xAB}, 2048)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open after append: %v", err)
	}
	defer r.Close()
	got := readAll(t, r)
	if len(got) != 1 || got[0].name != "manifest.json" {
		t.Fatalf("unexpected members: %+v", got)
	}
}

// Magic bytes inside a stored member must not be mistaken for the
// trailer.
func TestOpen_MagicInsidePayload(t *testing.T) {
	decoy := append([]byte("before "), magicBytes...)
	decoy = append(decoy, []byte(" after")...)

	path := filepath.Join(t.TempDir(), "decoy.exe")
	writeTestExe(t, path, MethodStore, []byte("stub"), []member{
		{name: "decoy.bin", data: decoy},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	got := readAll(t, r)
	if len(got) != 1 {
		t.Fatalf("got %d members, want 1", len(got))
	}
	if !bytes.Equal(got[0].data, decoy) {
		t.Error("decoy content differs")
	}
}

func TestOpen_TruncatedTrailer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.exe")
	writeTestExe(t, path, MethodStore, []byte("stub"), []member{
		{name: "a", data: []byte("aaaa")},
	})
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Truncate(path, info.Size()-4); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, ErrNoPayload) {
		t.Errorf("Open = %v, want ErrNoPayload", err)
	}
}

func TestAdd_SizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, MethodStore)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Add("short", 0o644, 100, strings.NewReader("only a few bytes"))
	if err == nil {
		t.Fatal("Add with short reader succeeded")
	}
}
