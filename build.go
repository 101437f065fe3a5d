package setupforge

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/crafted-tech/setupforge/platform"
	"github.com/crafted-tech/setupforge/sfx"
)

// BuildResult describes a finished installer.
type BuildResult struct {
	OutputPath  string    // Path of the installer executable
	Manifest    *Manifest // Manifest embedded in the payload
	StubSize    int64     // Bytes of the stub executable
	PayloadSize int64     // Bytes appended after the stub, trailer included
}

// Build compiles a setup script into a self-contained installer. The
// script is parsed and validated, source files are resolved relative
// to the script's directory, and the compressed payload is appended
// to a copy of the stub executable.
func Build(scriptPath string, opts ...Option) (*BuildResult, error) {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.StubPath == "" {
		return nil, errors.New("no stub executable configured")
	}
	if _, err := os.Stat(cfg.StubPath); err != nil {
		return nil, fmt.Errorf("stub executable: %w", err)
	}

	script, err := ParseScriptFile(scriptPath)
	if err != nil {
		return nil, err
	}
	if err := Validate(script); err != nil {
		return nil, err
	}

	setup := script.Setup
	if setup.AppID == "" {
		setup.AppID = setup.AppName
	}
	// The manifest carries the expanded AppId, so a script's {{GUID}
	// spelling lands in the registry as {GUID}.
	appID, err := ExpandConstants(setup.AppID, func(name string) (string, error) {
		return "", &ConfigError{Msg: fmt.Sprintf("constant {%s} is not allowed in AppId", name)}
	})
	if err != nil {
		return nil, err
	}
	setup.AppID = appID

	baseDir := filepath.Dir(scriptPath)
	sources, err := resolveSources(baseDir, script.Files)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Format:      manifestFormat,
		Setup:       setup,
		Icons:       script.Icons,
		Tasks:       script.Tasks,
		Run:         script.Run,
		GeneratedAt: time.Now().UTC(),
	}
	for _, src := range sources {
		manifest.Files = append(manifest.Files, src.PackedFile)
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = baseDir
	}
	baseName := cfg.OutputName
	if baseName == "" {
		baseName = setup.OutputBaseFilename
	}
	outPath := filepath.Join(outDir, baseName+".exe")

	stubSize, payloadSize, err := writeInstaller(outPath, cfg.StubPath, manifest, sources)
	if err != nil {
		return nil, err
	}
	return &BuildResult{
		OutputPath:  outPath,
		Manifest:    manifest,
		StubSize:    stubSize,
		PayloadSize: payloadSize,
	}, nil
}

// sourceFile pairs a manifest entry with the build-machine path it was
// resolved from.
type sourceFile struct {
	PackedFile
	path string
	mode fs.FileMode
}

// resolveSources expands each file entry against the build machine.
// Relative sources are resolved against the script directory; sources
// containing wildcards expand to every match.
func resolveSources(baseDir string, entries []FileEntry) ([]sourceFile, error) {
	var out []sourceFile
	for _, entry := range entries {
		pattern := hostPath(baseDir, entry.Source)
		wildcard := strings.ContainsAny(entry.Source, "*?[")

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, &ConfigError{Msg: fmt.Sprintf("bad source pattern %s", quote(entry.Source))}
		}
		if len(matches) == 0 {
			if wildcard {
				return nil, fmt.Errorf("no files match source %s", quote(entry.Source))
			}
			return nil, fmt.Errorf("source file %s: %w", quote(entry.Source), fs.ErrNotExist)
		}
		sort.Strings(matches)

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}
			if info.IsDir() {
				if wildcard {
					continue
				}
				return nil, fmt.Errorf("source %s is a directory", quote(entry.Source))
			}

			digest, err := hashFile(match)
			if err != nil {
				return nil, err
			}
			packed := PackedFile{
				FileEntry: entry,
				Archive:   fmt.Sprintf("files/%04d_%s", len(out), filepath.Base(match)),
				Name:      filepath.Base(match),
				Size:      info.Size(),
				SHA256:    digest,
			}
			if v, err := platform.FileVersion(match); err == nil {
				packed.Version = v
			}
			out = append(out, sourceFile{
				PackedFile: packed,
				path:       match,
				mode:       info.Mode().Perm(),
			})
		}
	}
	return out, nil
}

// hostPath converts a script-style path, which may use backslashes, to
// a build-machine path rooted at the script directory.
func hostPath(baseDir, p string) string {
	p = filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// writeInstaller copies the stub and appends the payload: the manifest
// first, then every resolved file.
func writeInstaller(outPath, stubPath string, manifest *Manifest, sources []sourceFile) (stubSize, payloadSize int64, err error) {
	stub, err := os.Open(stubPath)
	if err != nil {
		return 0, 0, fmt.Errorf("stub executable: %w", err)
	}
	defer stub.Close()

	out, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(outPath)
		}
	}()

	stubSize, err = io.Copy(out, stub)
	if err != nil {
		return 0, 0, fmt.Errorf("copy stub: %w", err)
	}

	w, err := sfx.NewWriter(out, methodFor(manifest.Setup.Compression))
	if err != nil {
		return 0, 0, err
	}

	var buf bytes.Buffer
	if err = EncodeManifest(&buf, manifest); err != nil {
		return 0, 0, err
	}
	if err = w.Add(ManifestName, 0o644, int64(buf.Len()), &buf); err != nil {
		return 0, 0, err
	}
	for _, src := range sources {
		if err = addSource(w, src); err != nil {
			return 0, 0, err
		}
	}
	if err = w.Close(); err != nil {
		return 0, 0, err
	}
	if err = out.Close(); err != nil {
		return 0, 0, err
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return 0, 0, err
	}
	return stubSize, info.Size() - stubSize, nil
}

func addSource(w *sfx.Writer, src sourceFile) error {
	f, err := os.Open(src.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return w.Add(src.Archive, src.mode, src.Size, f)
}

// methodFor maps the script's compression directive to a payload
// method.
func methodFor(c Compression) sfx.Method {
	switch c {
	case CompressionNone:
		return sfx.MethodStore
	case CompressionFast:
		return sfx.MethodFast
	default:
		return sfx.MethodMax
	}
}
