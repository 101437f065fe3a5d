package setupforge

// Compression selects how the installer payload is packed.
type Compression int

const (
	CompressionNone    Compression = iota // store, no compression
	CompressionFast                       // xz with a small dictionary
	CompressionMaximal                    // xz with a large dictionary
)

// String returns the directive spelling of the compression mode.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionFast:
		return "fast"
	case CompressionMaximal:
		return "maximal"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so manifests stay readable.
func (c Compression) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(text []byte) error {
	mode, err := ParseCompression(string(text))
	if err != nil {
		return err
	}
	*c = mode
	return nil
}

// ParseCompression parses a Compression directive value.
// The legacy spellings "zip", "lzma" and "lzma2" are accepted as
// aliases for fast and maximal respectively.
func ParseCompression(s string) (Compression, error) {
	switch normalizeWord(s) {
	case "none":
		return CompressionNone, nil
	case "fast", "zip":
		return CompressionFast, nil
	case "maximal", "max", "lzma", "lzma2":
		return CompressionMaximal, nil
	default:
		return 0, &ConfigError{Msg: "unknown compression mode " + quote(s)}
	}
}

// PrivilegeLevel is the elevation class an install runs under.
type PrivilegeLevel int

const (
	PrivilegeAdmin  PrivilegeLevel = iota // per-machine install, requires elevation
	PrivilegeLowest                       // per-user install, no elevation
)

// String returns the directive spelling of the privilege level.
func (p PrivilegeLevel) String() string {
	switch p {
	case PrivilegeAdmin:
		return "admin"
	case PrivilegeLowest:
		return "lowest"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PrivilegeLevel) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PrivilegeLevel) UnmarshalText(text []byte) error {
	level, err := ParsePrivilegeLevel(string(text))
	if err != nil {
		return err
	}
	*p = level
	return nil
}

// ParsePrivilegeLevel parses a PrivilegesRequired directive value.
func ParsePrivilegeLevel(s string) (PrivilegeLevel, error) {
	switch normalizeWord(s) {
	case "admin":
		return PrivilegeAdmin, nil
	case "lowest":
		return PrivilegeLowest, nil
	default:
		return 0, &ConfigError{Msg: "unknown privilege level " + quote(s)}
	}
}

// Setup holds the [Setup] section directives.
type Setup struct {
	AppID              string         `json:"appId"`
	AppName            string         `json:"appName"`
	AppVersion         string         `json:"appVersion"`
	AppPublisher       string         `json:"appPublisher,omitempty"`
	DefaultDirName     string         `json:"defaultDirName"`
	DefaultGroupName   string         `json:"defaultGroupName,omitempty"`
	OutputBaseFilename string         `json:"outputBaseFilename"`
	Compression        Compression    `json:"compression"`
	SolidCompression   bool           `json:"solidCompression,omitempty"`
	PrivilegesRequired PrivilegeLevel `json:"privilegesRequired"`
	MinVersion         string         `json:"minVersion,omitempty"`
	CloseApplications  bool           `json:"closeApplications,omitempty"`
	SetupMutex         string         `json:"setupMutex,omitempty"`
	Uninstallable      bool           `json:"uninstallable"`
}

// RequiresAdmin reports whether the install needs elevation.
func (s *Setup) RequiresAdmin() bool {
	return s.PrivilegesRequired == PrivilegeAdmin
}

// FileFlags are the recognized [Files] row flags.
type FileFlags struct {
	// IgnoreVersion forces an unconditional overwrite of the
	// destination, regardless of existing version metadata.
	IgnoreVersion bool `json:"ignoreVersion,omitempty"`
}

// FileEntry is one [Files] manifest row.
type FileEntry struct {
	// Source is the payload file path, relative to the script directory
	// unless absolute. It may contain * and ? wildcards.
	Source string `json:"source"`

	// DestDir is the destination directory template, e.g. "{app}".
	DestDir string `json:"destDir"`

	Flags FileFlags `json:"flags,omitempty"`

	// Check is an optional boolean expression gating the entry.
	Check string `json:"check,omitempty"`
}

// IconEntry is one [Icons] shortcut row.
type IconEntry struct {
	// Name is the shortcut path template without the .lnk suffix,
	// e.g. `{group}\My App` or `{autodesktop}\My App`.
	Name string `json:"name"`

	// Filename is the shortcut target template, e.g. `{app}\app.exe`.
	Filename string `json:"filename"`

	// Parameters are optional arguments baked into the shortcut.
	Parameters string `json:"parameters,omitempty"`

	// WorkingDir is the optional start-in directory template.
	// Defaults to the target's directory.
	WorkingDir string `json:"workingDir,omitempty"`

	// Tasks gates the shortcut on user-selectable tasks. The shortcut
	// is created when at least one listed task is selected.
	Tasks []string `json:"tasks,omitempty"`

	// Check is an optional boolean expression gating the entry.
	Check string `json:"check,omitempty"`
}

// TaskEntry is one [Tasks] row: an optional install action the user can
// toggle. Selections live for the install session only.
type TaskEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// CheckedByDefault is the initial checkbox state. Rows carry
	// "Flags: unchecked" to start deselected.
	CheckedByDefault bool `json:"checkedByDefault"`
}

// RunFlags are the recognized [Run] row flags.
type RunFlags struct {
	// NoWait launches the process without waiting for it to exit.
	NoWait bool `json:"noWait,omitempty"`

	// PostInstall marks the entry as a post-install action, offered to
	// the user after a successful install.
	PostInstall bool `json:"postInstall,omitempty"`

	// SkipIfSilent suppresses the entry on unattended runs.
	SkipIfSilent bool `json:"skipIfSilent,omitempty"`
}

// RunEntry is one [Run] row.
type RunEntry struct {
	// Filename is the target executable template, e.g. `{app}\app.exe`.
	Filename string `json:"filename"`

	// Parameters are optional command-line arguments.
	Parameters string `json:"parameters,omitempty"`

	// Description is the label shown when the entry is offered.
	Description string `json:"description,omitempty"`

	Flags RunFlags `json:"flags,omitempty"`

	// Check is an optional boolean expression gating the entry.
	Check string `json:"check,omitempty"`
}

// Script is a parsed setup script: the [Setup] directives plus the four
// ordered manifests. It is immutable once parsed.
type Script struct {
	Setup Setup       `json:"setup"`
	Files []FileEntry `json:"files,omitempty"`
	Icons []IconEntry `json:"icons,omitempty"`
	Tasks []TaskEntry `json:"tasks,omitempty"`
	Run   []RunEntry  `json:"run,omitempty"`
}

// FindTask returns the task with the given name, or nil.
func (s *Script) FindTask(name string) *TaskEntry {
	for i := range s.Tasks {
		if equalFold(s.Tasks[i].Name, name) {
			return &s.Tasks[i]
		}
	}
	return nil
}

// defaultSetup returns the directive defaults applied before parsing.
func defaultSetup() Setup {
	return Setup{
		OutputBaseFilename: "setup",
		Compression:        CompressionMaximal,
		PrivilegesRequired: PrivilegeAdmin,
		Uninstallable:      true,
	}
}
