package setupforge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Script sections. Section names are case-insensitive.
const (
	sectionNone  = ""
	sectionSetup = "setup"
	sectionFiles = "files"
	sectionIcons = "icons"
	sectionTasks = "tasks"
	sectionRun   = "run"
)

// ParseScriptFile parses the setup script at path.
func ParseScriptFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	script, err := ParseScript(f)
	if err != nil {
		if ce, ok := err.(*ConfigError); ok {
			ce.Path = path
		}
		return nil, err
	}
	return script, nil
}

// ParseScript parses a setup script from r. The format is section-based:
// [Setup] holds Key=value directives, the manifest sections hold
// parameter rows of the form `Key: value; Key: value`. Values may be
// double-quoted with "" escaping an embedded quote. Lines starting with
// ";" are comments.
//
// Parsing is strict: unknown sections, directives, parameters and flags
// are errors. Cross-reference rules are checked separately by Validate.
func ParseScript(r io.Reader) (*Script, error) {
	script := &Script{Setup: defaultSetup()}
	seen := make(map[string]int) // directive -> line, for duplicate detection

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	section := sectionNone
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			name, err := parseSectionHeader(line, lineNo)
			if err != nil {
				return nil, err
			}
			section = name
			continue
		}

		switch section {
		case sectionNone:
			return nil, configErrf(lineNo, "content before first section header")
		case sectionSetup:
			if err := parseSetupDirective(&script.Setup, seen, line, lineNo); err != nil {
				return nil, err
			}
		case sectionFiles:
			entry, err := parseFileRow(line, lineNo)
			if err != nil {
				return nil, err
			}
			script.Files = append(script.Files, *entry)
		case sectionIcons:
			entry, err := parseIconRow(line, lineNo)
			if err != nil {
				return nil, err
			}
			script.Icons = append(script.Icons, *entry)
		case sectionTasks:
			entry, err := parseTaskRow(line, lineNo)
			if err != nil {
				return nil, err
			}
			script.Tasks = append(script.Tasks, *entry)
		case sectionRun:
			entry, err := parseRunRow(line, lineNo)
			if err != nil {
				return nil, err
			}
			script.Run = append(script.Run, *entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	return script, nil
}

func parseSectionHeader(line string, lineNo int) (string, error) {
	if !strings.HasSuffix(line, "]") {
		return "", configErrf(lineNo, "malformed section header %s", quote(line))
	}
	name := normalizeWord(line[1 : len(line)-1])
	switch name {
	case sectionSetup, sectionFiles, sectionIcons, sectionTasks, sectionRun:
		return name, nil
	default:
		return "", configErrf(lineNo, "unknown section [%s]", name)
	}
}

// parseSetupDirective handles one Key=value line in [Setup].
func parseSetupDirective(setup *Setup, seen map[string]int, line string, lineNo int) error {
	eq := strings.IndexByte(line, '=')
	if eq <= 0 {
		return configErrf(lineNo, "expected Key=value directive, got %s", quote(line))
	}
	key := normalizeWord(line[:eq])
	value := strings.TrimSpace(line[eq+1:])

	if prev, dup := seen[key]; dup {
		return configErrf(lineNo, "duplicate directive %s (first set on line %d)", quote(key), prev)
	}
	seen[key] = lineNo

	var err error
	switch key {
	case "appid":
		setup.AppID = value
	case "appname":
		setup.AppName = value
	case "appversion":
		setup.AppVersion = value
	case "apppublisher":
		setup.AppPublisher = value
	case "defaultdirname":
		setup.DefaultDirName = value
	case "defaultgroupname":
		setup.DefaultGroupName = value
	case "outputbasefilename":
		setup.OutputBaseFilename = value
	case "compression":
		setup.Compression, err = ParseCompression(value)
	case "solidcompression":
		setup.SolidCompression, err = parseBoolDirective(value)
	case "privilegesrequired":
		setup.PrivilegesRequired, err = ParsePrivilegeLevel(value)
	case "minversion":
		setup.MinVersion = value
	case "closeapplications":
		setup.CloseApplications, err = parseBoolDirective(value)
	case "setupmutex":
		setup.SetupMutex = value
	case "uninstallable":
		setup.Uninstallable, err = parseBoolDirective(value)
	default:
		return configErrf(lineNo, "unknown [Setup] directive %s", quote(key))
	}
	if err != nil {
		return configErrf(lineNo, "%s: %v", key, err)
	}
	return nil
}

func parseBoolDirective(value string) (bool, error) {
	switch normalizeWord(value) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes or no, got %s", quote(value))
	}
}

// rowParam is one `Key: value` pair of a manifest row.
type rowParam struct {
	key   string
	value string
}

// parseRowParams splits a manifest row into ordered parameters. Values
// may be double-quoted; inside quotes, "" stands for a literal quote and
// ";" loses its separator meaning.
func parseRowParams(line string, lineNo int) ([]rowParam, error) {
	var params []rowParam
	pos := 0

	for pos < len(line) {
		// Parameter name up to the colon.
		colon := strings.IndexByte(line[pos:], ':')
		if colon < 0 {
			return nil, configErrf(lineNo, "expected \"Name: value\" parameter near %s", quote(strings.TrimSpace(line[pos:])))
		}
		key := normalizeWord(line[pos : pos+colon])
		if key == "" || strings.ContainsAny(key, `";`) {
			return nil, configErrf(lineNo, "malformed parameter name %s", quote(key))
		}
		pos += colon + 1

		for pos < len(line) && line[pos] == ' ' {
			pos++
		}

		var value string
		if pos < len(line) && line[pos] == '"' {
			quoted, next, err := scanQuoted(line, pos, lineNo)
			if err != nil {
				return nil, err
			}
			value = quoted
			pos = next
			for pos < len(line) && line[pos] == ' ' {
				pos++
			}
			if pos < len(line) && line[pos] != ';' {
				return nil, configErrf(lineNo, "unexpected text after closing quote: %s", quote(line[pos:]))
			}
		} else {
			end := strings.IndexByte(line[pos:], ';')
			if end < 0 {
				end = len(line) - pos
			}
			value = strings.TrimSpace(line[pos : pos+end])
			pos += end
		}

		if pos < len(line) && line[pos] == ';' {
			pos++
			for pos < len(line) && line[pos] == ' ' {
				pos++
			}
		}

		params = append(params, rowParam{key: key, value: value})
	}

	if len(params) == 0 {
		return nil, configErrf(lineNo, "empty manifest row")
	}
	return params, nil
}

// scanQuoted reads a double-quoted value starting at line[start]=='"'.
// Returns the unescaped value and the position after the closing quote.
func scanQuoted(line string, start, lineNo int) (string, int, error) {
	var b strings.Builder
	i := start + 1
	for i < len(line) {
		c := line[i]
		if c == '"' {
			if i+1 < len(line) && line[i+1] == '"' {
				b.WriteByte('"')
				i += 2
				continue
			}
			return b.String(), i + 1, nil
		}
		b.WriteByte(c)
		i++
	}
	return "", 0, configErrf(lineNo, "unterminated quoted value")
}

// rowFields collects the parameters of one row with duplicate checking.
type rowFields struct {
	lineNo int
	values map[string]string
}

func newRowFields(line string, lineNo int, allowed map[string]bool) (*rowFields, error) {
	params, err := parseRowParams(line, lineNo)
	if err != nil {
		return nil, err
	}
	rf := &rowFields{lineNo: lineNo, values: make(map[string]string, len(params))}
	for _, p := range params {
		if !allowed[p.key] {
			return nil, configErrf(lineNo, "unknown parameter %s", quote(p.key))
		}
		if _, dup := rf.values[p.key]; dup {
			return nil, configErrf(lineNo, "duplicate parameter %s", quote(p.key))
		}
		rf.values[p.key] = p.value
	}
	return rf, nil
}

func (rf *rowFields) get(key string) string {
	return rf.values[key]
}

func (rf *rowFields) require(key string) (string, error) {
	v, ok := rf.values[key]
	if !ok || v == "" {
		return "", configErrf(rf.lineNo, "missing required parameter %s", quote(key))
	}
	return v, nil
}

// flagWords splits a Flags value into normalized words.
func flagWords(value string) []string {
	fields := strings.Fields(value)
	for i, f := range fields {
		fields[i] = normalizeWord(f)
	}
	return fields
}

// nameList splits a task list on commas and whitespace.
func nameList(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return fields
}

var fileRowParams = map[string]bool{
	"source": true, "destdir": true, "flags": true, "check": true,
}

func parseFileRow(line string, lineNo int) (*FileEntry, error) {
	rf, err := newRowFields(line, lineNo, fileRowParams)
	if err != nil {
		return nil, err
	}
	entry := &FileEntry{Check: rf.get("check")}
	if entry.Source, err = rf.require("source"); err != nil {
		return nil, err
	}
	if entry.DestDir, err = rf.require("destdir"); err != nil {
		return nil, err
	}
	for _, flag := range flagWords(rf.get("flags")) {
		switch flag {
		case "ignoreversion":
			entry.Flags.IgnoreVersion = true
		default:
			return nil, configErrf(lineNo, "unknown [Files] flag %s", quote(flag))
		}
	}
	return entry, nil
}

var iconRowParams = map[string]bool{
	"name": true, "filename": true, "parameters": true,
	"workingdir": true, "tasks": true, "check": true,
}

func parseIconRow(line string, lineNo int) (*IconEntry, error) {
	rf, err := newRowFields(line, lineNo, iconRowParams)
	if err != nil {
		return nil, err
	}
	entry := &IconEntry{
		Parameters: rf.get("parameters"),
		WorkingDir: rf.get("workingdir"),
		Check:      rf.get("check"),
	}
	if entry.Name, err = rf.require("name"); err != nil {
		return nil, err
	}
	if entry.Filename, err = rf.require("filename"); err != nil {
		return nil, err
	}
	if tasks := rf.get("tasks"); tasks != "" {
		entry.Tasks = nameList(tasks)
	}
	return entry, nil
}

var taskRowParams = map[string]bool{
	"name": true, "description": true, "flags": true,
}

func parseTaskRow(line string, lineNo int) (*TaskEntry, error) {
	rf, err := newRowFields(line, lineNo, taskRowParams)
	if err != nil {
		return nil, err
	}
	entry := &TaskEntry{CheckedByDefault: true}
	if entry.Name, err = rf.require("name"); err != nil {
		return nil, err
	}
	if entry.Description, err = rf.require("description"); err != nil {
		return nil, err
	}
	if !isIdentifier(entry.Name) {
		return nil, configErrf(lineNo, "task name %s must be an identifier", quote(entry.Name))
	}
	for _, flag := range flagWords(rf.get("flags")) {
		switch flag {
		case "unchecked":
			entry.CheckedByDefault = false
		default:
			return nil, configErrf(lineNo, "unknown [Tasks] flag %s", quote(flag))
		}
	}
	return entry, nil
}

var runRowParams = map[string]bool{
	"filename": true, "parameters": true, "description": true,
	"flags": true, "check": true,
}

func parseRunRow(line string, lineNo int) (*RunEntry, error) {
	rf, err := newRowFields(line, lineNo, runRowParams)
	if err != nil {
		return nil, err
	}
	entry := &RunEntry{
		Parameters:  rf.get("parameters"),
		Description: rf.get("description"),
		Check:       rf.get("check"),
	}
	if entry.Filename, err = rf.require("filename"); err != nil {
		return nil, err
	}
	for _, flag := range flagWords(rf.get("flags")) {
		switch flag {
		case "nowait":
			entry.Flags.NoWait = true
		case "postinstall":
			entry.Flags.PostInstall = true
		case "skipifsilent":
			entry.Flags.SkipIfSilent = true
		default:
			return nil, configErrf(lineNo, "unknown [Run] flag %s", quote(flag))
		}
	}
	return entry, nil
}

// isIdentifier reports whether s is a letter followed by letters,
// digits or underscores. Task names feed check expressions, so they
// keep to identifier syntax.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
