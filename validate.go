package setupforge

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"gopkg.in/Knetic/govaluate.v3"
)

// Validate checks a parsed script for consistency. It enforces the
// cross-reference rules the parser cannot see: every shortcut target
// must correspond to a file manifest entry's resulting install path,
// every task a shortcut names must exist, and every check expression
// must compile. Problems are reported as ConfigError.
func Validate(script *Script) error {
	if err := validateSetup(&script.Setup, script); err != nil {
		return err
	}
	if err := validateTasks(script.Tasks); err != nil {
		return err
	}
	if err := validateFiles(script); err != nil {
		return err
	}
	if err := validateIcons(script); err != nil {
		return err
	}
	if err := validateRun(script); err != nil {
		return err
	}
	return nil
}

func validateSetup(setup *Setup, script *Script) error {
	if setup.AppName == "" {
		return &ConfigError{Msg: "[Setup] AppName is required"}
	}
	if setup.AppVersion == "" {
		return &ConfigError{Msg: "[Setup] AppVersion is required"}
	}
	if setup.AppID != "" {
		if err := checkAppID(setup.AppID); err != nil {
			return &ConfigError{Msg: fmt.Sprintf("AppId: %v", err)}
		}
	}
	if setup.DefaultDirName == "" {
		return &ConfigError{Msg: "[Setup] DefaultDirName is required"}
	}
	if err := CheckConstants(setup.DefaultDirName); err != nil {
		return &ConfigError{Msg: fmt.Sprintf("DefaultDirName: %v", err)}
	}
	if setup.MinVersion != "" {
		if err := checkMinVersion(setup.MinVersion); err != nil {
			return &ConfigError{Msg: fmt.Sprintf("MinVersion: %v", err)}
		}
	}

	// {group} needs a group name to resolve against.
	if setup.DefaultGroupName == "" {
		for _, icon := range script.Icons {
			if usesGroupConstant(icon.Name) || usesGroupConstant(icon.Filename) {
				return &ConfigError{Msg: "[Setup] DefaultGroupName is required when {group} is used"}
			}
		}
	}
	return nil
}

func usesGroupConstant(template string) bool {
	return strings.Contains(strings.ToLower(template), "{"+ConstGroup+"}")
}

// checkAppID rejects path constants in AppId. The doubled-brace escape
// for a literal "{" is the only brace form allowed, so the customary
// AppId={{GUID} spelling passes.
func checkAppID(id string) error {
	_, err := ExpandConstants(id, func(name string) (string, error) {
		return "", fmt.Errorf("constant {%s} is not allowed", name)
	})
	return err
}

// checkMinVersion accepts "major[.minor[.build]]" with numeric parts.
func checkMinVersion(v string) error {
	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		return fmt.Errorf("expected major[.minor[.build]], got %s", quote(v))
	}
	for _, p := range parts {
		if _, err := strconv.ParseUint(p, 10, 32); err != nil {
			return fmt.Errorf("non-numeric version part %s", quote(p))
		}
	}
	return nil
}

func validateTasks(tasks []TaskEntry) error {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if !isIdentifier(t.Name) {
			return &ConfigError{Msg: fmt.Sprintf("invalid task name %s", quote(t.Name))}
		}
		name := strings.ToLower(t.Name)
		if seen[name] {
			return &ConfigError{Msg: fmt.Sprintf("duplicate task %s", quote(t.Name))}
		}
		seen[name] = true
	}
	return nil
}

func validateFiles(script *Script) error {
	for i, f := range script.Files {
		if err := CheckConstants(f.DestDir); err != nil {
			return &ConfigError{Msg: fmt.Sprintf("[Files] entry %d: %v", i+1, err)}
		}
		if strings.ContainsAny(f.DestDir, "*?") {
			return &ConfigError{Msg: fmt.Sprintf("[Files] entry %d: DestDir must not contain wildcards", i+1)}
		}
		if err := checkExpression(f.Check, script); err != nil {
			return &ConfigError{Msg: fmt.Sprintf("[Files] entry %d: %v", i+1, err)}
		}
	}
	return nil
}

func validateIcons(script *Script) error {
	for i, icon := range script.Icons {
		for _, template := range []string{icon.Name, icon.Filename, icon.WorkingDir} {
			if template == "" {
				continue
			}
			if err := CheckConstants(template); err != nil {
				return &ConfigError{Msg: fmt.Sprintf("[Icons] entry %d: %v", i+1, err)}
			}
		}
		if !targetInManifest(icon.Filename, script.Files) {
			return &ConfigError{Msg: fmt.Sprintf(
				"[Icons] entry %d: target %s does not match any [Files] entry", i+1, quote(icon.Filename))}
		}
		for _, task := range icon.Tasks {
			if script.FindTask(task) == nil {
				return &ConfigError{Msg: fmt.Sprintf(
					"[Icons] entry %d: unknown task %s", i+1, quote(task))}
			}
		}
		if err := checkExpression(icon.Check, script); err != nil {
			return &ConfigError{Msg: fmt.Sprintf("[Icons] entry %d: %v", i+1, err)}
		}
	}
	return nil
}

func validateRun(script *Script) error {
	for i, e := range script.Run {
		for _, template := range []string{e.Filename, e.Parameters} {
			if template == "" {
				continue
			}
			if err := CheckConstants(template); err != nil {
				return &ConfigError{Msg: fmt.Sprintf("[Run] entry %d: %v", i+1, err)}
			}
		}
		if err := checkExpression(e.Check, script); err != nil {
			return &ConfigError{Msg: fmt.Sprintf("[Run] entry %d: %v", i+1, err)}
		}
	}
	return nil
}

// checkExpression compiles a check expression and verifies that every
// variable it references is one the installer will supply: IsAdmin,
// Silent, WindowsBuild, or Task_<name> with the task name spelled
// exactly as declared. Evaluation happens on the target machine.
func checkExpression(expr string, script *Script) error {
	if expr == "" {
		return nil
	}
	eval, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return fmt.Errorf("check expression %s: %v", quote(expr), err)
	}
	for _, v := range eval.Vars() {
		if v == "IsAdmin" || v == "Silent" || v == "WindowsBuild" {
			continue
		}
		if name, ok := strings.CutPrefix(v, "Task_"); ok {
			if t := script.FindTask(name); t != nil && t.Name == name {
				continue
			}
		}
		return fmt.Errorf("check expression %s: unknown variable %s", quote(expr), quote(v))
	}
	return nil
}

// targetInManifest reports whether a shortcut target template matches
// the resulting install path of some file entry. A file's resulting
// path is its DestDir joined with the source base name; wildcard
// sources match by pattern.
func targetInManifest(target string, files []FileEntry) bool {
	targetDir, targetBase := splitTemplatePath(target)
	if targetBase == "" {
		return false
	}
	for _, f := range files {
		if normTemplate(f.DestDir) != targetDir {
			continue
		}
		base := templateBaseName(f.Source)
		if strings.ContainsAny(base, "*?") {
			if ok, err := path.Match(base, targetBase); err == nil && ok {
				return true
			}
			continue
		}
		if base == targetBase {
			return true
		}
	}
	return false
}

// normTemplate lowercases a template and normalizes separators so
// comparisons are insensitive to case and slash direction.
func normTemplate(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "/", `\`))
	return strings.TrimRight(s, `\`)
}

// splitTemplatePath splits a normalized template into directory and
// base name.
func splitTemplatePath(s string) (dir, base string) {
	n := normTemplate(s)
	idx := strings.LastIndexByte(n, '\\')
	if idx < 0 {
		return "", n
	}
	return n[:idx], n[idx+1:]
}

// templateBaseName returns the normalized base name of a source path.
func templateBaseName(s string) string {
	_, base := splitTemplatePath(s)
	return base
}
