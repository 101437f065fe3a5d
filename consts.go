package setupforge

import (
	"fmt"
	"strings"
)

// Path constants recognized in templates. Constants resolve on the
// target machine at install time; the compiler only checks that
// templates use known names. The "auto" variants pick the all-users
// location for admin installs and the per-user location otherwise.
const (
	ConstApp            = "app"
	ConstProgramFiles   = "pf" // alias of autopf
	ConstAutoPF         = "autopf"
	ConstCommonPF       = "commonpf"
	ConstUserPF         = "userpf"
	ConstGroup          = "group"
	ConstAutoPrograms   = "autoprograms"
	ConstCommonPrograms = "commonprograms"
	ConstUserPrograms   = "userprograms"
	ConstAutoDesktop    = "autodesktop"
	ConstCommonDesktop  = "commondesktop"
	ConstUserDesktop    = "userdesktop"
	ConstTmp            = "tmp"
	ConstSys            = "sys"
	ConstSrc            = "src"
)

var knownConstants = map[string]bool{
	ConstApp:            true,
	ConstProgramFiles:   true,
	ConstAutoPF:         true,
	ConstCommonPF:       true,
	ConstUserPF:         true,
	ConstGroup:          true,
	ConstAutoPrograms:   true,
	ConstCommonPrograms: true,
	ConstUserPrograms:   true,
	ConstAutoDesktop:    true,
	ConstCommonDesktop:  true,
	ConstUserDesktop:    true,
	ConstTmp:            true,
	ConstSys:            true,
	ConstSrc:            true,
}

// IsKnownConstant reports whether name is a recognized path constant.
func IsKnownConstant(name string) bool {
	return knownConstants[strings.ToLower(name)]
}

// ExpandConstants replaces {name} tokens in a template using resolve.
// A doubled brace "{{" produces a literal "{". Unterminated tokens and
// resolver failures abort the expansion.
func ExpandConstants(template string, resolve func(name string) (string, error)) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		c := template[i]
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(template) && template[i+1] == '{' {
			b.WriteByte('{')
			i += 2
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated constant in %s", quote(template))
		}
		name := template[i+1 : i+end]
		if name == "" {
			return "", fmt.Errorf("empty constant in %s", quote(template))
		}
		value, err := resolve(name)
		if err != nil {
			return "", err
		}
		b.WriteString(value)
		i += end + 1
	}

	return b.String(), nil
}

// CheckConstants verifies that every constant a template references is
// known, without resolving anything.
func CheckConstants(template string) error {
	_, err := ExpandConstants(template, func(name string) (string, error) {
		if !IsKnownConstant(name) {
			return "", fmt.Errorf("unknown constant {%s} in %s", name, quote(template))
		}
		return "", nil
	})
	return err
}
