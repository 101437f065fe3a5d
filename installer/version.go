package installer

import (
	"fmt"
	"strconv"
	"strings"
)

// CompareVersions compares two version strings.
// Returns:
//   - negative if v1 < v2
//   - zero if v1 == v2
//   - positive if v1 > v2
//
// Handles versions like "1.0.0", "1.2", "1.2.3.4", "1.2.3-beta", etc.
// Missing components count as zero, so "1.2" equals "1.2.0".
func CompareVersions(v1, v2 string) int {
	parts1 := parseVersion(v1)
	parts2 := parseVersion(v2)

	// Compare numeric parts
	maxLen := max(len(parts1), len(parts2))
	for i := 0; i < maxLen; i++ {
		var p1, p2 int
		if i < len(parts1) {
			p1 = parts1[i]
		}
		if i < len(parts2) {
			p2 = parts2[i]
		}

		if p1 < p2 {
			return -1
		}
		if p1 > p2 {
			return 1
		}
	}

	return 0
}

// parseVersion extracts numeric parts from a version string.
// "1.2.3" -> [1, 2, 3]
// "1.2.3-beta" -> [1, 2, 3] (suffix ignored)
func parseVersion(v string) []int {
	// Remove any leading 'v' or 'V'
	v = strings.TrimPrefix(v, "v")
	v = strings.TrimPrefix(v, "V")

	// Split by dots
	parts := strings.Split(v, ".")
	result := make([]int, 0, len(parts))

	for _, part := range parts {
		// Handle suffixes like "3-beta" -> take "3"
		if idx := strings.IndexAny(part, "-+_"); idx > 0 {
			part = part[:idx]
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			continue // Skip non-numeric parts
		}
		result = append(result, n)
	}

	return result
}

// IsNewerVersion returns true if newVersion is newer than oldVersion.
func IsNewerVersion(newVersion, oldVersion string) bool {
	return CompareVersions(newVersion, oldVersion) > 0
}

// ParseMinVersion parses a MinVersion directive of the form
// "major[.minor[.build]]" into its numeric components.
func ParseMinVersion(s string) (major, minor, build uint32, err error) {
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("invalid MinVersion %q", s)
	}
	out := make([]uint32, 3)
	for i, part := range parts {
		n, perr := strconv.ParseUint(part, 10, 32)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("invalid MinVersion %q", s)
		}
		out[i] = uint32(n)
	}
	return out[0], out[1], out[2], nil
}
