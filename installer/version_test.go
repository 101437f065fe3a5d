package installer

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.2", "1.2.0", 0},
		{"2.0.0", "1.9.9", 1},
		{"1.9.9", "2.0.0", -1},
		{"1.2.3.4", "1.2.3", 1},
		{"1.2.3-beta", "1.2.3", 0},
		{"v1.5", "1.4", 1},
		{"10.0", "9.0", 1},
	}
	for _, tt := range tests {
		got := CompareVersions(tt.v1, tt.v2)
		if sign(got) != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want sign %d", tt.v1, tt.v2, got, tt.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestIsNewerVersion(t *testing.T) {
	if !IsNewerVersion("1.4.1", "1.4.0") {
		t.Error("1.4.1 should be newer than 1.4.0")
	}
	if IsNewerVersion("1.4.0", "1.4.0") {
		t.Error("equal versions are not newer")
	}
	if IsNewerVersion("1.3.9", "1.4.0") {
		t.Error("1.3.9 is not newer than 1.4.0")
	}
}

func TestParseMinVersion(t *testing.T) {
	major, minor, build, err := ParseMinVersion("10.0.17763")
	if err != nil {
		t.Fatalf("ParseMinVersion: %v", err)
	}
	if major != 10 || minor != 0 || build != 17763 {
		t.Errorf("ParseMinVersion = %d.%d.%d", major, minor, build)
	}

	major, minor, build, err = ParseMinVersion("6.1")
	if err != nil {
		t.Fatalf("ParseMinVersion: %v", err)
	}
	if major != 6 || minor != 1 || build != 0 {
		t.Errorf("ParseMinVersion = %d.%d.%d, want 6.1.0", major, minor, build)
	}

	for _, bad := range []string{"", "ten", "10.0.1.2", "10..0", "-1"} {
		if _, _, _, err := ParseMinVersion(bad); err == nil {
			t.Errorf("ParseMinVersion(%q) succeeded, want error", bad)
		}
	}
}
