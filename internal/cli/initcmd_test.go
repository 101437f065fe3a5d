package cli

import (
	"strings"
	"testing"

	"github.com/crafted-tech/setupforge"
)

func TestScaffoldScript_ParsesAndValidates(t *testing.T) {
	src := scaffoldScript("My App", "MyApp", "B7E8F0D4-8F8A-4B7E-9C1D-3A2B1C0D9E8F")

	script, err := setupforge.ParseScript(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if err := setupforge.Validate(script); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if script.Setup.AppName != "My App" {
		t.Errorf("AppName = %q, want %q", script.Setup.AppName, "My App")
	}
	if script.Setup.AppID != "{{B7E8F0D4-8F8A-4B7E-9C1D-3A2B1C0D9E8F}" {
		t.Errorf("AppID = %q, want the escaped GUID form", script.Setup.AppID)
	}
	if len(script.Files) != 1 || script.Files[0].Source != "MyApp.exe" {
		t.Errorf("Files = %+v, want the single MyApp.exe entry", script.Files)
	}
	if len(script.Icons) != 2 || len(script.Tasks) != 1 || len(script.Run) != 1 {
		t.Errorf("manifest counts = %d icons, %d tasks, %d run entries",
			len(script.Icons), len(script.Tasks), len(script.Run))
	}
	if script.Tasks[0].CheckedByDefault {
		t.Error("desktopicon task should start unchecked")
	}
}
