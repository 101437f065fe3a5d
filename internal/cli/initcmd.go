package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <AppName>",
	Short: "Scaffold a new setup script",
	Long: `Write a starter setup script for the named application into the
current directory, with a freshly generated AppId.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("application name is empty")
	}
	base := strings.ReplaceAll(name, " ", "")

	path := base + ".iss"
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	appID := strings.ToUpper(uuid.New().String())
	if err := os.WriteFile(path, []byte(scaffoldScript(name, base, appID)), 0644); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	fmt.Printf("  app id: {%s}\n", appID)
	fmt.Printf("Place %s.exe next to the script and run: setupforge build %s\n", base, path)
	return nil
}

// scaffoldScript renders the starter script. The doubled brace in the
// AppId line is the escape for a literal "{".
func scaffoldScript(name, base, appID string) string {
	var b strings.Builder
	w := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	w("[Setup]")
	w("AppId={{%s}", appID)
	w("AppName=%s", name)
	w("AppVersion=1.0.0")
	w(`DefaultDirName={autopf}\%s`, name)
	w("DefaultGroupName=%s", name)
	w("OutputBaseFilename=%s-setup", base)
	w("Compression=maximal")
	w("PrivilegesRequired=admin")
	w("")
	w("[Tasks]")
	w(`Name: "desktopicon"; Description: "Create a &desktop icon"; Flags: unchecked`)
	w("")
	w("[Files]")
	w(`Source: "%s.exe"; DestDir: "{app}"; Flags: ignoreversion`, base)
	w("")
	w("[Icons]")
	w(`Name: "{group}\%s"; Filename: "{app}\%s.exe"`, name, base)
	w(`Name: "{autodesktop}\%s"; Filename: "{app}\%s.exe"; Tasks: desktopicon`, name, base)
	w("")
	w("[Run]")
	w(`Filename: "{app}\%s.exe"; Description: "Launch %s"; Flags: nowait postinstall skipifsilent`, base, name)

	return b.String()
}
