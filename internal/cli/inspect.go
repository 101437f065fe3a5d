package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crafted-tech/setupforge"
	"github.com/crafted-tech/setupforge/sfx"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <installer.exe>",
	Short: "Show the manifest inside a built installer",
	Long: `Read the payload attached to a built installer and print the
embedded manifest.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the raw manifest JSON")
}

func runInspect(cmd *cobra.Command, args []string) error {
	r, err := sfx.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	hdr, err := r.Next()
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	if hdr.Name != setupforge.ManifestName {
		return fmt.Errorf("payload starts with %q, want %q", hdr.Name, setupforge.ManifestName)
	}
	m, err := setupforge.DecodeManifest(r)
	if err != nil {
		return err
	}

	if inspectJSON {
		return setupforge.EncodeManifest(os.Stdout, m)
	}

	fmt.Printf("%s %s\n", m.Setup.AppName, m.Setup.AppVersion)
	if m.Setup.AppPublisher != "" {
		fmt.Printf("  publisher:   %s\n", m.Setup.AppPublisher)
	}
	fmt.Printf("  app id:      %s\n", m.Setup.AppID)
	fmt.Printf("  install dir: %s\n", m.Setup.DefaultDirName)
	fmt.Printf("  privileges:  %s\n", m.Setup.PrivilegesRequired)
	fmt.Printf("  compression: %s\n", r.Method())
	fmt.Printf("  built:       %s\n", m.GeneratedAt.Format(time.RFC3339))

	if len(m.Files) > 0 {
		fmt.Println("Files:")
		for _, f := range m.Files {
			line := fmt.Sprintf("  %-28s %9s  -> %s", f.Name, formatSize(f.Size), f.DestDir)
			if f.Flags.IgnoreVersion {
				line += "  [ignoreversion]"
			}
			fmt.Println(line)
		}
	}
	if len(m.Icons) > 0 {
		fmt.Println("Shortcuts:")
		for _, icon := range m.Icons {
			line := fmt.Sprintf("  %s -> %s", icon.Name, icon.Filename)
			if len(icon.Tasks) > 0 {
				line += fmt.Sprintf("  [tasks: %s]", strings.Join(icon.Tasks, ", "))
			}
			fmt.Println(line)
		}
	}
	if len(m.Tasks) > 0 {
		fmt.Println("Tasks:")
		for _, task := range m.Tasks {
			state := "unchecked"
			if task.CheckedByDefault {
				state = "checked"
			}
			fmt.Printf("  %-20s %s (%s)\n", task.Name, task.Description, state)
		}
	}
	if len(m.Run) > 0 {
		fmt.Println("Run:")
		for _, e := range m.Run {
			line := "  " + e.Filename
			if e.Parameters != "" {
				line += " " + e.Parameters
			}
			if flags := runFlagNames(e.Flags); flags != "" {
				line += "  [" + flags + "]"
			}
			fmt.Println(line)
		}
	}
	return nil
}

func runFlagNames(f setupforge.RunFlags) string {
	var names []string
	if f.NoWait {
		names = append(names, "nowait")
	}
	if f.PostInstall {
		names = append(names, "postinstall")
	}
	if f.SkipIfSilent {
		names = append(names, "skipifsilent")
	}
	return strings.Join(names, " ")
}
