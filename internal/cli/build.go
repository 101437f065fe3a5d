package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/crafted-tech/setupforge"
)

var (
	buildOutputDir string
	buildName      string
	buildStub      string
)

var buildCmd = &cobra.Command{
	Use:   "build <script.iss>",
	Short: "Compile a setup script into an installer",
	Long: `Compile a setup script and its payload files into a single
self-contained installer executable.

The stub executable is taken from --stub, then from the config file,
then from a setupstub binary next to the compiler.

Examples:
  setupforge build app.iss
  setupforge build app.iss -o dist
  setupforge build app.iss --stub build/setupstub.exe`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutputDir, "output", "o", "", "output directory (default: next to the script)")
	buildCmd.Flags().StringVar(&buildName, "name", "", "override the output base filename")
	buildCmd.Flags().StringVar(&buildStub, "stub", "", "stub executable the payload is appended to")
}

func runBuild(cmd *cobra.Command, args []string) error {
	var opts []setupforge.Option

	stub := buildStub
	if stub == "" {
		stub = cfg.StubPath
	}
	if stub == "" {
		stub = stubNextToCompiler()
	}
	if stub != "" {
		opts = append(opts, setupforge.WithStub(stub))
	}

	outDir := buildOutputDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if outDir != "" {
		opts = append(opts, setupforge.WithOutputDir(outDir))
	}
	if buildName != "" {
		opts = append(opts, setupforge.WithOutputName(buildName))
	}

	result, err := setupforge.Build(args[0], opts...)
	if err != nil {
		return err
	}

	m := result.Manifest
	fmt.Printf("Built %s\n", result.OutputPath)
	fmt.Printf("  app:         %s %s\n", m.Setup.AppName, m.Setup.AppVersion)
	fmt.Printf("  files:       %d\n", len(m.Files))
	if len(m.Icons) > 0 {
		fmt.Printf("  shortcuts:   %d\n", len(m.Icons))
	}
	if len(m.Tasks) > 0 {
		fmt.Printf("  tasks:       %d\n", len(m.Tasks))
	}
	if len(m.Run) > 0 {
		fmt.Printf("  run entries: %d\n", len(m.Run))
	}
	fmt.Printf("  compression: %s\n", m.Setup.Compression)
	fmt.Printf("  size:        %s stub + %s payload\n",
		formatSize(result.StubSize), formatSize(result.PayloadSize))
	return nil
}

// stubNextToCompiler looks for a setupstub binary in the compiler's
// own directory, the layout a release archive unpacks to.
func stubNextToCompiler() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	name := "setupstub"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	p := filepath.Join(filepath.Dir(exe), name)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
