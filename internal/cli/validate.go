package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crafted-tech/setupforge"
)

var validateCmd = &cobra.Command{
	Use:   "validate <script.iss>",
	Short: "Parse and validate a setup script",
	Long: `Parse a setup script and check its cross references without
building anything: every shortcut must target a packed file and every
referenced task must be declared.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	script, err := setupforge.ParseScriptFile(args[0])
	if err != nil {
		return err
	}
	if err := setupforge.Validate(script); err != nil {
		return err
	}

	fmt.Printf("%s: OK (%d files, %d icons, %d tasks, %d run entries)\n",
		args[0], len(script.Files), len(script.Icons), len(script.Tasks), len(script.Run))
	return nil
}
