// Package cli implements the setupforge command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crafted-tech/setupforge/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "setupforge",
	Short: "Windows installer compiler",
	Long: `setupforge - Windows installer compiler

Compiles a declarative setup script and its payload files into a
single self-contained installer executable.`,
	Version: version,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/setupforge/config.yaml)")

	// Add commands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.Default()
	}
}
