// Command cardctl inspects card designs from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cardly/internal/templates"
)

var templatesPath string

var rootCmd = &cobra.Command{
	Use:   "cardctl",
	Short: "Inspect and export card designs",
	Long: `cardctl works with the same design resolver and template catalogue
as the web service.

Available subcommands:
  resolve   - resolve a design state read from a file or stdin
  templates - list the template catalogue
  export    - write every profile and menu with its resolved background as CSV`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&templatesPath, "templates", "", "template catalogue YAML overriding the built-in one")
	rootCmd.AddCommand(resolveCmd, templatesCmd, exportCmd)
}

func loadRegistry() (*templates.Registry, error) {
	if templatesPath == "" {
		return templates.Builtin(), nil
	}
	file, err := os.Open(templatesPath)
	if err != nil {
		return nil, fmt.Errorf("open templates: %w", err)
	}
	defer file.Close()
	return templates.Load(file)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
