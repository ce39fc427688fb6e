package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the template catalogue",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if _, err := fmt.Fprintln(out, headingStyle.Render(fmt.Sprintf("Template catalogue v%d", registry.Version()))); err != nil {
		return err
	}
	for _, tpl := range registry.Options() {
		marker := " "
		if tpl.ID == registry.Default() {
			marker = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s %s\n", marker, row(tpl.ID, tpl.Name), tpl.FullImage); err != nil {
			return err
		}
	}
	return nil
}
