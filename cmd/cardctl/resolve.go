package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cardly/internal/design"
)

var (
	resolveFallbackTemplate string
	resolveJSON             bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [state.json]",
	Short: "Resolve a design state",
	Long: `Reads a design state such as

  {"designMode": "manual", "color": "#0066ff"}

from the named file, or stdin when the file is omitted or "-", and prints
the background the service would render.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFallbackTemplate, "fallback-template", "", "template used when the state names none")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print the resolved style as JSON")
}

func runResolve(cmd *cobra.Command, args []string) error {
	var input io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open state: %w", err)
		}
		defer file.Close()
		input = file
	}

	var state design.State
	dec := json.NewDecoder(input)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&state); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	fallback := strings.TrimSpace(resolveFallbackTemplate)
	if fallback != "" && !registry.Has(fallback) {
		return fmt.Errorf("unknown template %q", fallback)
	}

	style, err := design.Resolve(state, registry, design.WithFallbackTemplate(fallback))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if resolveJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(style)
	}

	lines := []string{
		headingStyle.Render("Resolved background"),
		row("kind", string(style.Kind)),
		row("value", describe(style)),
		row("text", string(style.Text)),
		row("overlay", string(style.Overlay)),
	}
	_, err = fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}
