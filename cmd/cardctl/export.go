package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"cardly/internal/config"
	"cardly/internal/db"
	"cardly/internal/design"
	"cardly/internal/templates"
	"cardly/models"
)

var exportOutput string

// openDatabase returns the database and the site-wide default template the
// service is configured with. Replaced in tests.
var openDatabase = func() (*gorm.DB, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return nil, "", err
	}
	return database, cfg.Templates.Default, nil
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export profiles and menus with their resolved backgrounds as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "destination file, or - for stdout")
}

var exportHeader = []string{"type", "slug", "name", "design_mode", "background_kind", "background_ref", "gradient_from", "gradient_to", "overlay", "error"}

func runExport(cmd *cobra.Command, _ []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	database, siteDefault, err := openDatabase()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if exportOutput != "" && exportOutput != "-" {
		file, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	rows, err := writeExport(cmd.Context(), database, registry, siteDefault, out)
	if err != nil {
		return err
	}
	if out != cmd.OutOrStdout() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", rows, exportOutput)
	}
	return nil
}

// writeExport resolves every design the way the service renders it, with
// siteDefault as the configured default template.
func writeExport(ctx context.Context, database *gorm.DB, registry *templates.Registry, siteDefault string, w io.Writer) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var profiles []models.Profile
	if err := database.WithContext(ctx).Preload("Owner").Order("slug asc").Find(&profiles).Error; err != nil {
		return 0, fmt.Errorf("load profiles: %w", err)
	}
	var menus []models.Menu
	if err := database.WithContext(ctx).Preload("Owner").Order("slug asc").Find(&menus).Error; err != nil {
		return 0, fmt.Errorf("load menus: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return 0, err
	}

	rows := 0
	for _, p := range profiles {
		if err := writer.Write(exportRow("profile", p.Slug, p.DisplayName, p.Design, p.Owner, registry, siteDefault)); err != nil {
			return rows, err
		}
		rows++
	}
	for _, m := range menus {
		if err := writer.Write(exportRow("menu", m.Slug, m.Name, m.Design, m.Owner, registry, siteDefault)); err != nil {
			return rows, err
		}
		rows++
	}
	writer.Flush()
	return rows, writer.Error()
}

// exportRow records a resolution failure in the error column alongside the
// fallback the service would render.
func exportRow(kind, slug, name string, stored models.Design, owner *models.User, registry *templates.Registry, siteDefault string) []string {
	var preferred string
	if owner != nil {
		preferred = owner.DefaultTemplate
	}
	fallback := registry.Fallback(preferred, siteDefault)

	state := stored.State()
	style, err := design.Resolve(state, registry, design.WithFallbackTemplate(fallback))
	message := ""
	if err != nil {
		style = design.Fallback()
		message = err.Error()
	}
	return []string{
		kind,
		slug,
		name,
		string(state.Mode),
		string(style.Kind),
		style.Ref,
		style.GradientFrom,
		style.GradientTo,
		string(style.Overlay),
		message,
	}
}
