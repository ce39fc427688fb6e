package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"cardly/internal/config"
	"cardly/internal/db"
	"cardly/internal/design"
	"cardly/internal/templates"
	"cardly/models"

	"gorm.io/gorm"
)

var (
	cleanWhitespace = regexp.MustCompile(`\s+`)
	slugPattern     = regexp.MustCompile(`[^a-z0-9]+`)
)

func main() {
	csvPath := "profiles.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	if err := run(csvPath); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(csvPath string) error {
	if strings.TrimSpace(csvPath) == "" {
		return fmt.Errorf("csv path must not be empty")
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("locate csv: %w", err)
	}
	defer file.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	records, err := readCSV(file)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	ctx := context.Background()
	ownerID, err := resolveImportOwner(ctx, database, os.Getenv("CARDLY_IMPORT_OWNER_EMAIL"))
	if err != nil {
		return fmt.Errorf("resolve owner: %w", err)
	}

	imported, err := importProfiles(ctx, database, templates.Builtin(), ownerID, records)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d profiles from %s\n", imported, filepath.Base(csvPath))
	return nil
}

// importProfiles upserts each record by slug, one transaction per row. A
// soft-deleted profile with the same slug is restored and overwritten.
func importProfiles(ctx context.Context, database *gorm.DB, registry *templates.Registry, ownerID uint, records []map[string]string) (int, error) {
	imported := 0
	for idx, record := range records {
		profile, err := buildProfile(record, registry)
		if err != nil {
			return imported, fmt.Errorf("record %d (%s): %w", idx+1, record["slug"], err)
		}
		profile.OwnerID = ownerID

		if err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing models.Profile
			err := tx.Unscoped().Where("slug = ?", profile.Slug).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				links := profile.Links
				profile.Links = nil
				if err := tx.Create(&profile).Error; err != nil {
					return fmt.Errorf("create profile %q: %w", profile.Slug, err)
				}
				return replaceLinks(tx, profile.ID, links)
			case err != nil:
				return fmt.Errorf("find profile %q: %w", profile.Slug, err)
			}

			if existing.OwnerID != ownerID {
				return fmt.Errorf("slug %q belongs to another account", profile.Slug)
			}

			updates := map[string]any{
				"display_name": profile.DisplayName,
				"title":        profile.Title,
				"bio":          profile.Bio,
				"tags":         profile.Tags,
				"avatar_url":   profile.AvatarURL,
				"published":    profile.Published,
			}
			for column, value := range profile.Design.Columns() {
				updates[column] = value
			}
			if existing.DeletedAt.Valid {
				updates["deleted_at"] = nil
			}
			if err := tx.Unscoped().Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("update profile %q: %w", profile.Slug, err)
			}
			return replaceLinks(tx, existing.ID, profile.Links)
		}); err != nil {
			return imported, fmt.Errorf("record %d (%s): %w", idx+1, profile.Slug, err)
		}
		imported++
	}
	return imported, nil
}

func replaceLinks(tx *gorm.DB, profileID uint, links []models.SocialLink) error {
	if err := tx.Unscoped().Where("profile_id = ?", profileID).Delete(&models.SocialLink{}).Error; err != nil {
		return fmt.Errorf("clear links: %w", err)
	}
	if len(links) == 0 {
		return nil
	}
	for i := range links {
		links[i].ProfileID = profileID
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("create links: %w", err)
	}
	return nil
}

func resolveImportOwner(ctx context.Context, database *gorm.DB, email string) (uint, error) {
	if database == nil {
		return 0, fmt.Errorf("database handle is nil")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if email != "" {
		if err := database.WithContext(ctx).Where("lower(email) = ?", email).First(&user).Error; err != nil {
			return 0, fmt.Errorf("find owner by email %q: %w", email, err)
		}
		return user.ID, nil
	}

	if err := database.WithContext(ctx).Order("id asc").First(&user).Error; err != nil {
		return 0, fmt.Errorf("find default owner: %w", err)
	}
	return user.ID, nil
}

// readCSV returns one map per row keyed by the lower-cased header.
func readCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func buildProfile(row map[string]string, registry *templates.Registry) (models.Profile, error) {
	name := normalizeText(row["display_name"])
	if name == "" {
		return models.Profile{}, errors.New("display_name is required")
	}

	slug := normalizeValue(row["slug"])
	if slug == "" {
		slug = slugify(name)
	}
	if slug == "" || slug != slugify(slug) {
		return models.Profile{}, fmt.Errorf("invalid slug %q", slug)
	}

	mode, err := design.ParseMode(normalizeValue(row["design_mode"]))
	if err != nil {
		return models.Profile{}, err
	}
	state := design.State{
		CustomDesignURL: normalizeValue(row["custom_design_url"]),
		AIBackground:    normalizeValue(row["ai_background"]),
		Mode:            mode,
		Template:        normalizeValue(row["template"]),
		Color:           normalizeValue(row["color"]),
	}
	if state.Color != "" {
		if state.Color, err = design.NormalizeHex(state.Color); err != nil {
			return models.Profile{}, err
		}
	}
	if state.Template != "" && !registry.Has(state.Template) {
		return models.Profile{}, fmt.Errorf("unknown template %q", state.Template)
	}

	published := true
	if value := normalizeValue(row["published"]); value != "" {
		if published, err = strconv.ParseBool(value); err != nil {
			return models.Profile{}, fmt.Errorf("published: %w", err)
		}
	}

	links, err := parseLinks(row["links"])
	if err != nil {
		return models.Profile{}, err
	}

	return models.Profile{
		Slug:        slug,
		DisplayName: name,
		Title:       normalizeText(row["title"]),
		Bio:         normalizeText(row["bio"]),
		Tags:        models.JoinTags(strings.Split(row["tags"], ",")),
		AvatarURL:   normalizeValue(row["avatar_url"]),
		Design:      models.DesignFromState(state),
		Links:       links,
		Published:   published,
	}, nil
}

// parseLinks reads "Label|URL; Label|URL".
func parseLinks(value string) ([]models.SocialLink, error) {
	value = normalizeValue(value)
	if value == "" {
		return nil, nil
	}
	var links []models.SocialLink
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		label, url, ok := strings.Cut(entry, "|")
		label, url = strings.TrimSpace(label), strings.TrimSpace(url)
		if !ok || label == "" || url == "" {
			return nil, fmt.Errorf("malformed link %q", entry)
		}
		links = append(links, models.SocialLink{Label: label, URL: url, Position: len(links)})
	}
	return links, nil
}

func normalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

func normalizeText(value string) string {
	value = normalizeValue(value)
	if value == "" {
		return value
	}
	return strings.TrimSpace(cleanWhitespace.ReplaceAllString(value, " "))
}

func slugify(value string) string {
	value = strings.ToLower(value)
	value = slugPattern.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}
