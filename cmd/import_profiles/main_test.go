package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cardly/internal/db"
	"cardly/internal/design"
	"cardly/internal/templates"
	"cardly/models"
)

const sampleCSV = `slug,display_name,title,tags,design_mode,template,color,links,published
ada,Ada   Lovelace,Analyst,"maths, engines",manual,template2,0066FF,Site|https://ada.example.com; GitHub|https://github.com/ada,
,Grace Hopper,Admiral,,template,template5,,,false
`

func openImportDatabase(t *testing.T) (*gorm.DB, uint) {
	t.Helper()
	database, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	owner := models.User{Email: "importer@example.com", PasswordHash: "hash"}
	if err := database.Create(&owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	return database, owner.ID
}

func TestImportProfilesUpsertsBySlug(t *testing.T) {
	database, ownerID := openImportDatabase(t)
	ctx := context.Background()

	records, err := readCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	count, err := importProfiles(ctx, database, templates.Builtin(), ownerID, records)
	if err != nil || count != 2 {
		t.Fatalf("importProfiles = %d, %v", count, err)
	}

	var ada models.Profile
	if err := database.Preload("Links").Where("slug = ?", "ada").First(&ada).Error; err != nil {
		t.Fatalf("load ada: %v", err)
	}
	if ada.DisplayName != "Ada Lovelace" || ada.Design.Color != "#0066ff" || len(ada.Links) != 2 || !ada.Published {
		t.Fatalf("unexpected imported profile: %+v", ada)
	}
	style, err := design.Resolve(ada.Design.State(), templates.Builtin())
	if err != nil || style.Kind != design.KindGradient {
		t.Fatalf("expected manual colour to resolve to a gradient, got %+v, %v", style, err)
	}

	var grace models.Profile
	if err := database.Where("slug = ?", "grace-hopper").First(&grace).Error; err != nil {
		t.Fatalf("load generated slug: %v", err)
	}
	if grace.Published {
		t.Fatal("expected grace to be unpublished")
	}

	// second run updates in place and replaces links
	records[0]["links"] = "Blog|https://ada.example.com/blog"
	records[0]["title"] = "Countess"
	if _, err := importProfiles(ctx, database, templates.Builtin(), ownerID, records); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	var profiles int64
	database.Model(&models.Profile{}).Count(&profiles)
	if profiles != 2 {
		t.Fatalf("expected upsert, found %d profiles", profiles)
	}
	var reloaded models.Profile
	if err := database.Preload("Links").First(&reloaded, ada.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Title != "Countess" || len(reloaded.Links) != 1 || reloaded.Links[0].Label != "Blog" {
		t.Fatalf("unexpected re-imported profile: %+v", reloaded)
	}
}

func TestBuildProfileRejectsInvalidRows(t *testing.T) {
	registry := templates.Builtin()
	tests := []struct {
		name string
		row  map[string]string
	}{
		{"missing name", map[string]string{"slug": "x"}},
		{"bad colour", map[string]string{"display_name": "X", "color": "#12345"}},
		{"unknown template", map[string]string{"display_name": "X", "template": "template42"}},
		{"unknown mode", map[string]string{"display_name": "X", "design_mode": "sepia"}},
		{"bad slug", map[string]string{"display_name": "X", "slug": "Not A Slug"}},
		{"bad link", map[string]string{"display_name": "X", "links": "just-a-url"}},
		{"bad published", map[string]string{"display_name": "X", "published": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildProfile(tt.row, registry); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := buildProfile(map[string]string{"display_name": "X", "color": "blue"}, registry); !errors.Is(err, design.ErrInvalidColorFormat) {
		t.Fatalf("expected ErrInvalidColorFormat, got %v", err)
	}
}

func TestResolveImportOwner(t *testing.T) {
	database, ownerID := openImportDatabase(t)
	ctx := context.Background()

	if id, err := resolveImportOwner(ctx, database, ""); err != nil || id != ownerID {
		t.Fatalf("default owner = %d, %v", id, err)
	}
	if id, err := resolveImportOwner(ctx, database, " IMPORTER@example.com "); err != nil || id != ownerID {
		t.Fatalf("owner by email = %d, %v", id, err)
	}
	if _, err := resolveImportOwner(ctx, database, "nobody@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestReadCSVRejectsEmptyInput(t *testing.T) {
	if _, err := readCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty csv")
	}
}

func TestImportProfilesRestoresDeletedSlug(t *testing.T) {
	database, ownerID := openImportDatabase(t)
	ctx := context.Background()

	deleted := models.Profile{OwnerID: ownerID, Slug: "ada", DisplayName: "Old Ada", Published: true}
	if err := database.Create(&deleted).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if err := database.Delete(&deleted).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	records, err := readCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	if _, err := importProfiles(ctx, database, templates.Builtin(), ownerID, records[:1]); err != nil {
		t.Fatalf("import over deleted slug: %v", err)
	}

	var restored models.Profile
	if err := database.Preload("Links").Where("slug = ?", "ada").First(&restored).Error; err != nil {
		t.Fatalf("expected restored profile: %v", err)
	}
	if restored.ID != deleted.ID {
		t.Fatalf("expected row %d to be reused, got %d", deleted.ID, restored.ID)
	}
	if restored.DisplayName != "Ada Lovelace" || len(restored.Links) != 2 {
		t.Fatalf("unexpected restored profile: %+v", restored)
	}
}
