package mock

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"cardly/internal/design"
	"cardly/internal/templates"
	"cardly/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var profiles []models.Profile
	if err := db.WithContext(ctx).Preload("Links").Order("id asc").Find(&profiles).Error; err != nil {
		t.Fatalf("query profiles: %v", err)
	}
	if len(profiles) == 0 {
		t.Fatal("expected seeded profiles")
	}
	if len(profiles[0].Links) == 0 {
		t.Fatal("expected seeded social links")
	}

	var items []models.MenuItem
	if err := db.WithContext(ctx).Find(&items).Error; err != nil {
		t.Fatalf("query menu items: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected seeded menu items")
	}

	var user models.User
	if err := db.WithContext(ctx).First(&user).Error; err != nil {
		t.Fatalf("query user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DemoPassword)); err != nil {
		t.Fatalf("unexpected password hash: %v", err)
	}
}

func TestSeededProfilesResolve(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var profiles []models.Profile
	if err := db.WithContext(ctx).Find(&profiles).Error; err != nil {
		t.Fatalf("query profiles: %v", err)
	}

	kinds := map[design.Kind]bool{}
	for _, profile := range profiles {
		style, err := design.Resolve(profile.Design.State(), templates.Builtin())
		if err != nil {
			t.Fatalf("resolve %s: %v", profile.Slug, err)
		}
		kinds[style.Kind] = true
	}
	for _, kind := range []design.Kind{design.KindImage, design.KindGradient, design.KindFallback} {
		if !kinds[kind] {
			t.Fatalf("expected a seeded profile resolving to %s, got %v", kind, kinds)
		}
	}
}
