package mock

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cardly/internal/db"
	applog "cardly/internal/log"
	"cardly/models"
)

// DemoPassword is the password of the seeded demo account.
const DemoPassword = "tapcards"

// New returns an in-memory sqlite database seeded with demo cards and menus.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := gorm.Open(sqlite.Open("file:cardly-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	var existing int64
	if err := database.WithContext(ctx).Model(&models.User{}).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing == 0 {
		if err := seed(ctx, database); err != nil {
			return nil, err
		}
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:            "Riley Demo",
		Email:           "riley@cardly.app",
		PasswordHash:    string(password),
		DefaultTemplate: "template3",
	}
	if err := database.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	profiles := []models.Profile{
		{
			OwnerID:     user.ID,
			Slug:        "riley",
			DisplayName: "Riley Demo",
			Title:       "Product Designer",
			Bio:         "Designing tap-to-share cards for people who hate paper.",
			Tags:        "design, nfc, product",
			Design:      models.Design{DesignMode: "template", Template: "template1"},
			Published:   true,
			Links: []models.SocialLink{
				{Label: "Portfolio", URL: "https://riley.example.com", Position: 0},
				{Label: "LinkedIn", URL: "https://www.linkedin.com/in/riley-demo", Position: 1},
			},
		},
		{
			OwnerID:     user.ID,
			Slug:        "riley-studio",
			DisplayName: "Riley Studio",
			Title:       "Independent studio",
			Tags:        "studio",
			Design:      models.Design{DesignMode: "manual", Color: "#0066ff", Template: "template2"},
			Published:   true,
		},
		{
			OwnerID:     user.ID,
			Slug:        "riley-events",
			DisplayName: "Riley at Events",
			Design:      models.Design{},
			Published:   true,
		},
	}
	for i := range profiles {
		if err := database.WithContext(ctx).Create(&profiles[i]).Error; err != nil {
			return err
		}
	}

	menu := models.Menu{
		OwnerID:     user.ID,
		Slug:        "corner-bistro",
		Name:        "Corner Bistro",
		Description: "Seasonal plates and natural wine.",
		Currency:    "EUR",
		Design:      models.Design{DesignMode: "template", Template: "template8"},
		Published:   true,
		Items: []models.MenuItem{
			{Section: "Starters", Name: "Burrata", Description: "Heirloom tomato, basil oil", PriceCents: 1200, Position: 0},
			{Section: "Mains", Name: "Roast chicken", Description: "Lemon, thyme, fries", PriceCents: 2200, Position: 1},
			{Section: "Desserts", Name: "Tarte tatin", PriceCents: 900, Position: 2},
		},
	}
	if err := database.WithContext(ctx).Create(&menu).Error; err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded", "profiles", len(profiles), "menus", 1)
	return nil
}
