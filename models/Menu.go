package models

import (
	"gorm.io/gorm"
)

// Menu is a digital menu published at /m/{slug}.
type Menu struct {
	gorm.Model
	OwnerID     uint       `gorm:"not null;index" json:"owner_id"`
	Owner       *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Currency    string     `gorm:"type:varchar(3);not null;default:USD" json:"currency"`
	Design      Design     `gorm:"embedded" json:"design"`
	Items       []MenuItem `gorm:"foreignKey:MenuID" json:"items"`
	Published   bool       `gorm:"not null" json:"published"`
}

// MenuItem is a dish or product listed on a menu.
type MenuItem struct {
	gorm.Model
	MenuID      uint   `gorm:"not null;index" json:"menu_id"`
	Section     string `json:"section"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	PriceCents  int64  `gorm:"not null;default:0" json:"price_cents"`
	Position    int    `gorm:"not null;default:0" json:"position"`
}
