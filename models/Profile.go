package models

import (
	"strings"

	"gorm.io/gorm"
)

// Profile is a digital identity card published at /c/{slug}.
type Profile struct {
	gorm.Model
	OwnerID     uint         `gorm:"not null;index" json:"owner_id"`
	Owner       *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Slug        string       `gorm:"uniqueIndex;not null" json:"slug"`
	DisplayName string       `gorm:"not null" json:"display_name"`
	Title       string       `json:"title"`
	Bio         string       `gorm:"type:text" json:"bio"`
	Tags        string       `json:"tags"` // comma separated
	AvatarURL   string       `gorm:"type:text" json:"avatar_url"`
	Design      Design       `gorm:"embedded" json:"design"`
	Links       []SocialLink `gorm:"foreignKey:ProfileID" json:"links"`
	Published   bool         `gorm:"not null" json:"published"`
}

// SocialLink is one entry on a profile's link page.
type SocialLink struct {
	gorm.Model
	ProfileID uint   `gorm:"not null;index" json:"profile_id"`
	Label     string `gorm:"not null" json:"label"`
	URL       string `gorm:"type:text;not null" json:"url"`
	Position  int    `gorm:"not null;default:0" json:"position"`
}

// TagList splits the stored tags.
func (p Profile) TagList() []string {
	return SplitTags(p.Tags)
}

// SplitTags splits a comma separated tag string, dropping blanks.
func SplitTags(value string) []string {
	parts := strings.Split(value, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// JoinTags is the inverse of SplitTags.
func JoinTags(tags []string) string {
	return strings.Join(SplitTags(strings.Join(tags, ",")), ", ")
}
