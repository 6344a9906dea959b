package models

import "time"

// WallpaperCategory groups wallpapers for browsing.
type WallpaperCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Wallpaper stores metadata for an image hosted on the external image host.
type Wallpaper struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	URL         string    `gorm:"size:512;not null" json:"url"`
	ContentType string    `gorm:"size:64" json:"content_type"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	UploadedBy  uint      `gorm:"index" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
