package dto

import (
	"time"

	"github.com/noah-isme/aegis-admin-api/internal/models"
)

// WallpaperResponse is the API shape of a wallpaper record.
type WallpaperResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type,omitempty"`
	CategoryID  *uint     `json:"category_id,omitempty"`
	UploadedBy  uint      `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewWallpaperResponse converts a wallpaper model.
func NewWallpaperResponse(w models.Wallpaper) WallpaperResponse {
	return WallpaperResponse{
		ID:          w.ID,
		Title:       w.Title,
		URL:         w.URL,
		ContentType: w.ContentType,
		CategoryID:  w.CategoryID,
		UploadedBy:  w.UploadedBy,
		CreatedAt:   w.CreatedAt,
	}
}

// NewWallpaperResponses converts a slice of wallpapers.
func NewWallpaperResponses(wallpapers []models.Wallpaper) []WallpaperResponse {
	responses := make([]WallpaperResponse, 0, len(wallpapers))
	for _, w := range wallpapers {
		responses = append(responses, NewWallpaperResponse(w))
	}
	return responses
}

// WallpaperCategoryResponse is the API shape of a category.
type WallpaperCategoryResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWallpaperCategoryResponse converts a category model.
func NewWallpaperCategoryResponse(c models.WallpaperCategory) WallpaperCategoryResponse {
	return WallpaperCategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// NewWallpaperCategoryResponses converts a slice of categories.
func NewWallpaperCategoryResponses(categories []models.WallpaperCategory) []WallpaperCategoryResponse {
	responses := make([]WallpaperCategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, NewWallpaperCategoryResponse(c))
	}
	return responses
}

// CreateWallpaperCategoryRequest names a new category.
type CreateWallpaperCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=128"`
}

// UploadWallpaperRequest carries the multipart form fields that accompany
// the image file.
type UploadWallpaperRequest struct {
	Title      string `json:"title" validate:"required,min=2,max=255"`
	CategoryID *uint  `json:"category_id"`
}
