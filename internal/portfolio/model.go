package portfolio

import (
	"strings"
	"time"

	"aura-backend/internal/httpx"
)

type Item struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty"`
	URL         string    `bson:"url,omitempty" json:"url,omitempty"`
	Files       []string  `bson:"files" json:"files"`
	Published   bool      `bson:"published" json:"published"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	URL         string     `json:"url" validate:"omitempty,url"`
	Files       []string   `json:"files"`
	Published   httpx.Flag `json:"published"`
}

type ListFilter struct {
	Title         string
	PublishedOnly bool
}

func (r *UpsertRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Image = strings.TrimSpace(r.Image)
	r.URL = strings.TrimSpace(r.URL)

	files := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	r.Files = files
}

// RequestFromForm reads a multipart portfolio form. files may be sent as
// repeated "files", "files[]" or indexed "files[N]" keys.
func RequestFromForm(f httpx.Form) UpsertRequest {
	return UpsertRequest{
		Title:       f.Get("title"),
		Description: f.Get("description"),
		Image:       f.Get("image"),
		URL:         f.Get("url"),
		Files:       f.Values("files"),
		Published:   httpx.Flag(httpx.ParseFlag(f.Get("published"))),
	}
}
