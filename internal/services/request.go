package services

import (
	"encoding/json"
	"strings"

	"aura-backend/internal/httpx"
)

type CreateRequest struct {
	Title            string     `json:"title" validate:"required_if=Published true"`
	Description      string     `json:"description" validate:"required_if=Published true"`
	ShortDescription string     `json:"short_description" validate:"required_if=Published true"`
	MetaDescription  string     `json:"metaDescription" validate:"required_if=Published true"`
	Slug             string     `json:"slug" validate:"required_if=Published true"`
	Detail           string     `json:"detail" validate:"required_if=Published true"`
	Published        httpx.Flag `json:"published"`
}

// UpdateRequest requires fewer top-level fields than CreateRequest:
// short_description and detail may be blank on a published update.
type UpdateRequest struct {
	Title            httpx.Text      `json:"title" validate:"required_if=Published true"`
	Description      httpx.Text      `json:"description" validate:"required_if=Published true"`
	ShortDescription httpx.Text      `json:"short_description"`
	MetaDescription  httpx.Text      `json:"metaDescription" validate:"required_if=Published true"`
	Slug             httpx.Text      `json:"slug" validate:"required_if=Published true"`
	Detail           httpx.Text      `json:"detail"`
	Published        httpx.Flag      `json:"published"`
	FAQs             *FAQInput       `json:"faqs" validate:"omitempty"`
	HowWeDelivered   *DeliveryInput  `json:"how_we_delivered" validate:"omitempty"`
	Portfolio        *PortfolioInput `json:"portfolio" validate:"omitempty"`
	Video            *VideoInput     `json:"video" validate:"omitempty"`
}

type FAQInput struct {
	Title       string     `json:"title" validate:"required_if=Published true"`
	Description string     `json:"description" validate:"required_if=Published true"`
	Published   httpx.Flag `json:"published"`
}

type DeliveryInput struct {
	Description string     `json:"description" validate:"required_if=Published true"`
	Image       string     `json:"image" validate:"required_if=Published true"`
	Published   httpx.Flag `json:"published"`
}

// PortfolioInput has no required fields even when published.
type PortfolioInput struct {
	Items     []string   `json:"items"`
	Published httpx.Flag `json:"published"`
}

type VideoInput struct {
	Description string     `json:"description" validate:"required_if=Published true"`
	URL         string     `json:"url" validate:"required_if=Published true"`
	Published   httpx.Flag `json:"published"`
}

func (r *CreateRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.ShortDescription = strings.TrimSpace(r.ShortDescription)
	r.MetaDescription = strings.TrimSpace(r.MetaDescription)
	r.Slug = strings.TrimSpace(r.Slug)
	r.Detail = strings.TrimSpace(r.Detail)
}

func (r *UpdateRequest) normalize() {
	r.Title.Value = strings.TrimSpace(r.Title.Value)
	r.Description.Value = strings.TrimSpace(r.Description.Value)
	r.ShortDescription.Value = strings.TrimSpace(r.ShortDescription.Value)
	r.MetaDescription.Value = strings.TrimSpace(r.MetaDescription.Value)
	r.Slug.Value = strings.TrimSpace(r.Slug.Value)
	r.Detail.Value = strings.TrimSpace(r.Detail.Value)
}

// UpdateRequestFromForm builds an UpdateRequest from multipart fields. Nested
// sections use bracket keys (faqs[title]); a section sent as a single JSON-encoded
// field (faqs='{"title":...}') is accepted too.
func UpdateRequestFromForm(f httpx.Form) (UpdateRequest, error) {
	req := UpdateRequest{
		Title:            httpx.FormText(f, "title"),
		Description:      httpx.FormText(f, "description"),
		ShortDescription: httpx.FormText(f, "short_description"),
		MetaDescription:  httpx.FormText(f, "metaDescription"),
		Slug:             httpx.FormText(f, "slug"),
		Detail:           httpx.FormText(f, "detail"),
		Published:        httpx.Flag(httpx.ParseFlag(f.Get("published"))),
	}

	if f.HasSection("faqs") {
		req.FAQs = &FAQInput{}
		if ok, err := formJSON(f, "faqs", req.FAQs); err != nil {
			return UpdateRequest{}, err
		} else if !ok {
			req.FAQs.Title = f.Field("faqs", "title")
			req.FAQs.Description = f.Field("faqs", "description")
			req.FAQs.Published = httpx.Flag(httpx.ParseFlag(f.Field("faqs", "published")))
		}
	}

	if f.HasSection("how_we_delivered") {
		req.HowWeDelivered = &DeliveryInput{}
		if ok, err := formJSON(f, "how_we_delivered", req.HowWeDelivered); err != nil {
			return UpdateRequest{}, err
		} else if !ok {
			req.HowWeDelivered.Description = f.Field("how_we_delivered", "description")
			req.HowWeDelivered.Image = f.Field("how_we_delivered", "image")
			req.HowWeDelivered.Published = httpx.Flag(httpx.ParseFlag(f.Field("how_we_delivered", "published")))
		}
	}

	if f.HasSection("portfolio") {
		req.Portfolio = &PortfolioInput{}
		if ok, err := formJSON(f, "portfolio", req.Portfolio); err != nil {
			return UpdateRequest{}, err
		} else if !ok {
			req.Portfolio.Items = f.List("portfolio", "items")
			req.Portfolio.Published = httpx.Flag(httpx.ParseFlag(f.Field("portfolio", "published")))
		}
	}

	if f.HasSection("video") {
		req.Video = &VideoInput{}
		if ok, err := formJSON(f, "video", req.Video); err != nil {
			return UpdateRequest{}, err
		} else if !ok {
			req.Video.Description = f.Field("video", "description")
			req.Video.URL = f.Field("video", "url")
			req.Video.Published = httpx.Flag(httpx.ParseFlag(f.Field("video", "published")))
		}
	}

	return req, nil
}

func formJSON(f httpx.Form, key string, dst interface{}) (bool, error) {
	raw := strings.TrimSpace(f.Get(key))
	if !strings.HasPrefix(raw, "{") {
		return false, nil
	}
	return true, json.Unmarshal([]byte(raw), dst)
}
