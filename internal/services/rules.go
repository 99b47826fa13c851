package services

import (
	"aura-backend/internal/validation"
)

const (
	MessageMissingFields = "Some fields are missing!"
	MessageConflict      = "Validation failed!"
)

var fieldMessages = map[string]string{
	"title":                        "Title is required",
	"description":                  "Description is required",
	"short_description":            "Short description is required",
	"metaDescription":              "Meta description is required",
	"slug":                         "Slug is required",
	"detail":                       "Detail is required",
	"faqs.title":                   "FAQs title is required",
	"faqs.description":             "FAQs description is required",
	"how_we_delivered.description": "Description is required",
	"how_we_delivered.image":       "Image is required",
	"video.description":            "Video description is required",
	"video.url":                    "Video URL is required",
}

// ValidateCreate checks the create rule set. Fields are only required when the
// request is published.
func ValidateCreate(v *validation.Validator, req CreateRequest) []validation.Violation {
	return v.Violations(req, fieldMessages)
}

// ValidateUpdate checks the update rule set and every nested section, each gated
// on its own published flag.
func ValidateUpdate(v *validation.Validator, req UpdateRequest) []validation.Violation {
	return v.Violations(req, fieldMessages)
}
