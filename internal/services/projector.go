package services

import (
	"time"

	"aura-backend/internal/httpx"
	"go.mongodb.org/mongo-driver/bson"
)

// ProjectUpdate builds the $set document for an update. published is always
// written. Text fields are written when the client sent them. A section present in
// the request replaces the stored section wholesale; absent sections stay as stored.
func ProjectUpdate(req UpdateRequest, now time.Time) bson.M {
	set := bson.M{
		"published": req.Published.Bool(),
		"updatedAt": now,
	}

	setText(set, "title", req.Title)
	setText(set, "description", req.Description)
	setText(set, "short_description", req.ShortDescription)
	setText(set, "metaDescription", req.MetaDescription)
	setText(set, "slug", req.Slug)
	setText(set, "detail", req.Detail)

	if req.FAQs != nil {
		set["faqs"] = FAQSection{
			Title:       req.FAQs.Title,
			Description: req.FAQs.Description,
			Published:   req.FAQs.Published.Bool(),
		}
	}

	if req.HowWeDelivered != nil {
		set["how_we_delivered"] = DeliverySection{
			Description: req.HowWeDelivered.Description,
			Image:       req.HowWeDelivered.Image,
			Published:   req.HowWeDelivered.Published.Bool(),
		}
	}

	if req.Portfolio != nil {
		items := req.Portfolio.Items
		if items == nil {
			items = []string{}
		}
		set["portfolio"] = PortfolioSection{
			Items:     items,
			Published: req.Portfolio.Published.Bool(),
		}
	}

	if req.Video != nil {
		set["video"] = VideoSection{
			Description: req.Video.Description,
			URL:         req.Video.URL,
			Published:   req.Video.Published.Bool(),
		}
	}

	return set
}

func setText(set bson.M, key string, t httpx.Text) {
	if t.Set {
		set[key] = t.Value
	}
}
