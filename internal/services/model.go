package services

import "time"

// Record is a stored Service document.
type Record struct {
	ID               string            `bson:"_id,omitempty" json:"id"`
	Title            string            `bson:"title" json:"title"`
	Description      string            `bson:"description" json:"description"`
	ShortDescription string            `bson:"short_description" json:"short_description"`
	MetaDescription  string            `bson:"metaDescription" json:"metaDescription"`
	Slug             string            `bson:"slug" json:"slug"`
	Detail           string            `bson:"detail" json:"detail"`
	Published        bool              `bson:"published" json:"published"`
	FAQs             *FAQSection       `bson:"faqs,omitempty" json:"faqs,omitempty"`
	HowWeDelivered   *DeliverySection  `bson:"how_we_delivered,omitempty" json:"how_we_delivered,omitempty"`
	Portfolio        *PortfolioSection `bson:"portfolio,omitempty" json:"portfolio,omitempty"`
	Video            *VideoSection     `bson:"video,omitempty" json:"video,omitempty"`
	CreatedAt        time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time         `bson:"updatedAt" json:"updatedAt"`
}

type FAQSection struct {
	Title       string `bson:"title,omitempty" json:"title,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Published   bool   `bson:"published" json:"published"`
}

type DeliverySection struct {
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`
	Published   bool   `bson:"published" json:"published"`
}

// PortfolioSection references portfolio items by id, in display order.
type PortfolioSection struct {
	Items     []string `bson:"items" json:"items"`
	Published bool     `bson:"published" json:"published"`
}

type VideoSection struct {
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	URL         string `bson:"url,omitempty" json:"url,omitempty"`
	Published   bool   `bson:"published" json:"published"`
}

// Summary is the abbreviated row returned by list endpoints. Published is only
// projected for the admin list.
type Summary struct {
	ID               string    `bson:"_id" json:"id"`
	Title            string    `bson:"title" json:"title"`
	ShortDescription string    `bson:"short_description" json:"short_description"`
	Published        *bool     `bson:"published,omitempty" json:"published,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

type SlugEntry struct {
	ID    string `bson:"_id" json:"id"`
	Slug  string `bson:"slug" json:"slug"`
	Title string `bson:"title" json:"title"`
}

type ListFilter struct {
	Title         string
	PublishedOnly bool
}
