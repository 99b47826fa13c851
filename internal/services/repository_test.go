package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListQueryPublicFiltersPublished(t *testing.T) {
	got := listQuery(ListFilter{PublishedOnly: true, Title: "a.b"})
	assert.Equal(t, bson.M{
		"published": true,
		"title":     primitive.Regex{Pattern: `a\.b`, Options: "i"},
	}, got)
}

func TestListQueryAdminIncludesUnpublished(t *testing.T) {
	got := listQuery(ListFilter{})
	assert.Equal(t, bson.M{}, got)
	assert.NotContains(t, got, "published")

	projection := listProjection(ListFilter{})
	assert.Equal(t, 1, projection["published"])
	assert.NotContains(t, listProjection(ListFilter{PublishedOnly: true}), "published")
}

func TestListQueryTitleIsLiteral(t *testing.T) {
	got := listQuery(ListFilter{Title: "SEO (2024)+"})
	assert.Equal(t, primitive.Regex{Pattern: `SEO \(2024\)\+`, Options: "i"}, got["title"])
}

func TestPublishedSlugsQuery(t *testing.T) {
	assert.Equal(t, bson.M{"published": true}, publishedSlugsQuery())
}
