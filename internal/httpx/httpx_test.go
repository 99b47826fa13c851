package httpx

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Page
	}{
		{name: "defaults", query: "", want: Page{Page: 1, Limit: 10}},
		{name: "explicit", query: "page=2&limit=5", want: Page{Page: 2, Limit: 5}},
		{name: "non numeric", query: "page=abc&limit=x", want: Page{Page: 1, Limit: 10}},
		{name: "zero", query: "page=0&limit=0", want: Page{Page: 1, Limit: 10}},
		{name: "negative", query: "page=-2&limit=-5", want: Page{Page: 1, Limit: 10}},
		{name: "no upper bound", query: "limit=5000", want: Page{Page: 1, Limit: 5000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ParsePage(values))
		})
	}
}

func TestPageMaths(t *testing.T) {
	p := Page{Page: 2, Limit: 5}
	assert.Equal(t, int64(5), p.Skip())
	assert.Equal(t, int64(3), p.TotalPages(12))
	assert.Equal(t, int64(0), p.TotalPages(0))
	assert.Equal(t, int64(1), Page{Page: 1, Limit: 10}.TotalPages(10))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON(strings.NewReader(`{"name":"a"}`), &dst))
	assert.Error(t, DecodeJSON(strings.NewReader(`{"name":"a","extra":1}`), &dst))
	assert.Error(t, DecodeJSON(strings.NewReader(`{"name":"a"}{"name":"b"}`), &dst))
	require.NoError(t, DecodeLooseJSON(strings.NewReader(`{"name":"b","extra":1}`), &dst))
	assert.Equal(t, "b", dst.Name)
}

func TestIDListClean(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, IDList{IDs: []string{" a", "", "b ", "  "}}.Clean())
	assert.Empty(t, IDList{}.Clean())
}

func TestFormSections(t *testing.T) {
	f := Form(url.Values{
		"title":                 {"A"},
		"faqs[title]":           {"Q"},
		"portfolio[items][1]":   {"second"},
		"portfolio[items][0]":   {"first"},
		"portfolio[published]":  {"true"},
		"video[items][]":        {"x", "y"},
	})
	assert.True(t, f.HasSection("faqs"))
	assert.False(t, f.HasSection("how_we_delivered"))
	assert.Equal(t, "Q", f.Field("faqs", "title"))
	assert.Equal(t, []string{"first", "second"}, f.List("portfolio", "items"))
	assert.Equal(t, []string{"x", "y"}, f.List("video", "items"))
	assert.Empty(t, f.List("faqs", "items"))
}
