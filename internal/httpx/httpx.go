package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

func DecodeJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return decodeSingle(dec, v)
}

// DecodeLooseJSON accepts unknown fields. Admin forms post whole records back
// (with id, createdAt and friends) and those keys must be ignored.
func DecodeLooseJSON(body io.Reader, v interface{}) error {
	return decodeSingle(json.NewDecoder(body), v)
}

func decodeSingle(dec *json.Decoder, v interface{}) error {
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// Page is the page/limit pair of a list request.
type Page struct {
	Page  int64
	Limit int64
}

func (p Page) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

func (p Page) TotalPages(total int64) int64 {
	if p.Limit <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(total) / float64(p.Limit)))
}

// ParsePage reads page and limit. Missing, non-numeric, zero and negative values
// all fall back to the defaults; there is no upper bound on limit.
func ParsePage(values url.Values) Page {
	return Page{
		Page:  positiveOr(values.Get("page"), DefaultPage),
		Limit: positiveOr(values.Get("limit"), DefaultLimit),
	}
}

func positiveOr(raw string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// IDList is the body of batch delete requests.
type IDList struct {
	IDs []string `json:"ids"`
}

// Clean trims ids and drops blanks.
func (l IDList) Clean() []string {
	out := make([]string, 0, len(l.IDs))
	for _, id := range l.IDs {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
