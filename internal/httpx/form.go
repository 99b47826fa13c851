package httpx

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Form reads multipart or urlencoded values that use bracket notation for nested
// objects, e.g. faqs[title] or portfolio[items][0].
type Form url.Values

func (f Form) Has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f Form) Get(key string) string {
	return url.Values(f).Get(key)
}

// HasSection reports whether any key addresses the named nested object.
func (f Form) HasSection(name string) bool {
	if f.Has(name) {
		return true
	}
	prefix := name + "["
	for key := range f {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// Field returns section[field].
func (f Form) Field(section, field string) string {
	return f.Get(section + "[" + field + "]")
}

// List collects section[field][] and section[field][N] values, ordered by index.
func (f Form) List(section, field string) []string {
	return f.Values(section + "[" + field + "]")
}

// Values collects key[] and key[N] values, ordered by index. Plain repeated key
// values are used when neither form is present.
func (f Form) Values(key string) []string {
	out := append([]string(nil), f[key+"[]"]...)

	type indexed struct {
		idx int
		val string
	}
	var numbered []indexed
	for k, vals := range f {
		if !strings.HasPrefix(k, key+"[") || !strings.HasSuffix(k, "]") {
			continue
		}
		idx, err := strconv.Atoi(k[len(key)+1 : len(k)-1])
		if err != nil || len(vals) == 0 {
			continue
		}
		numbered = append(numbered, indexed{idx: idx, val: vals[0]})
	}
	sort.Slice(numbered, func(i, j int) bool { return numbered[i].idx < numbered[j].idx })
	for _, n := range numbered {
		out = append(out, n.val)
	}
	if len(out) == 0 {
		out = append(out, f[key]...)
	}
	return out
}
