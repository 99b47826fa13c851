package httpx

import (
	"encoding/json"
	"strings"
)

// ParseFlag is the single boolean parser for request input: only the JSON literal
// true and the exact string "true" are true. Anything else, absent included, is false.
func ParseFlag(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	case Flag:
		return bool(t)
	default:
		return false
	}
}

// Flag decodes from true or "true"; every other JSON value decodes to false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Flag(ParseFlag(raw))
	return nil
}

func (f Flag) Bool() bool {
	return bool(f)
}

// Text is a string that remembers whether the client sent it at all.
// JSON null counts as sent and empty.
type Text struct {
	Value string
	Set   bool
}

func NewText(v string) Text {
	return Text{Value: v, Set: true}
}

func (t *Text) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*t = Text{Set: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Text{Value: s, Set: true}
	return nil
}

// ValidationValue makes validator tags apply to the underlying string.
func (t Text) ValidationValue() interface{} {
	return t.Value
}

// FormText reads key from a form, keeping track of presence.
func FormText(f Form, key string) Text {
	if !f.Has(key) {
		return Text{}
	}
	return NewText(f.Get(key))
}
