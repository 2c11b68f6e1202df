package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// looseString accepts a JSON string or any other scalar and keeps its text.
// Numbers keep their exact literal so "0.00003" and 0.00003 read the same.
type looseString struct {
	text string
	set  bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*l = looseString{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = looseString{text: s, set: true}
		return nil
	}
	*l = looseString{text: string(b), set: true}
	return nil
}

// or returns the text, or fallback when the field was absent or null.
func (l looseString) or(fallback string) string {
	if !l.set {
		return fallback
	}
	return l.text
}

// present reports whether a non-empty value was supplied.
func (l looseString) present() bool {
	return l.set && strings.TrimSpace(l.text) != ""
}

// parseInt parses the value as a base-10 integer.
func (l looseString) parseInt() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(l.text), 10, 64)
}

// decodeOptionalJSON decodes the request body into v. An empty body leaves v
// untouched.
func decodeOptionalJSON(body io.Reader, v any) error {
	if body == nil {
		return nil
	}
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
