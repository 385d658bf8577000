package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Outcome tells how a stored value was turned into a typed one
type Outcome int

const (
	// Decoded means the stored value was well formed
	Decoded Outcome = iota
	// Absent means nothing usable was stored and the default was returned
	Absent
	// Fallback means the stored value was malformed and the default was returned
	Fallback
)

func (o Outcome) String() string {
	switch o {
	case Decoded:
		return "decoded"
	case Absent:
		return "absent"
	case Fallback:
		return "fallback"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

type shape int

const (
	shapeArray shape = iota
	shapeObject
)

var (
	errInvalidJSON = errors.New("value is not valid JSON")
	errWrongShape  = errors.New("value has the wrong JSON type")
)

// decode parses raw into T. Missing values, JSON null and the literal
// "undefined" yield def with Absent. Anything that is not the expected JSON
// shape or does not unmarshal yields def with Fallback and the cause.
func decode[T any](raw []byte, found bool, want shape, def func() T) (T, Outcome, error) {
	trimmed := bytes.TrimSpace(raw)
	if !found || len(trimmed) == 0 || string(trimmed) == "undefined" || string(trimmed) == "null" {
		return def(), Absent, nil
	}

	if !gjson.ValidBytes(trimmed) {
		return def(), Fallback, errInvalidJSON
	}
	parsed := gjson.ParseBytes(trimmed)
	if (want == shapeArray && !parsed.IsArray()) || (want == shapeObject && !parsed.IsObject()) {
		return def(), Fallback, fmt.Errorf("%w: got %s", errWrongShape, parsed.Type)
	}

	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return def(), Fallback, err
	}
	return out, Decoded, nil
}
