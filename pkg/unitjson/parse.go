package unitjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNoUnits is returned when a document holds no units.
var ErrNoUnits = errors.New("no units in document")

func newDecoder(r io.Reader) *json.Decoder {
	d := json.NewDecoder(r)
	d.UseNumber()
	return d
}

// Parse reads one unit from a reader.
func Parse(r io.Reader) (*Unit, error) {
	var unit Unit
	if err := newDecoder(r).Decode(&unit); err != nil {
		return nil, fmt.Errorf("failed to parse unit: %w", err)
	}
	return &unit, nil
}

// ParseBytes parses one unit from a byte slice.
func ParseBytes(data []byte) (*Unit, error) {
	return Parse(bytes.NewReader(data))
}

// ParseBundle parses a document holding a single unit, an array of units or
// a bundle object.
func ParseBundle(data []byte) ([]Unit, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrNoUnits
	}
	var units []Unit
	switch trimmed[0] {
	case '[':
		if err := newDecoder(bytes.NewReader(trimmed)).Decode(&units); err != nil {
			return nil, fmt.Errorf("failed to parse units: %w", err)
		}
	default:
		var probe struct {
			Units json.RawMessage `json:"units"`
		}
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, fmt.Errorf("failed to parse units: %w", err)
		}
		if probe.Units != nil {
			var b Bundle
			if err := newDecoder(bytes.NewReader(trimmed)).Decode(&b); err != nil {
				return nil, fmt.Errorf("failed to parse bundle: %w", err)
			}
			units = b.Units
		} else {
			u, err := ParseBytes(trimmed)
			if err != nil {
				return nil, err
			}
			units = []Unit{*u}
		}
	}
	if len(units) == 0 {
		return nil, ErrNoUnits
	}
	return units, nil
}
