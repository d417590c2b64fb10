// Package items turns the loosely shaped item input of a list filter node
// into an ordered list of item names.
package items

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const separator = ","

type Kind int

const (
	KindInvalid Kind = iota
	KindSequence
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindText:
		return "text"
	default:
		return "invalid"
	}
}

// Input is either an ordered sequence of values or a piece of text.
// The zero value is an invalid input and normalizes to an empty list.
type Input struct {
	kind   Kind
	values []any
	text   string
}

func Sequence(values []any) Input {
	return Input{kind: KindSequence, values: values}
}

func Text(text string) Input {
	return Input{kind: KindText, text: text}
}

// FromValue resolves a decoded JSON value (or a native Go value) into an
// Input. Shapes other than sequences and text yield an invalid Input.
func FromValue(v any) Input {
	switch val := v.(type) {
	case Input:
		return val
	case []any:
		return Sequence(val)
	case []string:
		values := make([]any, len(val))
		for i, s := range val {
			values[i] = s
		}
		return Sequence(values)
	case string:
		return Text(val)
	case json.RawMessage:
		decoded, err := DecodeJSON(string(val))
		if err != nil {
			return Input{}
		}
		return FromValue(decoded)
	default:
		return Input{}
	}
}

func (in Input) Kind() Kind {
	return in.kind
}

type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize never fails: inputs that cannot be interpreted produce an
// empty, non-nil list.
func (n *Normalizer) Normalize(in Input) []string {
	switch in.kind {
	case KindSequence:
		return stringifyAll(in.values)
	case KindText:
		if strings.HasPrefix(strings.TrimSpace(in.text), "[") {
			decoded, err := DecodeJSON(in.text)
			if err == nil {
				if values, ok := decoded.([]any); ok {
					return stringifyAll(values)
				}
			}
			n.logger.Debug("Item text is not a JSON array, splitting on commas", "error", err)
		}
		return splitCSV(in.text)
	default:
		n.logger.Debug("Unsupported item input, using empty list")
		return []string{}
	}
}

func Normalize(in Input) []string {
	return NewNormalizer(nil).Normalize(in)
}

// Stringify returns the name used for a single item value.
func Stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []any, map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func stringifyAll(values []any) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, Stringify(v))
	}
	return result
}

func splitCSV(text string) []string {
	parts := strings.Split(text, separator)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		result = append(result, p)
	}
	return result
}

var errTrailingData = errors.New("unexpected data after JSON value")

// DecodeJSON decodes exactly one JSON value, keeping numbers in their
// literal form.
func DecodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}

	return v, nil
}
