package hex

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads a coordinate literal. Two forms are accepted: the input form
// [q, r] and the canonical output form {"q": q, "r": r}. Both components
// must be integer literals in int32 range.
func Parse(text string) (Axial, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Axial{}, &FormatError{Input: text, Reason: "empty input"}
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Axial{}, &FormatError{Input: text, Reason: err.Error()}
	}
	if _, err := dec.Token(); err != io.EOF {
		return Axial{}, &FormatError{Input: text, Reason: "trailing data after coordinate"}
	}

	switch v := raw.(type) {
	case []any:
		if len(v) != 2 {
			return Axial{}, &FormatError{Input: text, Reason: fmt.Sprintf("expected 2 components, got %d", len(v))}
		}
		q, err := component(text, "q", v[0])
		if err != nil {
			return Axial{}, err
		}
		r, err := component(text, "r", v[1])
		if err != nil {
			return Axial{}, err
		}
		return Axial{Q: q, R: r}, nil

	case map[string]any:
		for k := range v {
			if k != "q" && k != "r" {
				return Axial{}, &FormatError{Input: text, Reason: fmt.Sprintf("unknown field %q", k)}
			}
		}
		qv, ok := v["q"]
		if !ok {
			return Axial{}, &FormatError{Input: text, Reason: `missing field "q"`}
		}
		rv, ok := v["r"]
		if !ok {
			return Axial{}, &FormatError{Input: text, Reason: `missing field "r"`}
		}
		q, err := component(text, "q", qv)
		if err != nil {
			return Axial{}, err
		}
		r, err := component(text, "r", rv)
		if err != nil {
			return Axial{}, err
		}
		return Axial{Q: q, R: r}, nil

	default:
		return Axial{}, &FormatError{Input: text, Reason: `expected [q, r] or {"q": q, "r": r}`}
	}
}

// MustParse is Parse for literals known to be valid, such as test fixtures.
func MustParse(text string) Axial {
	a, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return a
}

func component(input, name string, v any) (int32, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, &FormatError{Input: input, Reason: fmt.Sprintf("%s is not a number", name)}
	}
	i, err := strconv.ParseInt(n.String(), 10, 32)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, &FormatError{Input: input, Reason: fmt.Sprintf("%s is out of int32 range", name)}
		}
		return 0, &FormatError{Input: input, Reason: fmt.Sprintf("%s is not an integer", name)}
	}
	return int32(i), nil
}

// String returns the canonical text form {"q":Q,"r":R}.
func (a Axial) String() string {
	return string(a.appendText(make([]byte, 0, 32)))
}

func (a Axial) appendText(b []byte) []byte {
	b = append(b, `{"q":`...)
	b = strconv.AppendInt(b, int64(a.Q), 10)
	b = append(b, `,"r":`...)
	b = strconv.AppendInt(b, int64(a.R), 10)
	return append(b, '}')
}

// MarshalText implements encoding.TextMarshaler.
func (a Axial) MarshalText() ([]byte, error) {
	return a.appendText(nil), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axial) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalJSON emits the canonical object form.
func (a Axial) MarshalJSON() ([]byte, error) {
	return a.appendText(nil), nil
}

// UnmarshalJSON accepts either literal form. JSON null leaves a unchanged.
func (a *Axial) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	return a.UnmarshalText(data)
}
