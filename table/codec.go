package table

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// UnmarshalJSONFrom decodes a row keeping integral numbers as int64, so
// large ids survive a load and save cycle unchanged.
func (r *Row) UnmarshalJSONFrom(dec *jsontext.Decoder) error {

	switch dec.PeekKind() {
	case 'n':
		_, err := dec.ReadToken()
		*r = nil
		return err
	case '{':
	default:
		if err := dec.SkipValue(); err != nil {
			return err
		}
		return errors.New("row must be a JSON object")
	}

	v, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*r = v.(map[string]any)

	return nil
}

// ParseValue decodes a single JSON value with the same number handling as
// rows: integers become int64, every other number float64.
func ParseValue(data []byte) (any, error) {
	v := exactValue{}
	err := json.Unmarshal(data, &v)
	return v.value, err
}

type exactValue struct {
	value any
}

func (e *exactValue) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	v, err := decodeValue(dec)
	e.value = v
	return err
}

func decodeValue(dec *jsontext.Decoder) (any, error) {

	switch dec.PeekKind() {
	case '{':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		m := map[string]any{}
		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			m[name.String()] = v
		}
		_, err := dec.ReadToken()
		return m, err

	case '[':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		s := []any{}
		for dec.PeekKind() != ']' {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		_, err := dec.ReadToken()
		return s, err
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}

	switch tok.Kind() {
	case 'n':
		return nil, nil
	case 't', 'f':
		return tok.Bool(), nil
	case '"':
		return tok.String(), nil
	case '0':
		return parseNumber(tok.String())
	}

	return nil, fmt.Errorf("unexpected token %s", tok.Kind())
}

// parseNumber converts a JSON number literal to int64 when it is an integer
// that fits, to float64 otherwise.
func parseNumber(literal string) (any, error) {
	i, err := strconv.ParseInt(literal, 10, 64)
	if err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return nil, fmt.Errorf("number %s: %w", literal, err)
	}
	return f, nil
}
