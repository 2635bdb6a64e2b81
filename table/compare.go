package table

import (
	"cmp"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// LooseEqual reports whether a and b are equal under type-coercive
// comparison: numbers and numeric strings compare by value, booleans and nil
// compare by truthiness and composite values compare element by element.
func LooseEqual(a, b any) bool {

	a, b = normalize(a), normalize(b)

	if a == nil && b == nil {
		return true
	}

	_, aBool := a.(bool)
	_, bBool := b.(bool)
	if aBool || bBool {
		return truthy(a) == truthy(b)
	}

	if a == nil {
		if s, ok := b.(string); ok {
			return s == ""
		}
		return !truthy(b)
	}
	if b == nil {
		return LooseEqual(b, a)
	}

	if isNumber(a) {
		switch bv := b.(type) {
		case int64, float64:
			return compareNumbers(a, b) == 0
		case string:
			if n, ok := parseNumeric(bv); ok {
				return compareNumbers(a, n) == 0
			}
			return formatNumber(a) == bv
		}
		return false
	}

	switch av := a.(type) {
	case string:
		switch bv := b.(type) {
		case int64, float64:
			return LooseEqual(b, a)
		case string:
			an, aok := parseNumeric(av)
			bn, bok := parseNumeric(bv)
			if aok && bok {
				return compareNumbers(an, bn) == 0
			}
			return av == bv
		}
		return false

	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !LooseEqual(av[i], bv[i]) {
				return false
			}
		}
		return true

	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, exists := bv[k]
			if !exists || !LooseEqual(v, w) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

// Compare orders two values the way the natural sort of a table does.
// Objects with fewer fields come first; objects of the same size are compared
// key by key and a key missing from b orders a after b.
func Compare(a, b any) int {

	a, b = normalize(a), normalize(b)

	if a == nil && b == nil {
		return 0
	}

	_, aBool := a.(bool)
	_, bBool := b.(bool)
	if aBool || bBool {
		return compareBool(truthy(a), truthy(b))
	}

	if a == nil {
		if s, ok := b.(string); ok {
			return strings.Compare("", s)
		}
		return compareBool(false, truthy(b))
	}
	if b == nil {
		return -Compare(b, a)
	}

	aRank, bRank := rank(a), rank(b)
	if aRank == rankComposite || bRank == rankComposite {
		if aRank != bRank {
			if aRank == rankComposite {
				return 1
			}
			return -1
		}
		return compareComposite(a, b)
	}

	if isNumber(a) {
		switch bv := b.(type) {
		case int64, float64:
			return compareNumbers(a, b)
		case string:
			if n, ok := parseNumeric(bv); ok {
				return compareNumbers(a, n)
			}
			return strings.Compare(formatNumber(a), bv)
		}
	}

	if av, ok := a.(string); ok {
		switch bv := b.(type) {
		case int64, float64:
			return -Compare(b, a)
		case string:
			an, aok := parseNumeric(av)
			bn, bok := parseNumeric(bv)
			if aok && bok {
				return compareNumbers(an, bn)
			}
			return strings.Compare(av, bv)
		}
	}

	return 0
}

func compareComposite(a, b any) int {

	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok {
			return compareLen(len(av), compositeLen(b), 1)
		}
		if c := compareLen(len(av), len(bv), 0); c != 0 {
			return c
		}
		for i := range av {
			if c := Compare(av[i], bv[i]); c != 0 {
				return c
			}
		}
		return 0

	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok {
			return compareLen(len(av), compositeLen(b), 1)
		}
		if c := compareLen(len(av), len(bv), 0); c != 0 {
			return c
		}
		keys := make([]string, 0, len(av))
		for k := range av {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			w, exists := bv[k]
			if !exists {
				return 1
			}
			if c := Compare(av[k], w); c != 0 {
				return c
			}
		}
		return 0
	}

	return 0
}

func compareLen(a, b, tie int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return tie
}

func compositeLen(v any) int {
	switch vv := v.(type) {
	case []any:
		return len(vv)
	case map[string]any:
		return len(vv)
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func isNumber(v any) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}
	return false
}

// compareNumbers compares two normalized numbers. Two integers compare
// exactly, any other pair as float64.
func compareNumbers(a, b any) int {
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	if aInt && bInt {
		return cmp.Compare(ai, bi)
	}
	return compareFloat(toFloat(a), toFloat(b))
}

func toFloat(v any) float64 {
	switch vv := v.(type) {
	case int64:
		return float64(vv)
	case float64:
		return vv
	}
	return 0
}

const (
	rankScalar = iota
	rankComposite
)

func rank(v any) int {
	switch v.(type) {
	case []any, map[string]any:
		return rankComposite
	}
	return rankScalar
}

// normalize maps integer kinds to int64, other numbers to float64 and rows
// to plain maps so the comparison functions only deal with json-like values.
func normalize(v any) any {
	switch vv := v.(type) {
	case Row:
		return map[string]any(vv)
	case int:
		return int64(vv)
	case int8:
		return int64(vv)
	case int16:
		return int64(vv)
	case int32:
		return int64(vv)
	case uint:
		return normalize(uint64(vv))
	case uint8:
		return int64(vv)
	case uint16:
		return int64(vv)
	case uint32:
		return int64(vv)
	case uint64:
		if vv > math.MaxInt64 {
			return float64(vv)
		}
		return int64(vv)
	case float32:
		return float64(vv)
	case json.Number:
		if n, ok := parseNumeric(string(vv)); ok {
			return n
		}
		return string(vv)
	}
	return v
}

func truthy(v any) bool {
	switch vv := normalize(v).(type) {
	case nil:
		return false
	case bool:
		return vv
	case int64:
		return vv != 0
	case float64:
		return vv != 0
	case string:
		return vv != "" && vv != "0"
	case []any:
		return len(vv) > 0
	case map[string]any:
		return len(vv) > 0
	}
	return true
}

// parseNumeric accepts optional surrounding whitespace, an optional sign,
// digits with an optional fraction and an optional exponent. Integers that
// fit are returned as int64, everything else as float64.
func parseNumeric(s string) (any, bool) {

	t := strings.TrimSpace(s)
	i, digits := 0, 0
	integral := true

	if i < len(t) && (t[i] == '+' || t[i] == '-') {
		i++
	}
	for i < len(t) && isDigit(t[i]) {
		i++
		digits++
	}
	if i < len(t) && t[i] == '.' {
		integral = false
		i++
		for i < len(t) && isDigit(t[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if i < len(t) && (t[i] == 'e' || t[i] == 'E') {
		j := i + 1
		if j < len(t) && (t[j] == '+' || t[j] == '-') {
			j++
		}
		k := j
		for k < len(t) && isDigit(t[k]) {
			k++
		}
		if k == j {
			return 0, false
		}
		integral = false
		i = k
	}
	if i != len(t) {
		return 0, false
	}

	if integral {
		n, err := strconv.ParseInt(t, 10, 64)
		if err == nil {
			return n, true
		}
	}

	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return f, errors.Is(err, strconv.ErrRange)
	}
	return f, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func formatNumber(v any) string {
	if i, ok := v.(int64); ok {
		return strconv.FormatInt(i, 10)
	}
	f := toFloat(v)
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'G', 14, 64)
}

// clone deep copies json-like values.
func clone(v any) any {
	switch vv := v.(type) {
	case Row:
		return cloneRow(vv)
	case map[string]any:
		m := make(map[string]any, len(vv))
		for k, item := range vv {
			m[k] = clone(item)
		}
		return m
	case []any:
		s := make([]any, len(vv))
		for i, item := range vv {
			s[i] = clone(item)
		}
		return s
	}
	return v
}

func cloneRow(r Row) Row {
	if r == nil {
		return nil
	}
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = clone(v)
	}
	return c
}
