package conf

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"
)

// Value is a sealed interface over the shapes a configuration document may
// contain. Only Null, Bool, String, Number, List, and Object implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents a JSON/YAML null.
// Using an explicit type ensures all Values satisfy the sealed interface.
type Null struct{}

func (Null) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// String represents a string value.
type String string

func (String) value() {}

// Number holds a numeric value as its source literal (e.g. "64", "0.5").
// Keeping the literal avoids float64 round-trips corrupting large integers
// and keeps canonical serialization faithful to what the operator wrote.
type Number string

func (Number) value() {}

// Int64 returns the number as an int64, or an error if it is not integral.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Float64 returns the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// List represents an array of values.
type List []Value

func (List) value() {}

// Object represents a map of string keys to values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// IsScalar reports whether v is a leaf value (not a List or Object).
func IsScalar(v Value) bool {
	switch v.(type) {
	case Null, Bool, String, Number:
		return true
	default:
		return false
	}
}

// IsDocument reports whether v has a valid document shape: an Object, or a
// List whose elements are all Objects. The ledger only stores documents.
func IsDocument(v Value) bool {
	switch val := v.(type) {
	case Object:
		return true
	case List:
		for _, elem := range val {
			if _, ok := elem.(Object); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ScalarEqual compares two scalar values for equality. Numbers compare
// numerically (so "1" and "1.0" are equal), everything else by identity.
// Non-scalar inputs are never equal under this relation.
func ScalarEqual(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return false
		}
		return numberEqual(av, bv)
	default:
		return false
	}
}

// numberEqual compares number literals numerically. Integer comparison is
// tried first so values beyond float64 precision still compare exactly.
func numberEqual(a, b Number) bool {
	if a == b {
		return true
	}
	ai, aerr := a.Int64()
	bi, berr := b.Int64()
	if aerr == nil && berr == nil {
		return ai == bi
	}
	af, aerr := a.Float64()
	bf, berr := b.Float64()
	if aerr != nil || berr != nil {
		return false
	}
	return af == bf
}

// SortedKeys returns the object's keys in UTF-16 code unit order, matching
// RFC 8785 canonical JSON key ordering.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings by UTF-16 code units as required by
// RFC 8785. Go's native string comparison uses UTF-8 bytes, which produces
// a different order for keys outside the BMP.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// FromGo converts a decoded Go value (as produced by encoding/json with
// UseNumber, or by yaml.v3) into a Value.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		return Number(val), nil
	case int:
		return Number(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return Number(strconv.FormatInt(val, 10)), nil
	case uint64:
		return Number(strconv.FormatUint(val, 10)), nil
	case float64:
		return Number(strconv.FormatFloat(val, 'g', -1, 64)), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			cv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = cv
		}
		return list, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			cv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			obj[k] = cv
		}
		return obj, nil
	case map[any]any:
		// yaml.v2-style maps; yaml.v3 produces map[string]any but keep this
		// tolerant for callers converting foreign data.
		obj := make(Object, len(val))
		for k, elem := range val {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string object key %v (%T)", k, k)
			}
			cv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", ks, err)
			}
			obj[ks] = cv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported config value type %T", v)
	}
}
