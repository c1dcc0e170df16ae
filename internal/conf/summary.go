package conf

import (
	"fmt"
	"strings"
)

// summaryKeys are the harness config fields worth surfacing in one-line
// displays. Missing keys render as N/A.
var summaryKeys = []string{"io-threads", "cluster_mode", "tls_mode"}

// Summary renders a short human-readable digest of a document for logs and
// query listings. Array documents are summarized by their first object.
func Summary(v Value) string {
	obj, ok := firstObject(v)
	if !ok {
		return ""
	}

	parts := make([]string, 0, len(summaryKeys))
	for _, key := range summaryKeys {
		parts = append(parts, fmt.Sprintf("%s=%s", key, scalarDisplay(obj[key])))
	}
	return strings.Join(parts, " ")
}

// Field returns the display form of one top-level field of a document,
// looking inside the first object of array documents. Returns "N/A" when
// the field is absent.
func Field(v Value, key string) string {
	obj, ok := firstObject(v)
	if !ok {
		return "N/A"
	}
	return scalarDisplay(obj[key])
}

func firstObject(v Value) (Object, bool) {
	switch val := v.(type) {
	case Object:
		return val, true
	case List:
		if len(val) == 0 {
			return nil, false
		}
		obj, ok := val[0].(Object)
		return obj, ok
	default:
		return nil, false
	}
}

func scalarDisplay(v Value) string {
	switch val := v.(type) {
	case nil:
		return "N/A"
	case Null:
		return "null"
	case Bool:
		return fmt.Sprintf("%t", bool(val))
	case String:
		return string(val)
	case Number:
		return string(val)
	default:
		data, err := MarshalCanonical(val)
		if err != nil {
			return "?"
		}
		return string(data)
	}
}
