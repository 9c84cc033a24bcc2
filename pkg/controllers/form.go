package controllers

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sukryu/labsite/pkg/store/document"
	"github.com/sukryu/labsite/pkg/store/schema"
)

// FieldErrors maps a field key to the reason its value was rejected.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %s", k, fe[k])
	}
	return strings.Join(parts, "; ")
}

// ParseSubmission turns raw form input into stored values. Input is trimmed,
// required fields must be non-empty, empty selects fall back to their first
// option and number fields are parsed.
func ParseSubmission(c schema.Collection, raw map[string]string) (document.Fields, FieldErrors) {
	in := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		in[k] = v
	}
	return NormalizeFields(c, in)
}

// NormalizeFields validates values against the collection schema. Keys that
// are not schema fields are dropped.
func NormalizeFields(c schema.Collection, in map[string]interface{}) (document.Fields, FieldErrors) {
	out := make(document.Fields, len(c.Schema))
	errs := FieldErrors{}
	for _, f := range c.Schema {
		v, msg := normalizeValue(f, in[f.Key])
		if msg != "" {
			errs[f.Key] = msg
			continue
		}
		out[f.Key] = v
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func normalizeValue(f schema.FieldDescriptor, v interface{}) (interface{}, string) {
	if f.Kind == schema.FieldKindNumber {
		switch n := v.(type) {
		case float64:
			return finite(n)
		case int:
			return float64(n), ""
		case int64:
			return float64(n), ""
		case json.Number:
			parsed, err := n.Float64()
			if err != nil {
				return nil, "must be a number"
			}
			return finite(parsed)
		}
	}

	s := strings.TrimSpace(schema.DisplayValue(v))
	if s == "" {
		switch {
		case f.Kind == schema.FieldKindSelect:
			return f.DefaultValue(), ""
		case f.Required():
			return nil, "is required"
		}
		return "", ""
	}

	switch f.Kind {
	case schema.FieldKindNumber:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, "must be a number"
		}
		return finite(n)
	case schema.FieldKindSelect:
		if !f.HasOption(s) {
			return nil, fmt.Sprintf("must be one of: %s", strings.Join(f.Options, ", "))
		}
	}
	return s, ""
}

// finite rejects NaN and infinities, which have no JSON encoding.
func finite(n float64) (interface{}, string) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, "must be a number"
	}
	return n, ""
}

// formValues renders stored fields as form input text, keyed by schema
// field. Missing fields render as "".
func formValues(c schema.Collection, fields document.Fields) map[string]string {
	out := make(map[string]string, len(c.Schema))
	for _, f := range c.Schema {
		out[f.Key] = schema.DisplayValue(fields[f.Key])
	}
	return out
}
