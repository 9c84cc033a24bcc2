package schema

import (
	"fmt"
	"strconv"
)

type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindTextarea FieldKind = "textarea"
	FieldKindNumber   FieldKind = "number"
	FieldKindSelect   FieldKind = "select"
)

// FieldDescriptor describes one form field of a collection.
type FieldDescriptor struct {
	Key      string    `json:"key" yaml:"key"`
	Label    string    `json:"label" yaml:"label"`
	Kind     FieldKind `json:"kind" yaml:"kind"`
	Options  []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Optional bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
}

func (f FieldDescriptor) Required() bool {
	return !f.Optional
}

// DefaultValue is the value a fresh form shows for the field.
func (f FieldDescriptor) DefaultValue() string {
	if f.Kind == FieldKindSelect && len(f.Options) > 0 {
		return f.Options[0]
	}
	return ""
}

// HasOption reports whether v is one of the enumerated options.
func (f FieldDescriptor) HasOption(v string) bool {
	for _, o := range f.Options {
		if o == v {
			return true
		}
	}
	return false
}

func (f FieldDescriptor) Validate() error {
	if f.Key == "" {
		return fmt.Errorf("field key cannot be empty")
	}
	switch f.Kind {
	case FieldKindText, FieldKindTextarea, FieldKindNumber:
		if len(f.Options) > 0 {
			return fmt.Errorf("field '%s': options are only allowed on select fields", f.Key)
		}
	case FieldKindSelect:
		if len(f.Options) == 0 {
			return fmt.Errorf("field '%s': select fields need at least one option", f.Key)
		}
	default:
		return fmt.Errorf("field '%s': unsupported kind %q", f.Key, f.Kind)
	}
	return nil
}

// CollectionSchema is the ordered field list of a collection. The first
// field is the list title, the second the subtitle.
type CollectionSchema []FieldDescriptor

func (s CollectionSchema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schema needs at least one field")
	}
	seen := make(map[string]bool, len(s))
	for _, f := range s {
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.Key] {
			return fmt.Errorf("duplicate field key '%s'", f.Key)
		}
		seen[f.Key] = true
	}
	return nil
}

func (s CollectionSchema) Field(key string) (FieldDescriptor, bool) {
	for _, f := range s {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

func (s CollectionSchema) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key
	}
	return keys
}

// Title returns the display value of the first schema field in fields.
func (s CollectionSchema) Title(fields map[string]interface{}) string {
	if len(s) == 0 {
		return ""
	}
	return DisplayValue(fields[s[0].Key])
}

// Subtitle returns the display value of the second schema field, or "" when
// the schema has a single field.
func (s CollectionSchema) Subtitle(fields map[string]interface{}) string {
	if len(s) < 2 {
		return ""
	}
	return DisplayValue(fields[s[1].Key])
}

// DisplayValue renders a stored value as form/list text. Absent values
// render as "".
func DisplayValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
