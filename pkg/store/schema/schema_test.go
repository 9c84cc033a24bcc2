package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var teamSchema = CollectionSchema{
	{Key: "name", Label: "Name", Kind: FieldKindText},
	{Key: "role", Label: "Role", Kind: FieldKindSelect, Options: []string{"faculty", "student"}},
	{Key: "interests", Label: "Interests", Kind: FieldKindText},
	{Key: "image", Label: "Image URL", Kind: FieldKindText},
}

func TestCollectionSchema_Validate(t *testing.T) {
	tests := []struct {
		name    string
		schema  CollectionSchema
		wantErr string
	}{
		{name: "valid", schema: teamSchema},
		{name: "empty", schema: CollectionSchema{}, wantErr: "at least one field"},
		{
			name: "duplicate key",
			schema: CollectionSchema{
				{Key: "title", Kind: FieldKindText},
				{Key: "title", Kind: FieldKindTextarea},
			},
			wantErr: "duplicate field key 'title'",
		},
		{
			name:    "select without options",
			schema:  CollectionSchema{{Key: "role", Kind: FieldKindSelect}},
			wantErr: "at least one option",
		},
		{
			name:    "options on text",
			schema:  CollectionSchema{{Key: "name", Kind: FieldKindText, Options: []string{"a"}}},
			wantErr: "only allowed on select",
		},
		{
			name:    "unknown kind",
			schema:  CollectionSchema{{Key: "when", Kind: "date"}},
			wantErr: "unsupported kind",
		},
		{
			name:    "empty key",
			schema:  CollectionSchema{{Kind: FieldKindText}},
			wantErr: "key cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCollectionSchema_TitleAndSubtitle(t *testing.T) {
	fields := map[string]interface{}{"name": "A. Test", "role": "faculty"}
	assert.Equal(t, "A. Test", teamSchema.Title(fields))
	assert.Equal(t, "faculty", teamSchema.Subtitle(fields))

	assert.Equal(t, "", teamSchema.Subtitle(map[string]interface{}{"name": "x"}))

	single := CollectionSchema{{Key: "question", Kind: FieldKindText}}
	assert.Equal(t, "", single.Subtitle(map[string]interface{}{"question": "q"}))
}

func TestCollectionSchema_Keys(t *testing.T) {
	assert.Equal(t, []string{"name", "role"}, CollectionSchema{
		{Key: "name", Kind: FieldKindText},
		{Key: "role", Kind: FieldKindSelect, Options: []string{"faculty"}},
	}.Keys())
	assert.Empty(t, CollectionSchema{}.Keys())
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "", DisplayValue(nil))
	assert.Equal(t, "2024", DisplayValue(2024.0))
	assert.Equal(t, "2.5", DisplayValue(2.5))
	assert.Equal(t, "7", DisplayValue(7))
	assert.Equal(t, "true", DisplayValue(true))
	assert.Equal(t, "abc", DisplayValue([]byte("abc")))
}

func TestFieldDescriptor_Defaults(t *testing.T) {
	role := teamSchema[1]
	assert.Equal(t, "faculty", role.DefaultValue())
	assert.True(t, role.HasOption("student"))
	assert.False(t, role.HasOption("Student"))
	assert.Equal(t, "", teamSchema[0].DefaultValue())
	assert.True(t, teamSchema[0].Required())
}

func TestRegistry(t *testing.T) {
	t.Run("default registry", func(t *testing.T) {
		r := DefaultRegistry()
		want := []string{"team", "publications", "projects", "news", "grants", "works", "courses", "faqs", "messages"}
		if diff := cmp.Diff(want, r.Names()); diff != "" {
			t.Errorf("Names() mismatch (-want +got):\n%s", diff)
		}

		messages, ok := r.Get("messages")
		require.True(t, ok)
		assert.True(t, messages.Inbox)
		assert.Equal(t, &Ordering{Field: "date", Desc: true}, messages.Order)

		_, ok = r.Get("nope")
		assert.False(t, ok)
	})

	t.Run("duplicate collection", func(t *testing.T) {
		_, err := NewRegistry(
			Collection{Name: "team", Schema: teamSchema},
			Collection{Name: "team", Schema: teamSchema},
		)
		assert.Error(t, err)
	})

	t.Run("invalid schema", func(t *testing.T) {
		_, err := NewRegistry(Collection{Name: "bad", Schema: CollectionSchema{}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "collection 'bad'")
	})

	t.Run("names are copies", func(t *testing.T) {
		r := MustRegistry(Collection{Name: "team", Schema: teamSchema})
		names := r.Names()
		names[0] = "mutated"
		assert.Equal(t, []string{"team"}, r.Names())
	})
}
