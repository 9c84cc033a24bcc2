package controllers

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/sukryu/labsite/pkg/store/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// testRegistry holds a four-field team schema next to the lab's news,
// publications and messages collections.
func testRegistry() *schema.Registry {
	lab := schema.DefaultRegistry()
	news, _ := lab.Get("news")
	publications, _ := lab.Get("publications")
	messages, _ := lab.Get("messages")

	return schema.MustRegistry(
		schema.Collection{
			Name: "team",
			Schema: schema.CollectionSchema{
				{Key: "name", Label: "Name", Kind: schema.FieldKindText},
				{Key: "role", Label: "Role", Kind: schema.FieldKindSelect, Options: []string{"faculty", "student"}},
				{Key: "interests", Label: "Interests", Kind: schema.FieldKindText},
				{Key: "image", Label: "Image", Kind: schema.FieldKindText},
			},
		},
		news,
		publications,
		messages,
	)
}
