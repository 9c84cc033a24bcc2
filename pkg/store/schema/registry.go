package schema

import (
	"fmt"
)

// Ordering is the default list order of a collection.
type Ordering struct {
	Field string `json:"field" yaml:"field"`
	Desc  bool   `json:"desc" yaml:"desc"`
}

// Collection binds a collection name to its schema.
type Collection struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Schema      CollectionSchema `json:"schema"`
	Order       *Ordering        `json:"order,omitempty"`
	// Inbox collections carry a "read" flag outside the schema and are not
	// listed publicly.
	Inbox bool `json:"inbox,omitempty"`
}

// Registry maps collection names to collections. It is fixed once built.
type Registry struct {
	collections map[string]Collection
	order       []string
}

func NewRegistry(collections ...Collection) (*Registry, error) {
	r := &Registry{collections: make(map[string]Collection, len(collections))}
	for _, c := range collections {
		if c.Name == "" {
			return nil, fmt.Errorf("collection name cannot be empty")
		}
		if _, exists := r.collections[c.Name]; exists {
			return nil, fmt.Errorf("duplicate collection '%s'", c.Name)
		}
		if err := c.Schema.Validate(); err != nil {
			return nil, fmt.Errorf("collection '%s': %w", c.Name, err)
		}
		r.collections[c.Name] = c
		r.order = append(r.order, c.Name)
	}
	return r, nil
}

// MustRegistry is NewRegistry for static definitions.
func MustRegistry(collections ...Collection) *Registry {
	r, err := NewRegistry(collections...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Get(name string) (Collection, bool) {
	c, ok := r.collections[name]
	return c, ok
}

// Names returns collection names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// LabCollections is the content model of the lab site.
var LabCollections = []Collection{
	{
		Name:        "team",
		Description: "Lab members",
		Schema: CollectionSchema{
			{Key: "name", Label: "Name", Kind: FieldKindText},
			{Key: "role", Label: "Role", Kind: FieldKindSelect, Options: []string{"Faculty", "PhD", "MS", "RA", "JRF", "JPO", "JPA"}},
			{Key: "status", Label: "Status", Kind: FieldKindSelect, Options: []string{"Current Student", "Ex Student", "N/A"}},
			{Key: "interests", Label: "Interests", Kind: FieldKindText},
			{Key: "image", Label: "Image URL", Kind: FieldKindText, Optional: true},
		},
	},
	{
		Name:        "publications",
		Description: "Papers and articles",
		Schema: CollectionSchema{
			{Key: "title", Label: "Title", Kind: FieldKindText},
			{Key: "authors", Label: "Authors", Kind: FieldKindText},
			{Key: "venue", Label: "Venue", Kind: FieldKindText},
			{Key: "year", Label: "Year", Kind: FieldKindNumber},
			{Key: "area", Label: "Area", Kind: FieldKindText, Optional: true},
		},
		Order: &Ordering{Field: "year", Desc: true},
	},
	{
		Name:        "projects",
		Description: "Research projects",
		Schema: CollectionSchema{
			{Key: "title", Label: "Title", Kind: FieldKindText},
			{Key: "desc", Label: "Description", Kind: FieldKindTextarea},
			{Key: "status", Label: "Status", Kind: FieldKindText},
			{Key: "tags", Label: "Tags (comma separated)", Kind: FieldKindText, Optional: true},
		},
	},
	{
		Name:        "news",
		Description: "Lab news and announcements",
		Schema: CollectionSchema{
			{Key: "title", Label: "Title", Kind: FieldKindText},
			{Key: "date", Label: "Date", Kind: FieldKindText},
			{Key: "summary", Label: "Summary", Kind: FieldKindTextarea},
			{Key: "tag", Label: "Tag", Kind: FieldKindText, Optional: true},
		},
		Order: &Ordering{Field: "date", Desc: true},
	},
	{
		Name:        "grants",
		Description: "Funded grants",
		Schema: CollectionSchema{
			{Key: "title", Label: "Title", Kind: FieldKindText},
			{Key: "agency", Label: "Agency", Kind: FieldKindText},
			{Key: "amount", Label: "Amount", Kind: FieldKindText},
			{Key: "duration", Label: "Duration", Kind: FieldKindText},
			{Key: "summary", Label: "Summary", Kind: FieldKindTextarea},
			{Key: "icon", Label: "Icon Class (e.g., ph-currency-inr)", Kind: FieldKindText, Optional: true},
		},
	},
	{
		Name:        "works",
		Description: "Released code and datasets",
		Schema: CollectionSchema{
			{Key: "title", Label: "Title", Kind: FieldKindText},
			{Key: "year", Label: "Year", Kind: FieldKindText},
			{Key: "description", Label: "Description", Kind: FieldKindTextarea},
			{Key: "link", Label: "Link URL", Kind: FieldKindText, Optional: true},
			{Key: "type", Label: "Type (Code/Data)", Kind: FieldKindText},
		},
	},
	{
		Name:        "courses",
		Description: "Courses taught by lab faculty",
		Schema: CollectionSchema{
			{Key: "title", Label: "Title", Kind: FieldKindText},
			{Key: "code", Label: "Course Code", Kind: FieldKindText},
			{Key: "semester", Label: "Semester", Kind: FieldKindText},
			{Key: "description", Label: "Description", Kind: FieldKindTextarea},
			{Key: "link", Label: "Course Page URL", Kind: FieldKindText, Optional: true},
		},
	},
	{
		Name:        "faqs",
		Description: "Frequently asked questions",
		Schema: CollectionSchema{
			{Key: "question", Label: "Question", Kind: FieldKindText},
			{Key: "answer", Label: "Answer (HTML allowed)", Kind: FieldKindTextarea},
		},
	},
	{
		Name:        "messages",
		Description: "Contact form inbox",
		Schema: CollectionSchema{
			{Key: "name", Label: "Name", Kind: FieldKindText},
			{Key: "email", Label: "Email", Kind: FieldKindText},
			{Key: "message", Label: "Message", Kind: FieldKindTextarea},
			{Key: "date", Label: "Date", Kind: FieldKindText, Optional: true},
		},
		Order: &Ordering{Field: "date", Desc: true},
		Inbox: true,
	},
}

// DefaultRegistry returns the registry of LabCollections.
func DefaultRegistry() *Registry {
	return MustRegistry(LabCollections...)
}
