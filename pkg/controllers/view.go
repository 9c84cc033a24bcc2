package controllers

import (
	"github.com/sukryu/labsite/pkg/store/schema"
)

const (
	SubmitLabelCreate = "Add New Item"
	SubmitLabelUpdate = "Update Item"
	// FormAnchor is the fragment the page scrolls to when an edit begins.
	FormAnchor = "crud-form"
)

type FormField struct {
	Key      string
	Label    string
	Kind     schema.FieldKind
	Options  []string
	Required bool
	Value    string
	Error    string
}

func (f FormField) IsTextarea() bool { return f.Kind == schema.FieldKindTextarea }
func (f FormField) IsSelect() bool   { return f.Kind == schema.FieldKindSelect }
func (f FormField) IsNumber() bool   { return f.Kind == schema.FieldKindNumber }

type FormView struct {
	Fields      []FormField
	Editing     bool
	EditingID   string
	SubmitLabel string
	ShowCancel  bool
	Anchor      string
}

// ListRow is one item in the list: the first schema field as primary text,
// the second as secondary text.
type ListRow struct {
	ID        string
	Primary   string
	Secondary string
	Editing   bool
	Inbox     bool
	Read      bool
	// Detail is shown under inbox rows.
	Detail string
}

// View is everything needed to draw the admin surface of one collection.
type View struct {
	Collection  schema.Collection
	Collections []string
	Form        FormView
	Rows        []ListRow
	Notices     []Notice
	UnreadCount int64
}

// View builds the display model of st.
func (e *Engine) View(st ViewState) (View, error) {
	registry := e.collections.Registry()
	v := View{
		Collections: registry.Names(),
		Notices:     st.Notices,
		UnreadCount: st.UnreadCount,
	}
	if st.Collection == "" {
		return v, nil
	}

	coll, err := e.collections.Collection(st.Collection)
	if err != nil {
		return v, err
	}
	v.Collection = coll

	editing := st.EditingID != ""
	v.Form = FormView{
		Editing:     editing,
		EditingID:   st.EditingID,
		SubmitLabel: SubmitLabelCreate,
		ShowCancel:  editing,
		Anchor:      FormAnchor,
	}
	if editing {
		v.Form.SubmitLabel = SubmitLabelUpdate
	}
	for _, f := range coll.Schema {
		value, ok := st.Form.Values[f.Key]
		if !ok || (value == "" && f.Kind == schema.FieldKindSelect) {
			value = f.DefaultValue()
		}
		v.Form.Fields = append(v.Form.Fields, FormField{
			Key:      f.Key,
			Label:    f.Label,
			Kind:     f.Kind,
			Options:  f.Options,
			Required: f.Required(),
			Value:    value,
			Error:    st.Form.Errors[f.Key],
		})
	}

	v.Rows = make([]ListRow, 0, len(st.Items))
	for _, it := range st.Items {
		row := ListRow{
			ID:        it.ID,
			Primary:   coll.Schema.Title(it.Fields),
			Secondary: coll.Schema.Subtitle(it.Fields),
			Editing:   it.ID == st.EditingID,
			Inbox:     coll.Inbox,
		}
		if coll.Inbox {
			row.Read = isRead(it.Fields)
			row.Detail = schema.DisplayValue(it.Fields["message"])
		}
		v.Rows = append(v.Rows, row)
	}
	return v, nil
}
