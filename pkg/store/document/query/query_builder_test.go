package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  *QueryParams
		wantErr bool
	}{
		{name: "nil", params: nil},
		{name: "order and limit", params: New().AddOrderBy("year", true).WithLimit(3)},
		{name: "filter", params: New().AddWhere("read", "=", false)},
		{name: "injection in column", params: New().AddOrderBy("year; DROP TABLE documents", false), wantErr: true},
		{name: "json path in column", params: New().AddWhere("a.b", "=", 1), wantErr: true},
		{name: "bad operator", params: New().AddWhere("year", "LIKE", "20%"), wantErr: true},
		{name: "negative limit", params: New().WithLimit(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQueryParams_Matches(t *testing.T) {
	doc := map[string]interface{}{"year": 2024.0, "area": "NLP", "read": false}

	assert.True(t, (*QueryParams)(nil).Matches(doc))
	assert.True(t, New().AddWhere("year", "=", 2024).Matches(doc))
	assert.True(t, New().AddWhere("year", ">=", 2020).AddWhere("area", "=", "NLP").Matches(doc))
	assert.False(t, New().AddWhere("year", "<", 2024).Matches(doc))
	assert.True(t, New().AddWhere("read", "=", false).Matches(doc))
	assert.True(t, New().AddWhere("area", "!=", "CV").Matches(doc))

	// absent fields never match, even with !=
	assert.False(t, New().AddWhere("venue", "!=", "CVPR").Matches(doc))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare(2024, 2024.0))
	assert.Equal(t, -1, Compare(nil, 0))
	assert.Equal(t, -1, Compare(99999, "1"))
	assert.Equal(t, 1, Compare("June 2024", "April 2024"))
	assert.Equal(t, 0, Compare(true, 1))
	assert.Equal(t, -1, Compare(false, true))
}

func TestQueryParams_String(t *testing.T) {
	assert.Equal(t, "all", (*QueryParams)(nil).String())
	assert.Equal(t, "all", New().String())
	assert.Equal(t, "read = false, order date desc, limit 3",
		New().AddWhere("read", "=", false).AddOrderBy("date", true).WithLimit(3).String())
}
