package query

import (
	"fmt"
	"regexp"
	"strings"
)

var columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var operators = map[string]bool{
	"=":  true,
	"!=": true,
	"<":  true,
	"<=": true,
	">":  true,
	">=": true,
}

// QueryParams narrows and orders a collection listing. A nil *QueryParams
// means "every document, store order".
type QueryParams struct {
	Where   []WhereCondition
	OrderBy []OrderByClause
	Limit   int
	Offset  int
}

type WhereCondition struct {
	Column   string
	Operator string
	Value    interface{}
}

type OrderByClause struct {
	Column string
	Desc   bool
}

func New() *QueryParams {
	return &QueryParams{}
}

func (p *QueryParams) AddWhere(column, operator string, value interface{}) *QueryParams {
	p.Where = append(p.Where, WhereCondition{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return p
}

func (p *QueryParams) AddOrderBy(column string, desc bool) *QueryParams {
	p.OrderBy = append(p.OrderBy, OrderByClause{
		Column: column,
		Desc:   desc,
	})
	return p
}

func (p *QueryParams) WithLimit(limit int) *QueryParams {
	p.Limit = limit
	return p
}

func (p *QueryParams) Validate() error {
	if p == nil {
		return nil
	}
	for _, w := range p.Where {
		if !columnPattern.MatchString(w.Column) {
			return fmt.Errorf("invalid filter column %q", w.Column)
		}
		if !operators[w.Operator] {
			return fmt.Errorf("unsupported operator %q", w.Operator)
		}
	}
	for _, o := range p.OrderBy {
		if !columnPattern.MatchString(o.Column) {
			return fmt.Errorf("invalid order column %q", o.Column)
		}
	}
	if p.Limit < 0 || p.Offset < 0 {
		return fmt.Errorf("limit and offset must not be negative")
	}
	return nil
}

// String renders the params for logs.
func (p *QueryParams) String() string {
	if p == nil {
		return "all"
	}
	var parts []string
	for _, w := range p.Where {
		parts = append(parts, fmt.Sprintf("%s %s %v", w.Column, w.Operator, w.Value))
	}
	for _, o := range p.OrderBy {
		if o.Desc {
			parts = append(parts, "order "+o.Column+" desc")
		} else {
			parts = append(parts, "order "+o.Column)
		}
	}
	if p.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit %d", p.Limit))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, ", ")
}

// Matches evaluates the where conditions against a document. Absent fields
// never match, as NULL comparisons in SQL.
func (p *QueryParams) Matches(fields map[string]interface{}) bool {
	if p == nil {
		return true
	}
	for _, w := range p.Where {
		v, ok := fields[w.Column]
		if !ok || v == nil {
			return false
		}
		c := Compare(v, w.Value)
		var hit bool
		switch w.Operator {
		case "=":
			hit = c == 0
		case "!=":
			hit = c != 0
		case "<":
			hit = c < 0
		case "<=":
			hit = c <= 0
		case ">":
			hit = c > 0
		case ">=":
			hit = c >= 0
		}
		if !hit {
			return false
		}
	}
	return true
}

// Compare orders two field values the way SQLite orders json_extract
// results: NULL, then numbers (booleans as 0/1), then text.
func Compare(a, b interface{}) int {
	ra, na, sa := rank(a)
	rb, nb, sb := rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case rankNumber:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case rankText, rankOther:
		return strings.Compare(sa, sb)
	}
	return 0
}

const (
	rankNull = iota
	rankNumber
	rankText
	rankOther
)

func rank(v interface{}) (int, float64, string) {
	switch val := v.(type) {
	case nil:
		return rankNull, 0, ""
	case bool:
		if val {
			return rankNumber, 1, ""
		}
		return rankNumber, 0, ""
	case int:
		return rankNumber, float64(val), ""
	case int32:
		return rankNumber, float64(val), ""
	case int64:
		return rankNumber, float64(val), ""
	case float32:
		return rankNumber, float64(val), ""
	case float64:
		return rankNumber, val, ""
	case string:
		return rankText, 0, val
	default:
		return rankOther, 0, fmt.Sprintf("%v", val)
	}
}
