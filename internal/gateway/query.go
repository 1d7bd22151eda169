package gateway

import (
	"encoding/json"
	"fmt"
)

const (
	QueryEqual     = "equal"
	QueryOrderDesc = "orderDesc"
	QueryOrderAsc  = "orderAsc"
	QueryLimit     = "limit"
)

// Metadata attributes every document carries
const (
	AttrID        = "$id"
	AttrCreatedAt = "$createdAt"
	AttrUpdatedAt = "$updatedAt"
)

// Query is one listing filter, ordering or limit
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

func Equal(attribute string, values ...any) Query {
	return Query{Method: QueryEqual, Attribute: attribute, Values: values}
}

func OrderDesc(attribute string) Query {
	return Query{Method: QueryOrderDesc, Attribute: attribute}
}

func OrderAsc(attribute string) Query {
	return Query{Method: QueryOrderAsc, Attribute: attribute}
}

func Limit(n int) Query {
	return Query{Method: QueryLimit, Values: []any{n}}
}

// String encodes the query the way the REST API expects it
func (q Query) String() string {
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Sprintf(`{"method":%q}`, q.Method)
	}
	return string(raw)
}

// LimitOf returns the limit carried by a limit query
func (q Query) LimitOf() (int, bool) {
	if q.Method != QueryLimit || len(q.Values) != 1 {
		return 0, false
	}
	switch n := q.Values[0].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// Matches reports whether a stored value satisfies an equal query
func (q Query) Matches(value any) bool {
	for _, v := range q.Values {
		if fmt.Sprint(v) == fmt.Sprint(value) {
			return true
		}
	}
	return false
}
