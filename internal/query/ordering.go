package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Ordering is a validated sort directive. Columns only ever come from the
// per-collection allow-lists, never from raw caller input.
type Ordering struct {
	column string
	desc   bool
}

// Asc returns an ascending ordering on column.
func Asc(column string) Ordering {
	return Ordering{column: column}
}

// Desc returns a descending ordering on column.
func Desc(column string) Ordering {
	return Ordering{column: column, desc: true}
}

// ParseOrdering resolves an explicit ordering parameter against an allow-list
// mapping parameter names to columns. A leading '-' selects descending order.
// Unknown or empty values fall back to the collection default.
func ParseOrdering(param string, allowed map[string]string, def Ordering) Ordering {
	if param == "" {
		return def
	}
	name := param
	desc := false
	if strings.HasPrefix(param, "-") {
		name = param[1:]
		desc = true
	}
	column, ok := allowed[name]
	if !ok {
		return def
	}
	return Ordering{column: column, desc: desc}
}

// Apply adds the ORDER BY clause. Ties are always broken by primary key so
// pagination stays stable under any chosen ordering.
func (o Ordering) Apply(tx *gorm.DB) *gorm.DB {
	dir := "ASC"
	if o.desc {
		dir = "DESC"
	}
	return tx.Order(fmt.Sprintf("%s %s", o.column, dir)).Order("id ASC")
}

// Ordering allow-lists per collection. Keys are the values accepted in the
// `ordering` query parameter.
var (
	UserOrderingFields = map[string]string{
		"first_name": "first_name",
		"last_name":  "last_name",
		"email":      "email",
		"created_at": "created_at",
	}
	RideOrderingFields = map[string]string{
		"pickup_time": "pickup_time",
		"status":      "status",
		"created_at":  "created_at",
		"updated_at":  "updated_at",
	}
	EventOrderingFields = map[string]string{
		"created_at": "created_at",
	}
)
