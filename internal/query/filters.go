package query

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Predicate is a single column constraint. All predicates of a Filters set
// combine with AND. Column and Op always come from the fixed builders below;
// only Value is caller-controlled and it is always bound as a parameter.
type Predicate struct {
	Column string
	Op     string
	Value  interface{}
}

// Filters is the eagerly-built predicate set for one request. Absence of a
// recognized parameter means no constraint; malformed optional values are
// silently dropped rather than surfaced as errors.
type Filters struct {
	preds        []Predicate
	search       string
	searchFields []string
}

func (f *Filters) add(column, op string, value interface{}) {
	f.preds = append(f.preds, Predicate{Column: column, Op: op, Value: value})
}

// Predicates exposes the composed predicate list for inspection.
func (f Filters) Predicates() []Predicate {
	return f.preds
}

// HasSearch reports whether a free-text search term is active.
func (f Filters) HasSearch() bool {
	return f.search != ""
}

// Apply composes the predicate set onto a gorm query. Free-text search is
// OR-ed across the fixed field list and AND-ed with everything else.
func (f Filters) Apply(tx *gorm.DB) *gorm.DB {
	for _, p := range f.preds {
		tx = tx.Where(fmt.Sprintf("%s %s ?", p.Column, p.Op), p.Value)
	}
	if f.search != "" && len(f.searchFields) > 0 {
		pattern := "%" + strings.ToLower(f.search) + "%"
		clauses := make([]string, 0, len(f.searchFields))
		args := make([]interface{}, 0, len(f.searchFields))
		for _, col := range f.searchFields {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", col))
			args = append(args, pattern)
		}
		tx = tx.Where(strings.Join(clauses, " OR "), args...)
	}
	return tx
}

// userRoleFilterAllow is the allow-set for the role filter. Dispatcher is a
// valid stored role but is intentionally not filterable here.
var userRoleFilterAllow = map[string]bool{
	"admin":  true,
	"driver": true,
	"rider":  true,
}

// UserFilters builds the predicate set for user list queries.
func UserFilters(params url.Values) Filters {
	var f Filters
	if role := params.Get("role"); role != "" && userRoleFilterAllow[role] {
		f.add("role", "=", role)
	}
	if v := params.Get("is_active"); v != "" {
		f.add("active", "=", parseBool(v))
	}
	if term := strings.TrimSpace(params.Get("search")); term != "" {
		f.search = term
		f.searchFields = []string{"first_name", "last_name", "email", "phone"}
	}
	return f
}

// RideFilters builds the predicate set for ride list queries. The date range
// binds inclusively on pickup_time. Search matches rider and driver names and
// emails; the ride repository joins both user relations when search is active.
func RideFilters(params url.Values) Filters {
	var f Filters
	if status := params.Get("status"); status != "" {
		// an unknown status matches no rows rather than erroring
		f.add("status", "=", status)
	}
	if id, err := uuid.Parse(params.Get("rider_id")); err == nil {
		f.add("rider_id", "=", id)
	}
	if id, err := uuid.Parse(params.Get("driver_id")); err == nil {
		f.add("driver_id", "=", id)
	}
	if t, ok := parseTimestamp(params.Get("start_date")); ok {
		f.add("pickup_time", ">=", t)
	}
	if t, ok := parseTimestamp(params.Get("end_date")); ok {
		f.add("pickup_time", "<=", t)
	}
	if term := strings.TrimSpace(params.Get("search")); term != "" {
		f.search = term
		f.searchFields = []string{
			"Rider.first_name", "Rider.last_name", "Rider.email",
			"Driver.first_name", "Driver.last_name", "Driver.email",
		}
	}
	return f
}

// EventFilters builds the predicate set for ride event list queries.
// The date range binds inclusively on created_at.
func EventFilters(params url.Values) Filters {
	var f Filters
	if id, err := uuid.Parse(params.Get("ride_id")); err == nil {
		f.add("ride_id", "=", id)
	}
	if t, ok := parseTimestamp(params.Get("start_date")); ok {
		f.add("created_at", ">=", t)
	}
	if t, ok := parseTimestamp(params.Get("end_date")); ok {
		f.add("created_at", "<=", t)
	}
	if term := strings.TrimSpace(params.Get("search")); term != "" {
		f.search = term
		f.searchFields = []string{"description"}
	}
	return f
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// timestampLayouts are the accepted ISO-8601 shapes. time.RFC3339 covers the
// trailing-Z form as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp parses an optional date parameter. Malformed values return
// ok=false and the filter is simply not applied.
func parseTimestamp(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
