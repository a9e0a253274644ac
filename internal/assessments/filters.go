package assessments

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/refurbly/gradeserver/internal/vision"
	"github.com/refurbly/gradeserver/pkg/query"
)

// Filters is the closed set of criteria for assessment searches. Only the
// fields enumerated here filter results; there is no pass-through of
// arbitrary query input into SQL.
type Filters struct {
	Grades []vision.Grade
	Search *string
	Start  *time.Time
	End    *time.Time
}

// FiltersFromQuery extracts assessment filters from URL query parameters:
// grades (comma-separated letters), q (substring across sku, condition
// summary, and file name), start and end (RFC 3339 timestamps). Invalid
// values are rejected rather than ignored.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if g := values.Get("grades"); g != "" {
		for _, part := range strings.Split(g, ",") {
			grade, err := vision.ParseGrade(part)
			if err != nil {
				return Filters{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
			}
			f.Grades = append(f.Grades, grade)
		}
	}

	if q := values.Get("q"); q != "" {
		f.Search = &q
	}

	if s := values.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return Filters{}, fmt.Errorf("%w: start: %v", ErrInvalidFilter, err)
		}
		f.Start = &t
	}

	if e := values.Get("end"); e != "" {
		t, err := time.Parse(time.RFC3339, e)
		if err != nil {
			return Filters{}, fmt.Errorf("%w: end: %v", ErrInvalidFilter, err)
		}
		f.End = &t
	}

	return f, nil
}

// Apply adds the filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if len(f.Grades) > 0 {
		grades := make([]any, len(f.Grades))
		for i, g := range f.Grades {
			grades[i] = string(g)
		}
		b.WhereIn("Grade", grades)
	}

	b.WhereSearch(f.Search, "SKU", "OverallCondition", "OriginalFileName")

	if f.Start != nil {
		b.WhereGTE("AssessmentDate", *f.Start)
	}
	if f.End != nil {
		b.WhereLTE("AssessmentDate", *f.End)
	}

	return b
}
