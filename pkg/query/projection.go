// Package query provides SQL query construction with field-to-column projections.
// Builders keep parameter numbering automatic so callers never hand-count placeholders.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps domain field names to qualified database columns for one table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	order   []string
	columns map[string]string
}

// NewProjectionMap creates a projection for the given schema-qualified table and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project registers a column under the given domain field name.
// Registration order determines SELECT column order.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	p.order = append(p.order, field)
	p.columns[field] = fmt.Sprintf("%s.%s", p.alias, column)
	return p
}

// Table returns the aliased FROM clause target.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the qualified column for a registered field.
// Unregistered fields panic; projections are package-level constants and a
// miss is a programming error, not runtime input.
func (p *ProjectionMap) Column(field string) string {
	col, ok := p.columns[field]
	if !ok {
		panic(fmt.Sprintf("query: field %q not projected on %s.%s", field, p.schema, p.table))
	}
	return col
}

// Columns returns the comma-separated SELECT list in registration order.
func (p *ProjectionMap) Columns() string {
	cols := make([]string, len(p.order))
	for i, field := range p.order {
		cols[i] = p.columns[field]
	}
	return strings.Join(cols, ", ")
}
