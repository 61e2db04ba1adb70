package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Table is a named, row-ordered collection of numeric columns. It is the
// canonical data object for all plot and statistics computation: every cell
// is a float64 and missing readings are NaN, so downstream code never deals
// with raw JSON values.
type Table struct {
	columns []string
	data    map[string][]float64
	rows    int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{data: make(map[string][]float64)}
}

// FromRecords builds a table from a list of row objects, coercing every cell
// to a number. Non-numeric cells and absent keys become NaN. Column order
// follows first appearance across rows.
func FromRecords(records []map[string]interface{}) *Table {
	t := NewTable()
	t.rows = len(records)

	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := t.data[k]; !ok {
				t.columns = append(t.columns, k)
				col := make([]float64, t.rows)
				for i := range col {
					col[i] = math.NaN()
				}
				t.data[k] = col
			}
		}
	}

	for i, rec := range records {
		for k, v := range rec {
			t.data[k][i] = CoerceNumeric(v)
		}
	}
	return t
}

// CoerceNumeric converts an arbitrary JSON value to a float64, returning NaN
// for anything that is not a number or a numeric string.
func CoerceNumeric(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if x {
			return 1.0
		}
		return 0.0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return t.rows
}

// Columns returns column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Column returns a copy of the named column so callers can mutate freely.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.data[name]
	if !ok {
		return nil, fmt.Errorf("column '%s' not found", name)
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// SetColumn installs or replaces a column. The length must match the table's
// row count unless the table is empty.
func (t *Table) SetColumn(name string, values []float64) error {
	if t.rows == 0 && len(t.data) == 0 {
		t.rows = len(values)
	}
	if len(values) != t.rows {
		return fmt.Errorf("column '%s' has %d values, table has %d rows", name, len(values), t.rows)
	}
	if _, ok := t.data[name]; !ok {
		t.columns = append(t.columns, name)
	}
	col := make([]float64, len(values))
	copy(col, values)
	t.data[name] = col
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		columns: make([]string, len(t.columns)),
		data:    make(map[string][]float64, len(t.data)),
		rows:    t.rows,
	}
	copy(out.columns, t.columns)
	for k, col := range t.data {
		c := make([]float64, len(col))
		copy(c, col)
		out.data[k] = c
	}
	return out
}

// Records converts the table back to JSON-safe row objects (NaN -> nil).
func (t *Table) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, t.rows)
	for i := 0; i < t.rows; i++ {
		rec := make(map[string]interface{}, len(t.columns))
		for _, name := range t.columns {
			v := t.data[name][i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				rec[name] = nil
			} else {
				rec[name] = v
			}
		}
		out[i] = rec
	}
	return out
}

// CommonColumns intersects the column sets of the given tables, preserving the
// first table's ordering. These are the selectable metric choices when more
// than one dataset is loaded.
func CommonColumns(tables []*Table) []string {
	if len(tables) == 0 {
		return nil
	}
	common := tables[0].Columns()
	for _, t := range tables[1:] {
		kept := common[:0]
		for _, name := range common {
			if t.HasColumn(name) {
				kept = append(kept, name)
			}
		}
		common = kept
	}
	return common
}
