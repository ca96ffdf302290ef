package dataset

import (
	"fmt"
)

// Dataset is an in-memory table: an ordered list of named columns and rows in
// load order. Values are stored column-major so whole-column rewrites are cheap.
// Row count is fixed once loading finishes.
type Dataset struct {
	names   []string
	index   map[string]int
	columns [][]Value
	rows    int
}

// New creates an empty dataset with the given column order.
// Duplicate or empty names are rejected.
func New(columns []string) (*Dataset, error) {
	ds := &Dataset{
		names:   make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		columns: make([][]Value, 0, len(columns)),
	}
	for _, name := range columns {
		if err := ds.addName(name); err != nil {
			return nil, err
		}
		ds.columns = append(ds.columns, nil)
	}
	return ds, nil
}

func (d *Dataset) addName(name string) error {
	if name == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if _, exists := d.index[name]; exists {
		return fmt.Errorf("duplicate column %q", name)
	}
	d.index[name] = len(d.names)
	d.names = append(d.names, name)
	return nil
}

// AppendRow adds a row. Short rows are padded with missing values; long rows are an error.
func (d *Dataset) AppendRow(values []Value) error {
	if len(values) > len(d.names) {
		return fmt.Errorf("row %d has %d values, dataset has %d columns", d.rows+1, len(values), len(d.names))
	}
	for i := range d.columns {
		v := Missing()
		if i < len(values) {
			v = values[i]
		}
		d.columns[i] = append(d.columns[i], v)
	}
	d.rows++
	return nil
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// MissingColumns returns the names from want that the dataset does not have, in order.
func (d *Dataset) MissingColumns(want ...string) []string {
	var missing []string
	for _, name := range want {
		if !d.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.rows
}

// Column returns a copy of the named column.
func (d *Dataset) Column(name string) ([]Value, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(d.columns[i]))
	copy(out, d.columns[i])
	return out, true
}

// SetColumn replaces the values of an existing column in place.
func (d *Dataset) SetColumn(name string, values []Value) error {
	i, ok := d.index[name]
	if !ok {
		return fmt.Errorf("column %q not found", name)
	}
	if len(values) != d.rows {
		return fmt.Errorf("column %q: got %d values, want %d", name, len(values), d.rows)
	}
	col := make([]Value, len(values))
	copy(col, values)
	d.columns[i] = col
	return nil
}

// AddColumn appends a new derived column after the existing ones.
func (d *Dataset) AddColumn(name string, values []Value) error {
	if len(values) != d.rows {
		return fmt.Errorf("column %q: got %d values, want %d", name, len(values), d.rows)
	}
	if err := d.addName(name); err != nil {
		return err
	}
	col := make([]Value, len(values))
	copy(col, values)
	d.columns = append(d.columns, col)
	return nil
}

// Value returns the cell at row for the named column; missing if out of range.
func (d *Dataset) Value(row int, name string) Value {
	i, ok := d.index[name]
	if !ok || row < 0 || row >= d.rows {
		return Missing()
	}
	return d.columns[i][row]
}

// Row returns the values of one row in column order.
func (d *Dataset) Row(row int) []Value {
	out := make([]Value, len(d.columns))
	for i := range d.columns {
		out[i] = d.columns[i][row]
	}
	return out
}

// Records renders the dataset as string rows, header not included.
func (d *Dataset) Records() [][]string {
	records := make([][]string, d.rows)
	for r := 0; r < d.rows; r++ {
		record := make([]string, len(d.columns))
		for c := range d.columns {
			record[c] = d.columns[c][r].String()
		}
		records[r] = record
	}
	return records
}
