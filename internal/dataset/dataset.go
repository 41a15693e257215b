package dataset

import (
	"sort"
	"time"
)

// Dataset is the columnar view of a filtered slice of COT reports: one date
// per row plus named numeric columns, all of identical length and row order.
// It is the table formulas are translated against and evaluated over.
type Dataset struct {
	Commodity string
	Exchange  string
	Dates     []time.Time
	columns   map[string][]float64
	names     []string
}

// New builds an empty dataset for a commodity/exchange pair.
func New(commodity, exchange string) *Dataset {
	return &Dataset{
		Commodity: commodity,
		Exchange:  exchange,
		columns:   map[string][]float64{},
	}
}

// AddColumn registers a named column. The caller must hand over a slice with
// one value per date; the dataset takes ownership.
func (d *Dataset) AddColumn(name string, values []float64) {
	if _, exists := d.columns[name]; !exists {
		d.names = append(d.names, name)
	}
	d.columns[name] = values
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Dates)
}

// Column returns the values for a named column.
func (d *Dataset) Column(name string) ([]float64, bool) {
	v, ok := d.columns[name]
	return v, ok
}

// HasColumn reports whether a column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// ColumnNames returns the column names in registration order.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// SortedColumnNames returns the column names alphabetically, for stable
// display in selectors and error messages.
func (d *Dataset) SortedColumnNames() []string {
	out := d.ColumnNames()
	sort.Strings(out)
	return out
}

// DateRange returns the inclusive [min, max] of the date axis. ok is false
// for an empty dataset. Rows are stored in report-date ascending order, so
// the bounds are the first and last entries.
func (d *Dataset) DateRange() (min, max time.Time, ok bool) {
	if d.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	return d.Dates[0], d.Dates[len(d.Dates)-1], true
}
