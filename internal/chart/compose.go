package chart

import (
	"errors"
	"time"

	"github.com/Stanislas-Motte/COT-Tool/internal/cotmeta"
	"github.com/Stanislas-Motte/COT-Tool/internal/dataset"
)

// ErrNothingToRender signals that neither axis contributes a series. It is
// an informational prompt for the client, not a failure.
var ErrNothingToRender = errors.New("nothing to render")

type Axis string

const (
	AxisLeft  Axis = "left"
	AxisRight Axis = "right"
)

// Fixed accent colors for formula traces, one per axis, so a formula is
// always visually distinct from the cycled literal columns.
const (
	leftFormulaColor  = "#1f77b4"
	rightFormulaColor = "#ff7f0e"
)

// defaultPalette cycles across literal column traces.
var defaultPalette = []string{
	"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a",
	"#19d3f3", "#ff6692", "#b6e880", "#ff97ff", "#fecb52",
}

// Series is one renderable trace of the chart.
type Series struct {
	Label     string    `json:"label"`
	Axis      Axis      `json:"axis"`
	Color     string    `json:"color"`
	IsFormula bool      `json:"is_formula"`
	Values    []float64 `json:"values"`
}

// AxisSpec describes one y-axis of the final chart.
type AxisSpec struct {
	Title    string `json:"title"`
	ShowGrid bool   `json:"show_grid"`
}

// Spec is the render-ready chart: a shared date axis plus 1..N series, each
// assigned to the left (primary) or right (secondary) y-scale. Grid lines
// are drawn for the primary axis only; two overlapping grids are unreadable.
type Spec struct {
	Dates      []time.Time `json:"dates"`
	Series     []Series    `json:"series"`
	XAxisTitle string      `json:"x_axis_title"`
	LeftAxis   AxisSpec    `json:"left_axis"`
	RightAxis  AxisSpec    `json:"right_axis"`
	Legend     string      `json:"legend"`
}

// FormulaSeries is an evaluated formula trace queued for one axis.
type FormulaSeries struct {
	Raw    string
	Values []float64
}

// AxisInput is everything one axis contributes: zero or more literal column
// selections plus at most one evaluated formula.
type AxisInput struct {
	Columns []string
	Formula *FormulaSeries
}

// Compose merges the per-axis selections into a Spec over the dataset's
// date axis. Per axis the formula trace (when present) is listed before the
// literal columns. Returns ErrNothingToRender when both axes are empty.
func Compose(ds *dataset.Dataset, left, right AxisInput) (*Spec, error) {
	spec := &Spec{
		Dates:      ds.Dates,
		XAxisTitle: "Date",
		LeftAxis:   AxisSpec{Title: "Left Axis", ShowGrid: true},
		RightAxis:  AxisSpec{Title: "Right Axis", ShowGrid: false},
		Legend:     "horizontal-top",
	}

	paletteIdx := 0
	appendAxis := func(axis Axis, in AxisInput, formulaColor string) {
		if in.Formula != nil {
			spec.Series = append(spec.Series, Series{
				Label:     "Formula: " + in.Formula.Raw,
				Axis:      axis,
				Color:     formulaColor,
				IsFormula: true,
				Values:    in.Formula.Values,
			})
		}
		for _, col := range in.Columns {
			values, ok := ds.Column(col)
			if !ok {
				continue
			}
			spec.Series = append(spec.Series, Series{
				Label:  cotmeta.ShortLabel(col),
				Axis:   axis,
				Color:  defaultPalette[paletteIdx%len(defaultPalette)],
				Values: values,
			})
			paletteIdx++
		}
	}

	appendAxis(AxisLeft, left, leftFormulaColor)
	appendAxis(AxisRight, right, rightFormulaColor)

	if len(spec.Series) == 0 {
		return nil, ErrNothingToRender
	}
	return spec, nil
}
