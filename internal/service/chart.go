package service

import (
	"context"
	"errors"
	"time"

	"github.com/Stanislas-Motte/COT-Tool/internal/chart"
	"github.com/Stanislas-Motte/COT-Tool/internal/cotmeta"
	"github.com/Stanislas-Motte/COT-Tool/internal/dataset"
	"github.com/Stanislas-Motte/COT-Tool/internal/formula"
	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

// ChartAxisRequest is one axis of a chart request: literal column picks
// plus an optional free-form formula.
type ChartAxisRequest struct {
	Columns []string `json:"columns"`
	Formula string   `json:"formula"`
}

type ChartRequest struct {
	Commodity string           `json:"commodity"`
	StartDate *time.Time       `json:"start"`
	EndDate   *time.Time       `json:"end"`
	Left      ChartAxisRequest `json:"left"`
	Right     ChartAxisRequest `json:"right"`
}

// ChartResult carries the composed spec plus per-axis formula outcomes.
// A failing formula never blocks the chart: its axis falls back to the
// literal columns and the error is reported alongside.
type ChartResult struct {
	Spec         *chart.Spec    `json:"spec,omitempty"`
	LeftFormula  *FormulaStatus `json:"left_formula,omitempty"`
	RightFormula *FormulaStatus `json:"right_formula,omitempty"`
	Empty        bool           `json:"empty"`
}

type FormulaStatus struct {
	Raw        string   `json:"raw"`
	Translated string   `json:"translated,omitempty"`
	Valid      bool     `json:"valid"`
	ErrorKind  string   `json:"error_kind,omitempty"`
	Error      string   `json:"error,omitempty"`
	Tokens     []string `json:"tokens,omitempty"`
}

type ChartService struct {
	Datasets *DatasetService
}

func NewChartService(datasets *DatasetService) *ChartService {
	return &ChartService{Datasets: datasets}
}

// labelBindings exposes the alias registry to the translator, restricted
// to labels whose column exists in the dataset.
func labelBindings(ds *dataset.Dataset) []formula.LabelBinding {
	var out []formula.LabelBinding
	for _, a := range cotmeta.Aliases() {
		if ds.HasColumn(a.Column) {
			out = append(out, formula.LabelBinding{Label: a.ShortLabel, Column: a.Column})
		}
	}
	return out
}

func formulaStatus(raw, translated string, ferr *formula.Error) *FormulaStatus {
	st := &FormulaStatus{Raw: raw, Translated: translated, Valid: ferr == nil}
	if ferr != nil {
		st.ErrorKind = string(ferr.Kind)
		st.Error = ferr.Message
		st.Tokens = ferr.Tokens
	}
	return st
}

// Compose builds the render-ready chart for a request. Each axis resolves
// its formula independently; only the failing axis loses its formula trace.
func (s *ChartService) Compose(ctx context.Context, req ChartRequest) (*ChartResult, error) {
	ds, err := s.Datasets.Dataset(ctx, req.Commodity, rangeFromBounds(req.StartDate, req.EndDate))
	if err != nil {
		return nil, err
	}

	result := &ChartResult{}
	if ds.Len() == 0 {
		result.Empty = true
		return result, nil
	}
	bindings := labelBindings(ds)

	resolveAxis := func(axis ChartAxisRequest) (chart.AxisInput, *FormulaStatus) {
		in := chart.AxisInput{Columns: axis.Columns}
		series, translated, ferr := formula.Resolve(axis.Formula, bindings, ds)
		if series == nil && ferr == nil {
			return in, nil
		}
		status := formulaStatus(axis.Formula, translated, ferr)
		if ferr == nil {
			in.Formula = &chart.FormulaSeries{Raw: axis.Formula, Values: series}
		}
		return in, status
	}

	left, leftStatus := resolveAxis(req.Left)
	right, rightStatus := resolveAxis(req.Right)
	result.LeftFormula = leftStatus
	result.RightFormula = rightStatus

	spec, err := chart.Compose(ds, left, right)
	if errors.Is(err, chart.ErrNothingToRender) {
		result.Empty = true
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.Spec = spec
	return result, nil
}

// CheckFormula validates a formula against a commodity's dataset without
// composing a chart. Used by the editor for live feedback.
func (s *ChartService) CheckFormula(ctx context.Context, commodity, raw string) (*FormulaStatus, error) {
	ds, err := s.Datasets.Dataset(ctx, commodity, nil)
	if err != nil {
		return nil, err
	}
	series, translated, ferr := formula.Resolve(raw, bindingsOrNil(ds), ds)
	if series == nil && ferr == nil {
		return &FormulaStatus{Raw: raw, Valid: true}, nil
	}
	return formulaStatus(raw, translated, ferr), nil
}

func bindingsOrNil(ds *dataset.Dataset) []formula.LabelBinding {
	if ds == nil {
		return nil
	}
	return labelBindings(ds)
}

func rangeFromBounds(start, end *time.Time) *repository.DateRange {
	if start == nil && end == nil {
		return nil
	}
	r := &repository.DateRange{}
	if start != nil {
		r.Start = *start
	}
	if end != nil {
		r.End = *end
	}
	return r
}
