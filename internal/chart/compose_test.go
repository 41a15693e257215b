package chart

import (
	"errors"
	"testing"
	"time"

	"github.com/Stanislas-Motte/COT-Tool/internal/dataset"
)

func composeDataset() *dataset.Dataset {
	ds := dataset.New("GOLD", "COMMODITY EXCHANGE INC.")
	ds.Dates = []time.Time{
		time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	ds.AddColumn("Open_Interest_All", []float64{1000, 1100})
	ds.AddColumn("M_Money_Positions_Long_ALL", []float64{300, 320})
	return ds
}

func TestCompose_NothingToRender(t *testing.T) {
	_, err := Compose(composeDataset(), AxisInput{}, AxisInput{})
	if !errors.Is(err, ErrNothingToRender) {
		t.Fatalf("err=%v want ErrNothingToRender", err)
	}
}

func TestCompose_FormulaListedFirstPerAxis(t *testing.T) {
	left := AxisInput{
		Columns: []string{"Open_Interest_All"},
		Formula: &FormulaSeries{Raw: "MM Long * 2", Values: []float64{600, 640}},
	}
	spec, err := Compose(composeDataset(), left, AxisInput{})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(spec.Series) != 2 {
		t.Fatalf("series=%d want 2", len(spec.Series))
	}
	if !spec.Series[0].IsFormula {
		t.Fatalf("formula trace must come first")
	}
	if spec.Series[0].Label != "Formula: MM Long * 2" {
		t.Fatalf("label=%q", spec.Series[0].Label)
	}
	if spec.Series[0].Color != leftFormulaColor {
		t.Fatalf("color=%q want %q", spec.Series[0].Color, leftFormulaColor)
	}
	if spec.Series[1].Label != "Open Interest" {
		t.Fatalf("literal label=%q want short label", spec.Series[1].Label)
	}
}

func TestCompose_RightFormulaColor(t *testing.T) {
	right := AxisInput{Formula: &FormulaSeries{Raw: "x", Values: []float64{1, 2}}}
	spec, err := Compose(composeDataset(), AxisInput{}, right)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if spec.Series[0].Axis != AxisRight {
		t.Fatalf("axis=%q want right", spec.Series[0].Axis)
	}
	if spec.Series[0].Color != rightFormulaColor {
		t.Fatalf("color=%q want %q", spec.Series[0].Color, rightFormulaColor)
	}
}

func TestCompose_PaletteCyclesAcrossAxes(t *testing.T) {
	left := AxisInput{Columns: []string{"Open_Interest_All"}}
	right := AxisInput{Columns: []string{"M_Money_Positions_Long_ALL"}}
	spec, err := Compose(composeDataset(), left, right)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if spec.Series[0].Color == spec.Series[1].Color {
		t.Fatalf("literal traces on different axes must not share a palette slot")
	}
	if spec.Series[0].Color != defaultPalette[0] || spec.Series[1].Color != defaultPalette[1] {
		t.Fatalf("colors=%q,%q want first two palette entries", spec.Series[0].Color, spec.Series[1].Color)
	}
}

func TestCompose_GridOnPrimaryAxisOnly(t *testing.T) {
	left := AxisInput{Columns: []string{"Open_Interest_All"}}
	spec, err := Compose(composeDataset(), left, AxisInput{})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !spec.LeftAxis.ShowGrid || spec.RightAxis.ShowGrid {
		t.Fatalf("grid: left=%v right=%v want true/false", spec.LeftAxis.ShowGrid, spec.RightAxis.ShowGrid)
	}
}

func TestCompose_UnknownColumnSkipped(t *testing.T) {
	left := AxisInput{Columns: []string{"Nope", "Open_Interest_All"}}
	spec, err := Compose(composeDataset(), left, AxisInput{})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(spec.Series) != 1 {
		t.Fatalf("series=%d want 1", len(spec.Series))
	}
}
