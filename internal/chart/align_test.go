package chart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Stanislas-Motte/COT-Tool/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func barsOn(dates ...time.Time) []models.PriceBar {
	out := make([]models.PriceBar, len(dates))
	for i, d := range dates {
		out[i] = models.PriceBar{Date: d, Close: decimal.NewFromInt(int64(100 + i))}
	}
	return out
}

func TestAlignPriceWindow_CutsByDateValue(t *testing.T) {
	// Daily bars span wider than the weekly positioning range; the cut
	// must keep exactly the bars inside the range, bounds inclusive.
	minDate, maxDate := day(2023, 1, 1), day(2023, 6, 30)
	bars := barsOn(
		day(2022, 12, 30),
		day(2023, 1, 1),
		day(2023, 3, 15),
		day(2023, 6, 30),
		day(2023, 7, 1),
	)
	windowed, pinned := AlignPriceWindow(minDate, maxDate, bars)
	if len(windowed) != 3 {
		t.Fatalf("windowed=%d want 3", len(windowed))
	}
	if !windowed[0].Date.Equal(day(2023, 1, 1)) || !windowed[2].Date.Equal(day(2023, 6, 30)) {
		t.Fatalf("bounds must be inclusive: %v .. %v", windowed[0].Date, windowed[2].Date)
	}
	if !pinned.Start.Equal(minDate) || !pinned.End.Equal(maxDate) {
		t.Fatalf("pinned=%v want positioning range", pinned)
	}
}

func TestAlignPriceWindow_PinnedRangeSurvivesSparsePrices(t *testing.T) {
	// Price data covers only a slice of the positioning range; the
	// x-axis window must stay pinned to the full range regardless.
	minDate, maxDate := day(2020, 1, 1), day(2023, 12, 31)
	bars := barsOn(day(2023, 11, 1), day(2023, 12, 1))
	windowed, pinned := AlignPriceWindow(minDate, maxDate, bars)
	if len(windowed) != 2 {
		t.Fatalf("windowed=%d want 2", len(windowed))
	}
	if !pinned.Start.Equal(minDate) || !pinned.End.Equal(maxDate) {
		t.Fatalf("pinned=%v want full positioning range", pinned)
	}
}

func TestAlignPriceWindow_EmptyResultIsNotAnError(t *testing.T) {
	windowed, pinned := AlignPriceWindow(day(2023, 1, 1), day(2023, 6, 30), barsOn(day(2024, 1, 1)))
	if len(windowed) != 0 {
		t.Fatalf("windowed=%d want 0", len(windowed))
	}
	if !pinned.Start.Equal(day(2023, 1, 1)) {
		t.Fatalf("pinned window must still be returned")
	}
}
