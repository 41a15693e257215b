package chart

import (
	"time"

	"github.com/Stanislas-Motte/COT-Tool/internal/models"
)

// Window is an inclusive date range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside the window, bounds included.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// AlignPriceWindow restricts an independently sourced price series to the
// positioning data's date range. The two sources run on different cadences
// (daily trading days vs weekly report dates), so the cut is by date value,
// never by row index. The returned window is the pinned x-axis range for
// the price panel: it stays the positioning range even when the windowed
// price series covers less of it, which keeps the two charts visually
// synchronized. An empty result means "no price data for selected range",
// not a failure.
func AlignPriceWindow(minDate, maxDate time.Time, bars []models.PriceBar) ([]models.PriceBar, Window) {
	pinned := Window{Start: minDate, End: maxDate}
	var windowed []models.PriceBar
	for _, b := range bars {
		if pinned.Contains(b.Date) {
			windowed = append(windowed, b)
		}
	}
	return windowed, pinned
}
