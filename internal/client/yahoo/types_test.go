package yahoo

import (
	"testing"
	"time"
)

func TestParseChart_Basic(t *testing.T) {
	body := []byte(`{
		"chart": {
			"result": [{
				"timestamp": [1672704000, 1672790400],
				"indicators": {
					"quote": [{
						"open":   [1840.5, null],
						"high":   [1855.0, 1862.0],
						"low":    [1838.0, 1841.0],
						"close":  [1852.0, 1860.5],
						"volume": [120000, null]
					}]
				}
			}],
			"error": null
		}
	}`)
	bars, err := parseChart(body)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("bars=%d want 2", len(bars))
	}
	if bars[0].Close != 1852.0 {
		t.Fatalf("close=%v", bars[0].Close)
	}
	if bars[0].Date != time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("date=%v", bars[0].Date)
	}
	if bars[1].Open != nil {
		t.Fatalf("null open must stay nil")
	}
	if bars[1].Volume != nil {
		t.Fatalf("null volume must stay nil")
	}
}

func TestParseChart_DropsBarsWithoutClose(t *testing.T) {
	body := []byte(`{
		"chart": {
			"result": [{
				"timestamp": [1672704000, 1672790400],
				"indicators": {
					"quote": [{"close": [null, 1860.5]}]
				}
			}]
		}
	}`)
	bars, err := parseChart(body)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(bars) != 1 || bars[0].Close != 1860.5 {
		t.Fatalf("bars=%+v", bars)
	}
}

func TestParseChart_ProviderError(t *testing.T) {
	body := []byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	if _, err := parseChart(body); err == nil {
		t.Fatalf("expected provider error")
	}
}
