package yahoo

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bar is one parsed daily bar. Open, High, Low and Volume may be nil when
// the provider returns null for a session; Close is required and bars
// without it are dropped during parsing.
type Bar struct {
	Date   time.Time
	Open   *float64
	High   *float64
	Low    *float64
	Close  float64
	Volume *int64
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []quoteBlock `json:"quote"`
	} `json:"indicators"`
}

type quoteBlock struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

func parseChart(body []byte) ([]Bar, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("provider error %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result")
	}
	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	at := func(vals []*float64, i int) *float64 {
		if i < len(vals) {
			return vals[i]
		}
		return nil
	}

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closeVal := at(quote.Close, i)
		if closeVal == nil {
			continue
		}
		var volume *int64
		if i < len(quote.Volume) {
			volume = quote.Volume[i]
		}
		bars = append(bars, Bar{
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  *closeVal,
			Volume: volume,
		})
	}
	return bars, nil
}
