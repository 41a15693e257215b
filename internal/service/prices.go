package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"

	"github.com/Stanislas-Motte/COT-Tool/internal/chart"
	"github.com/Stanislas-Motte/COT-Tool/internal/client/yahoo"
	"github.com/Stanislas-Motte/COT-Tool/internal/cotmeta"
	"github.com/Stanislas-Motte/COT-Tool/internal/models"
	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

// Price panel states. CACHED_DATA and FETCH_OK both carry bars; the split
// tells the client whether a live fetch just happened.
const (
	PriceStateNoMapping  = "NO_MAPPING"
	PriceStateCachedData = "CACHED_DATA"
	PriceStateFetchOK    = "FETCH_OK"
	PriceStateFetchFail  = "FETCH_FAIL"
)

// PriceFetcher is the upstream daily-bar source. Satisfied by yahoo.Client.
type PriceFetcher interface {
	GetDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]yahoo.Bar, []byte, error)
}

// PriceStats summarizes the windowed close series.
type PriceStats struct {
	Latest    decimal.Decimal `json:"latest"`
	Min       decimal.Decimal `json:"min"`
	Max       decimal.Decimal `json:"max"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"change_pct"`
}

// PricePanel is the full answer for one commodity's price panel: state,
// the bars windowed to the positioning date range, the pinned x-axis
// window and summary stats over the windowed closes.
type PricePanel struct {
	State           string            `json:"state"`
	Commodity       string            `json:"commodity"`
	Ticker          string            `json:"ticker,omitempty"`
	TickerType      string            `json:"ticker_type,omitempty"`
	SuggestedTicker string            `json:"suggested_ticker,omitempty"`
	Window          chart.Window      `json:"window"`
	Bars            []models.PriceBar `json:"bars"`
	Stats           *PriceStats       `json:"stats,omitempty"`
	FetchError      string            `json:"fetch_error,omitempty"`
}

// PricePanelService resolves the price panel via cache-aside: mapped
// ticker, then cached bars, then a deduplicated upstream fetch with ETF
// fallback, persisting whatever came back before answering.
type PricePanelService struct {
	Repo    repository.Repository
	Fetcher PriceFetcher
	Logger  *zap.Logger

	group singleflight.Group
}

func NewPricePanelService(repo repository.Repository, fetcher PriceFetcher, logger *zap.Logger) *PricePanelService {
	return &PricePanelService{Repo: repo, Fetcher: fetcher, Logger: logger}
}

// Panel answers the price panel for a commodity whose positioning data
// spans [minDate, maxDate]. That range pins the x-axis regardless of how
// much of it the price series covers.
func (s *PricePanelService) Panel(ctx context.Context, commodity string, minDate, maxDate time.Time) (*PricePanel, error) {
	panel := &PricePanel{
		Commodity: commodity,
		Window:    chart.Window{Start: minDate, End: maxDate},
	}

	mapping, err := s.Repo.GetPriceMapping(ctx, commodity)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		panel.State = PriceStateNoMapping
		panel.SuggestedTicker = cotmeta.TickerForCommodity(commodity, true)
		return panel, nil
	}
	panel.Ticker = mapping.TickerSymbol
	panel.TickerType = mapping.TickerType

	cached, err := s.Repo.ListPriceBars(ctx, commodity)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		panel.State = PriceStateCachedData
		s.finishPanel(panel, cached)
		return panel, nil
	}

	bars, fetchErr := s.fetchAndStore(ctx, commodity, mapping.TickerSymbol, minDate, maxDate)
	if fetchErr != nil {
		panel.State = PriceStateFetchFail
		panel.FetchError = fetchErr.Error()
		return panel, nil
	}
	// A fetch that succeeds with zero bars (even after ETF fallback)
	// still lands here: the panel reports FETCH_OK with an empty series
	// and nil stats, the "no price data available" answer. FETCH_FAIL is
	// reserved for transport and provider errors.
	panel.State = PriceStateFetchOK
	s.finishPanel(panel, bars)
	return panel, nil
}

func (s *PricePanelService) finishPanel(panel *PricePanel, bars []models.PriceBar) {
	windowed, pinned := chart.AlignPriceWindow(panel.Window.Start, panel.Window.End, bars)
	panel.Window = pinned
	panel.Bars = windowed
	panel.Stats = computePriceStats(windowed)
}

// fetchAndStore hits the provider once per commodity even under
// concurrent panel requests, persists the result and audits the call.
// When the mapped futures ticker yields nothing it retries the ETF
// counterpart before giving up.
func (s *PricePanelService) fetchAndStore(ctx context.Context, commodity, ticker string, minDate, maxDate time.Time) ([]models.PriceBar, error) {
	v, err, _ := s.group.Do(commodity, func() (any, error) {
		bars, ferr := s.fetchOnce(ctx, commodity, ticker, minDate, maxDate)
		if (ferr != nil || len(bars) == 0) && cotmeta.TickerType(ticker) == cotmeta.TickerTypeFutures {
			if pair, ok := cotmeta.TickersForCommodity(commodity); ok && pair.ETF != "" && pair.ETF != ticker {
				if s.Logger != nil {
					s.Logger.Info("futures fetch empty, trying ETF fallback",
						zap.String("commodity", commodity),
						zap.String("etf", pair.ETF))
				}
				bars, ferr = s.fetchOnce(ctx, commodity, pair.ETF, minDate, maxDate)
			}
		}
		if ferr != nil {
			return nil, ferr
		}
		if len(bars) > 0 {
			if uerr := s.Repo.UpsertPriceBars(ctx, bars); uerr != nil {
				return nil, uerr
			}
		}
		return bars, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.PriceBar), nil
}

func (s *PricePanelService) fetchOnce(ctx context.Context, commodity, ticker string, minDate, maxDate time.Time) ([]models.PriceBar, error) {
	ybars, raw, err := s.Fetcher.GetDailyBars(ctx, ticker, minDate, maxDate.Add(24*time.Hour))
	var bars []models.PriceBar
	if err == nil {
		bars = convertBars(commodity, ybars)
	}

	audit := &models.PriceFetchAudit{
		CommodityName: commodity,
		Ticker:        ticker,
		WindowStart:   minDate,
		WindowEnd:     maxDate,
		BarCount:      len(bars),
	}
	if err != nil {
		msg := err.Error()
		audit.Error = &msg
	}
	if len(raw) > 0 && json.Valid(raw) {
		audit.RawJSON = datatypes.JSON(raw)
	}
	if aerr := s.Repo.InsertPriceFetchAudit(ctx, audit); aerr != nil && s.Logger != nil {
		s.Logger.Warn("failed to record price fetch audit", zap.Error(aerr))
	}
	return bars, err
}

func convertBars(commodity string, in []yahoo.Bar) []models.PriceBar {
	out := make([]models.PriceBar, 0, len(in))
	for _, b := range in {
		bar := models.PriceBar{
			CommodityName: commodity,
			Date:          b.Date,
			Close:         decimal.NewFromFloat(b.Close),
		}
		if b.Open != nil {
			d := decimal.NewFromFloat(*b.Open)
			bar.Open = &d
		}
		if b.High != nil {
			d := decimal.NewFromFloat(*b.High)
			bar.High = &d
		}
		if b.Low != nil {
			d := decimal.NewFromFloat(*b.Low)
			bar.Low = &d
		}
		bar.Volume = b.Volume
		out = append(out, bar)
	}
	return out
}

func computePriceStats(bars []models.PriceBar) *PriceStats {
	if len(bars) == 0 {
		return nil
	}
	first := bars[0].Close
	stats := &PriceStats{
		Latest: bars[len(bars)-1].Close,
		Min:    first,
		Max:    first,
	}
	for _, b := range bars[1:] {
		if b.Close.LessThan(stats.Min) {
			stats.Min = b.Close
		}
		if b.Close.GreaterThan(stats.Max) {
			stats.Max = b.Close
		}
	}
	stats.Change = stats.Latest.Sub(first)
	if !first.IsZero() {
		stats.ChangePct = stats.Change.Div(first).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return stats
}
