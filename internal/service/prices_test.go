package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Stanislas-Motte/COT-Tool/internal/client/yahoo"
	"github.com/Stanislas-Motte/COT-Tool/internal/models"
	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

type stubRepo struct {
	reports   []models.CotReport
	bars      []models.PriceBar
	mappings  map[string]*models.PriceMapping
	audits    []*models.PriceFetchAudit
	listCalls int
}

func newStubRepo() *stubRepo {
	return &stubRepo{mappings: map[string]*models.PriceMapping{}}
}

func (s *stubRepo) ListReports(ctx context.Context, commodity string, dateRange *repository.DateRange) ([]models.CotReport, error) {
	s.listCalls++
	var out []models.CotReport
	for _, r := range s.reports {
		if r.CommodityName != commodity {
			continue
		}
		if dateRange != nil {
			if !dateRange.Start.IsZero() && r.ReportDate.Before(dateRange.Start) {
				continue
			}
			if !dateRange.End.IsZero() && r.ReportDate.After(dateRange.End) {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRepo) ReportDateRange(ctx context.Context, commodity string) (time.Time, time.Time, error) {
	var min, max time.Time
	for _, r := range s.reports {
		if r.CommodityName != commodity {
			continue
		}
		if min.IsZero() || r.ReportDate.Before(min) {
			min = r.ReportDate
		}
		if r.ReportDate.After(max) {
			max = r.ReportDate
		}
	}
	return min, max, nil
}

func (s *stubRepo) ListCommodityStats(ctx context.Context) ([]repository.CommodityStat, error) {
	seen := map[string]bool{}
	var out []repository.CommodityStat
	for _, r := range s.reports {
		if seen[r.CommodityName] {
			continue
		}
		seen[r.CommodityName] = true
		out = append(out, repository.CommodityStat{
			CommodityName: r.CommodityName,
			ExchangeName:  r.ExchangeName,
			CommodityType: r.CommodityType,
		})
	}
	return out, nil
}

func (s *stubRepo) ListCommodityTypes(ctx context.Context) ([]string, error) { return nil, nil }

func (s *stubRepo) ListDistinctCommodityNames(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, r := range s.reports {
		if !seen[r.CommodityName] {
			seen[r.CommodityName] = true
			out = append(out, r.CommodityName)
		}
	}
	return out, nil
}

func (s *stubRepo) BulkUpsertReports(ctx context.Context, items []models.CotReport) (int64, error) {
	s.reports = append(s.reports, items...)
	return int64(len(items)), nil
}

func (s *stubRepo) ListPriceBars(ctx context.Context, commodity string) ([]models.PriceBar, error) {
	var out []models.PriceBar
	for _, b := range s.bars {
		if b.CommodityName == commodity {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) UpsertPriceBars(ctx context.Context, items []models.PriceBar) error {
	s.bars = append(s.bars, items...)
	return nil
}

func (s *stubRepo) GetPriceMapping(ctx context.Context, commodity string) (*models.PriceMapping, error) {
	return s.mappings[commodity], nil
}

func (s *stubRepo) ListPriceMappings(ctx context.Context, verifiedOnly bool) ([]models.PriceMapping, error) {
	var out []models.PriceMapping
	for _, m := range s.mappings {
		if verifiedOnly && !m.Verified {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (s *stubRepo) UpsertPriceMapping(ctx context.Context, item *models.PriceMapping) error {
	s.mappings[item.CommodityName] = item
	return nil
}

func (s *stubRepo) DeletePriceMapping(ctx context.Context, commodity string) error {
	delete(s.mappings, commodity)
	return nil
}

func (s *stubRepo) InsertPriceFetchAudit(ctx context.Context, item *models.PriceFetchAudit) error {
	s.audits = append(s.audits, item)
	return nil
}

type stubFetcher struct {
	bars    map[string][]yahoo.Bar
	err     error
	calls   int
	tickers []string
}

func (f *stubFetcher) GetDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]yahoo.Bar, []byte, error) {
	f.calls++
	f.tickers = append(f.tickers, ticker)
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.bars[ticker], []byte(`{"chart":{}}`), nil
}

// gatedFetcher blocks its first call until release is closed so a test can
// pile concurrent callers up behind one in-flight fetch.
type gatedFetcher struct {
	started chan struct{}
	release chan struct{}
	bars    []yahoo.Bar

	mu    sync.Mutex
	calls int
}

func (f *gatedFetcher) GetDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]yahoo.Bar, []byte, error) {
	f.mu.Lock()
	f.calls++
	first := f.calls == 1
	f.mu.Unlock()
	if first {
		close(f.started)
		<-f.release
	}
	return f.bars, []byte(`{"chart":{}}`), nil
}

func priceDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPanel_NoMapping(t *testing.T) {
	repo := newStubRepo()
	svc := NewPricePanelService(repo, &stubFetcher{}, nil)

	panel, err := svc.Panel(context.Background(), "GOLD", priceDay(2023, 1, 1), priceDay(2023, 6, 30))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if panel.State != PriceStateNoMapping {
		t.Fatalf("state=%q want NO_MAPPING", panel.State)
	}
	if panel.SuggestedTicker != "GC=F" {
		t.Fatalf("suggested=%q want GC=F", panel.SuggestedTicker)
	}
}

func TestPanel_CachedData(t *testing.T) {
	repo := newStubRepo()
	repo.mappings["GOLD"] = &models.PriceMapping{CommodityName: "GOLD", TickerSymbol: "GC=F", TickerType: "futures"}
	repo.bars = []models.PriceBar{
		{CommodityName: "GOLD", Date: priceDay(2023, 2, 1), Close: decimal.NewFromInt(1900)},
		{CommodityName: "GOLD", Date: priceDay(2023, 3, 1), Close: decimal.NewFromInt(1950)},
		{CommodityName: "GOLD", Date: priceDay(2024, 1, 1), Close: decimal.NewFromInt(2100)},
	}
	fetcher := &stubFetcher{}
	svc := NewPricePanelService(repo, fetcher, nil)

	panel, err := svc.Panel(context.Background(), "GOLD", priceDay(2023, 1, 1), priceDay(2023, 6, 30))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if panel.State != PriceStateCachedData {
		t.Fatalf("state=%q want CACHED_DATA", panel.State)
	}
	if fetcher.calls != 0 {
		t.Fatalf("cache hit must not fetch, calls=%d", fetcher.calls)
	}
	// The 2024 bar is outside the positioning range and must be cut.
	if len(panel.Bars) != 2 {
		t.Fatalf("bars=%d want 2", len(panel.Bars))
	}
	if panel.Stats == nil || !panel.Stats.Latest.Equal(decimal.NewFromInt(1950)) {
		t.Fatalf("stats=%+v", panel.Stats)
	}
}

func TestPanel_FetchOnMissAndPersist(t *testing.T) {
	repo := newStubRepo()
	repo.mappings["GOLD"] = &models.PriceMapping{CommodityName: "GOLD", TickerSymbol: "GC=F", TickerType: "futures"}
	fetcher := &stubFetcher{bars: map[string][]yahoo.Bar{
		"GC=F": {
			{Date: priceDay(2023, 2, 1), Close: 1900},
			{Date: priceDay(2023, 3, 1), Close: 1950},
		},
	}}
	svc := NewPricePanelService(repo, fetcher, nil)

	panel, err := svc.Panel(context.Background(), "GOLD", priceDay(2023, 1, 1), priceDay(2023, 6, 30))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if panel.State != PriceStateFetchOK {
		t.Fatalf("state=%q want FETCH_OK", panel.State)
	}
	if len(repo.bars) != 2 {
		t.Fatalf("fetched bars must be persisted, have %d", len(repo.bars))
	}
	if len(repo.audits) != 1 {
		t.Fatalf("audits=%d want 1", len(repo.audits))
	}
}

func TestPanel_ETFFallback(t *testing.T) {
	repo := newStubRepo()
	repo.mappings["GOLD"] = &models.PriceMapping{CommodityName: "GOLD", TickerSymbol: "GC=F", TickerType: "futures"}
	// Futures ticker yields nothing; the ETF must be tried next.
	fetcher := &stubFetcher{bars: map[string][]yahoo.Bar{
		"GLD": {{Date: priceDay(2023, 2, 1), Close: 178}},
	}}
	svc := NewPricePanelService(repo, fetcher, nil)

	panel, err := svc.Panel(context.Background(), "GOLD", priceDay(2023, 1, 1), priceDay(2023, 6, 30))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if panel.State != PriceStateFetchOK {
		t.Fatalf("state=%q want FETCH_OK", panel.State)
	}
	if len(fetcher.tickers) != 2 || fetcher.tickers[1] != "GLD" {
		t.Fatalf("tickers=%v want [GC=F GLD]", fetcher.tickers)
	}
}

func TestPanel_FetchOKWithZeroBars(t *testing.T) {
	repo := newStubRepo()
	repo.mappings["GOLD"] = &models.PriceMapping{CommodityName: "GOLD", TickerSymbol: "GLD", TickerType: "etf"}
	// Provider answers cleanly but has no bars in the window.
	fetcher := &stubFetcher{}
	svc := NewPricePanelService(repo, fetcher, nil)

	panel, err := svc.Panel(context.Background(), "GOLD", priceDay(2023, 1, 1), priceDay(2023, 6, 30))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if panel.State != PriceStateFetchOK {
		t.Fatalf("state=%q want FETCH_OK", panel.State)
	}
	if len(panel.Bars) != 0 || panel.Stats != nil {
		t.Fatalf("bars=%d stats=%+v want empty panel", len(panel.Bars), panel.Stats)
	}
	if panel.FetchError != "" {
		t.Fatalf("fetch_error=%q want none", panel.FetchError)
	}
}

func TestPanel_FetchFail(t *testing.T) {
	repo := newStubRepo()
	repo.mappings["COCOA"] = &models.PriceMapping{CommodityName: "COCOA", TickerSymbol: "XX=F", TickerType: "futures"}
	fetcher := &stubFetcher{err: fmt.Errorf("upstream 500")}
	svc := NewPricePanelService(repo, fetcher, nil)

	panel, err := svc.Panel(context.Background(), "COCOA", priceDay(2023, 1, 1), priceDay(2023, 6, 30))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if panel.State != PriceStateFetchFail {
		t.Fatalf("state=%q want FETCH_FAIL", panel.State)
	}
	if panel.FetchError == "" {
		t.Fatalf("fetch error must be reported")
	}
}

func TestFetchAndStore_ConcurrentCallsShareOneFetch(t *testing.T) {
	repo := newStubRepo()
	fetcher := &gatedFetcher{
		started: make(chan struct{}),
		release: make(chan struct{}),
		bars:    []yahoo.Bar{{Date: priceDay(2023, 2, 1), Close: 1900}},
	}
	svc := NewPricePanelService(repo, fetcher, nil)

	const n = 8
	var wg sync.WaitGroup
	results := make([][]models.PriceBar, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.fetchAndStore(context.Background(), "GOLD", "GC=F",
				priceDay(2023, 1, 1), priceDay(2023, 6, 30))
		}(i)
	}

	// Hold the first fetch open until the rest of the callers have had
	// time to queue up behind it.
	<-fetcher.started
	time.Sleep(100 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	if fetcher.calls != 1 {
		t.Fatalf("upstream calls=%d want 1", fetcher.calls)
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: err=%v", i, errs[i])
		}
		if len(results[i]) != 1 {
			t.Fatalf("caller %d: bars=%d want 1", i, len(results[i]))
		}
	}
	if len(repo.bars) != 1 {
		t.Fatalf("persisted bars=%d want 1", len(repo.bars))
	}
}

func TestComputePriceStats(t *testing.T) {
	bars := []models.PriceBar{
		{Close: decimal.NewFromInt(100)},
		{Close: decimal.NewFromInt(80)},
		{Close: decimal.NewFromInt(120)},
		{Close: decimal.NewFromInt(110)},
	}
	stats := computePriceStats(bars)
	if stats == nil {
		t.Fatalf("nil stats")
	}
	if !stats.Latest.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("latest=%v", stats.Latest)
	}
	if !stats.Min.Equal(decimal.NewFromInt(80)) || !stats.Max.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("min=%v max=%v", stats.Min, stats.Max)
	}
	if !stats.Change.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("change=%v", stats.Change)
	}
	if !stats.ChangePct.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("change_pct=%v", stats.ChangePct)
	}
	if computePriceStats(nil) != nil {
		t.Fatalf("empty window must yield nil stats")
	}
}
