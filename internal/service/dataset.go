package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Stanislas-Motte/COT-Tool/internal/cotmeta"
	"github.com/Stanislas-Motte/COT-Tool/internal/dataset"
	"github.com/Stanislas-Motte/COT-Tool/internal/models"
	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

// numericColumns maps the technical COT column names onto report fields.
// The dataset layer keeps the original workbook spellings so formulas
// written against exported CSVs resolve without renaming.
var numericColumns = []struct {
	Name    string
	Extract func(r *models.CotReport) float64
}{
	{"Open_Interest_All", func(r *models.CotReport) float64 { return r.OpenInterestAll }},
	{"Prod_Merc_Positions_Long_ALL", func(r *models.CotReport) float64 { return r.ProdMercLong }},
	{"Prod_Merc_Positions_Short_ALL", func(r *models.CotReport) float64 { return r.ProdMercShort }},
	{"Swap_Positions_Long_All", func(r *models.CotReport) float64 { return r.SwapLong }},
	{"Swap__Positions_Short_All", func(r *models.CotReport) float64 { return r.SwapShort }},
	{"Swap__Positions_Spread_All", func(r *models.CotReport) float64 { return r.SwapSpread }},
	{"M_Money_Positions_Long_ALL", func(r *models.CotReport) float64 { return r.MMoneyLong }},
	{"M_Money_Positions_Short_ALL", func(r *models.CotReport) float64 { return r.MMoneyShort }},
	{"M_Money_Positions_Spread_ALL", func(r *models.CotReport) float64 { return r.MMoneySpread }},
	{"Other_Rept_Positions_Long_ALL", func(r *models.CotReport) float64 { return r.OtherReptLong }},
	{"Other_Rept_Positions_Short_ALL", func(r *models.CotReport) float64 { return r.OtherReptShort }},
	{"Other_Rept_Positions_Spread_ALL", func(r *models.CotReport) float64 { return r.OtherReptSpread }},
	{"Tot_Rept_Positions_Long_All", func(r *models.CotReport) float64 { return r.TotReptLong }},
	{"Tot_Rept_Positions_Short_All", func(r *models.CotReport) float64 { return r.TotReptShort }},
	{"NonRept_Positions_Long_All", func(r *models.CotReport) float64 { return r.NonReptLong }},
	{"NonRept_Positions_Short_All", func(r *models.CotReport) float64 { return r.NonReptShort }},
	{"Pct_of_OI_Prod_Merc_Long_All", func(r *models.CotReport) float64 { return r.PctOIProdMercLong }},
	{"Pct_of_OI_Prod_Merc_Short_All", func(r *models.CotReport) float64 { return r.PctOIProdMercShort }},
	{"Pct_of_OI_Swap_Long_All", func(r *models.CotReport) float64 { return r.PctOISwapLong }},
	{"Pct_of_OI_Swap_Short_All", func(r *models.CotReport) float64 { return r.PctOISwapShort }},
	{"Pct_of_OI_M_Money_Long_All", func(r *models.CotReport) float64 { return r.PctOIMMoneyLong }},
	{"Pct_of_OI_M_Money_Short_All", func(r *models.CotReport) float64 { return r.PctOIMMoneyShort }},
	{"Pct_of_OI_Tot_Rept_Long_All", func(r *models.CotReport) float64 { return r.PctOITotReptLong }},
	{"Pct_of_OI_Tot_Rept_Short_All", func(r *models.CotReport) float64 { return r.PctOITotReptShort }},
}

type datasetCacheKey struct {
	Commodity string
	Start     time.Time
	End       time.Time
}

// DatasetService turns row-oriented reports into the columnar datasets
// the formula and chart layers work on, with a small in-process cache
// keyed by commodity and date filter.
type DatasetService struct {
	Repo repository.Repository

	mu    sync.Mutex
	cache map[datasetCacheKey]*dataset.Dataset
}

func NewDatasetService(repo repository.Repository) *DatasetService {
	return &DatasetService{
		Repo:  repo,
		cache: map[datasetCacheKey]*dataset.Dataset{},
	}
}

// Dataset loads the reports for a commodity, optionally filtered by an
// inclusive date range, as a columnar dataset. Rows come back in report
// date ascending order.
func (s *DatasetService) Dataset(ctx context.Context, commodity string, dateRange *repository.DateRange) (*dataset.Dataset, error) {
	key := datasetCacheKey{Commodity: commodity}
	if dateRange != nil {
		key.Start = dateRange.Start
		key.End = dateRange.End
	}

	s.mu.Lock()
	if ds, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return ds, nil
	}
	s.mu.Unlock()

	reports, err := s.Repo.ListReports(ctx, commodity, dateRange)
	if err != nil {
		return nil, fmt.Errorf("load reports: %w", err)
	}
	ds := buildDataset(commodity, reports)

	s.mu.Lock()
	s.cache[key] = ds
	s.mu.Unlock()
	return ds, nil
}

// Invalidate drops every cached dataset. Called after a load refreshes
// the positioning table.
func (s *DatasetService) Invalidate() {
	s.mu.Lock()
	s.cache = map[datasetCacheKey]*dataset.Dataset{}
	s.mu.Unlock()
}

func buildDataset(commodity string, reports []models.CotReport) *dataset.Dataset {
	exchange := ""
	if len(reports) > 0 {
		exchange = reports[0].ExchangeName
	}
	ds := dataset.New(commodity, exchange)
	ds.Dates = make([]time.Time, len(reports))
	for i := range reports {
		ds.Dates[i] = reports[i].ReportDate
	}
	for _, col := range numericColumns {
		values := make([]float64, len(reports))
		for i := range reports {
			values[i] = col.Extract(&reports[i])
		}
		ds.AddColumn(col.Name, values)
	}
	return ds
}

// CommodityStats lists the selector rows, annotated with whether a
// price mapping exists for each commodity.
func (s *DatasetService) CommodityStats(ctx context.Context) ([]repository.CommodityStat, error) {
	stats, err := s.Repo.ListCommodityStats(ctx)
	if err != nil {
		return nil, err
	}
	mappings, err := s.Repo.ListPriceMappings(ctx, false)
	if err != nil {
		return nil, err
	}
	mapped := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		mapped[m.CommodityName] = true
	}
	for i := range stats {
		stats[i].HasPriceData = mapped[stats[i].CommodityName]
	}
	return stats, nil
}

func (s *DatasetService) CommodityTypes(ctx context.Context) ([]string, error) {
	return s.Repo.ListCommodityTypes(ctx)
}

// Columns returns the alias registry restricted to the numeric columns a
// dataset actually carries, in registry order.
func (s *DatasetService) Columns() []cotmeta.ColumnAlias {
	known := make(map[string]bool, len(numericColumns))
	for _, col := range numericColumns {
		known[col.Name] = true
	}
	var out []cotmeta.ColumnAlias
	for _, a := range cotmeta.Aliases() {
		if known[a.Column] {
			out = append(out, a)
		}
	}
	return out
}
