package repository

import (
	"context"
	"time"

	"github.com/Stanislas-Motte/COT-Tool/internal/models"
)

// DateRange is an optional inclusive filter on report dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// CommodityStat is one row of the commodity selector: identity plus open
// interest aggregates over the commodity's whole history.
type CommodityStat struct {
	CommodityName     string  `json:"commodity_name"`
	ExchangeName      string  `json:"exchange_name"`
	CFTCCommodityCode string  `json:"cftc_commodity_code"`
	CommodityType     string  `json:"commodity_type"`
	MinOI             float64 `json:"min_oi"`
	MaxOI             float64 `json:"max_oi"`
	AvgOI             float64 `json:"avg_oi"`
	// HasPriceData is filled in by the service layer from the mapping table.
	HasPriceData bool `json:"has_price_data"`
}

// Repository is the storage surface of the service. The positioning table
// is read-only to everything except the loader; price tables take
// append-only upserts keyed by commodity.
type Repository interface {
	// Positioning data.
	ListReports(ctx context.Context, commodity string, dateRange *DateRange) ([]models.CotReport, error)
	ReportDateRange(ctx context.Context, commodity string) (min, max time.Time, err error)
	ListCommodityStats(ctx context.Context) ([]CommodityStat, error)
	ListCommodityTypes(ctx context.Context) ([]string, error)
	ListDistinctCommodityNames(ctx context.Context) ([]string, error)
	BulkUpsertReports(ctx context.Context, items []models.CotReport) (int64, error)

	// Price cache.
	ListPriceBars(ctx context.Context, commodity string) ([]models.PriceBar, error)
	UpsertPriceBars(ctx context.Context, items []models.PriceBar) error

	// Ticker mappings.
	GetPriceMapping(ctx context.Context, commodity string) (*models.PriceMapping, error)
	ListPriceMappings(ctx context.Context, verifiedOnly bool) ([]models.PriceMapping, error)
	UpsertPriceMapping(ctx context.Context, item *models.PriceMapping) error
	DeletePriceMapping(ctx context.Context, commodity string) error

	// Fetch audit trail.
	InsertPriceFetchAudit(ctx context.Context, item *models.PriceFetchAudit) error
}
