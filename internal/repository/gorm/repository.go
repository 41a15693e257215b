package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Stanislas-Motte/COT-Tool/internal/models"
	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- positioning data -------------------------------------------------------

func (s *Store) ListReports(ctx context.Context, commodity string, dateRange *repository.DateRange) ([]models.CotReport, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.CotReport{}).
		Where("commodity_name = ?", strings.TrimSpace(commodity))
	if dateRange != nil {
		if !dateRange.Start.IsZero() {
			query = query.Where("report_date >= ?", dateRange.Start)
		}
		if !dateRange.End.IsZero() {
			query = query.Where("report_date <= ?", dateRange.End)
		}
	}
	var items []models.CotReport
	if err := query.Order("report_date asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ReportDateRange(ctx context.Context, commodity string) (time.Time, time.Time, error) {
	if s == nil || s.db == nil {
		return time.Time{}, time.Time{}, nil
	}
	var bounds struct {
		MinDate *time.Time
		MaxDate *time.Time
	}
	err := s.db.WithContext(ctx).
		Model(&models.CotReport{}).
		Select("MIN(report_date) as min_date, MAX(report_date) as max_date").
		Where("commodity_name = ?", strings.TrimSpace(commodity)).
		Scan(&bounds).Error
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if bounds.MinDate == nil || bounds.MaxDate == nil {
		return time.Time{}, time.Time{}, nil
	}
	return *bounds.MinDate, *bounds.MaxDate, nil
}

func (s *Store) ListCommodityStats(ctx context.Context) ([]repository.CommodityStat, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []repository.CommodityStat
	err := s.db.WithContext(ctx).
		Model(&models.CotReport{}).
		Select(`commodity_name,
			exchange_name,
			cftc_commodity_code,
			commodity_type,
			MIN(open_interest_all) as min_oi,
			MAX(open_interest_all) as max_oi,
			AVG(open_interest_all) as avg_oi`).
		Group("commodity_name, exchange_name, cftc_commodity_code, commodity_type").
		Order("commodity_name asc").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListCommodityTypes(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var types []string
	err := s.db.WithContext(ctx).
		Model(&models.CotReport{}).
		Distinct("commodity_type").
		Order("commodity_type asc").
		Pluck("commodity_type", &types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (s *Store) ListDistinctCommodityNames(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.CotReport{}).
		Distinct("commodity_name").
		Order("commodity_name asc").
		Pluck("commodity_name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Store) BulkUpsertReports(ctx context.Context, items []models.CotReport) (int64, error) {
	if s == nil || s.db == nil || len(items) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "commodity_name"},
			{Name: "exchange_name"},
			{Name: "report_date"},
		},
		UpdateAll: true,
	}).CreateInBatches(items, 500)
	return res.RowsAffected, res.Error
}

// --- price cache ------------------------------------------------------------

func (s *Store) ListPriceBars(ctx context.Context, commodity string) ([]models.PriceBar, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.PriceBar
	err := s.db.WithContext(ctx).
		Model(&models.PriceBar{}).
		Where("commodity_name = ?", strings.TrimSpace(commodity)).
		Order("date asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpsertPriceBars(ctx context.Context, items []models.PriceBar) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "commodity_name"},
			{Name: "date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).CreateInBatches(items, 500).Error
}

// --- ticker mappings --------------------------------------------------------

func (s *Store) GetPriceMapping(ctx context.Context, commodity string) (*models.PriceMapping, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.PriceMapping
	err := s.db.WithContext(ctx).
		Where("commodity_name = ?", strings.TrimSpace(commodity)).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListPriceMappings(ctx context.Context, verifiedOnly bool) ([]models.PriceMapping, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.PriceMapping{})
	if verifiedOnly {
		query = query.Where("verified = ?", true)
	}
	var items []models.PriceMapping
	if err := query.Order("commodity_name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpsertPriceMapping(ctx context.Context, item *models.PriceMapping) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.CommodityName) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "commodity_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ticker_symbol",
			"ticker_type",
			"auto_mapped",
			"verified",
			"notes",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) DeletePriceMapping(ctx context.Context, commodity string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("commodity_name = ?", strings.TrimSpace(commodity)).
		Delete(&models.PriceMapping{}).Error
}

// --- fetch audit ------------------------------------------------------------

func (s *Store) InsertPriceFetchAudit(ctx context.Context, item *models.PriceFetchAudit) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}
