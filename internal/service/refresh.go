package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

// PriceRefreshService re-fetches price history for every mapped
// commodity. Runs from cron off-peak so interactive panel requests
// mostly hit warm cache.
type PriceRefreshService struct {
	Repo       repository.Repository
	Panels     *PricePanelService
	Logger     *zap.Logger
	FetchDelay time.Duration
	// VerifiedOnly restricts the refresh to operator-checked mappings.
	VerifiedOnly bool
}

func NewPriceRefreshService(repo repository.Repository, panels *PricePanelService, logger *zap.Logger, fetchDelay time.Duration, verifiedOnly bool) *PriceRefreshService {
	return &PriceRefreshService{
		Repo:         repo,
		Panels:       panels,
		Logger:       logger,
		FetchDelay:   fetchDelay,
		VerifiedOnly: verifiedOnly,
	}
}

// RefreshAll walks the mappings and refreshes each commodity's bars over
// its full positioning date range. Failures are logged and skipped; one
// bad ticker must not stall the sweep. Returns the number of commodities
// refreshed successfully.
func (s *PriceRefreshService) RefreshAll(ctx context.Context) (int, error) {
	mappings, err := s.Repo.ListPriceMappings(ctx, s.VerifiedOnly)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, m := range mappings {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		minDate, maxDate, err := s.Repo.ReportDateRange(ctx, m.CommodityName)
		if err != nil || minDate.IsZero() {
			continue
		}
		_, err = s.Panels.fetchAndStore(ctx, m.CommodityName, m.TickerSymbol, minDate, maxDate)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("price refresh failed",
					zap.String("commodity", m.CommodityName),
					zap.String("ticker", m.TickerSymbol),
					zap.Error(err))
			}
		} else {
			refreshed++
		}
		if s.FetchDelay > 0 {
			select {
			case <-time.After(s.FetchDelay):
			case <-ctx.Done():
				return refreshed, ctx.Err()
			}
		}
	}

	if s.Logger != nil {
		s.Logger.Info("price refresh sweep finished",
			zap.Int("mappings", len(mappings)),
			zap.Int("refreshed", refreshed))
	}
	return refreshed, nil
}
