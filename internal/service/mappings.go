package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Stanislas-Motte/COT-Tool/internal/cotmeta"
	"github.com/Stanislas-Motte/COT-Tool/internal/models"
	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

// MappingService manages commodity-to-ticker mappings: manual CRUD plus
// bulk auto-mapping from the static ticker table.
type MappingService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func NewMappingService(repo repository.Repository, logger *zap.Logger) *MappingService {
	return &MappingService{Repo: repo, Logger: logger}
}

func (s *MappingService) List(ctx context.Context, verifiedOnly bool) ([]models.PriceMapping, error) {
	return s.Repo.ListPriceMappings(ctx, verifiedOnly)
}

func (s *MappingService) Get(ctx context.Context, commodity string) (*models.PriceMapping, error) {
	return s.Repo.GetPriceMapping(ctx, commodity)
}

// Save upserts a manual mapping. The ticker type is derived from the
// symbol when the caller leaves it blank.
func (s *MappingService) Save(ctx context.Context, m *models.PriceMapping) error {
	if m == nil || strings.TrimSpace(m.CommodityName) == "" {
		return fmt.Errorf("commodity_name is required")
	}
	if strings.TrimSpace(m.TickerSymbol) == "" {
		return fmt.Errorf("ticker_symbol is required")
	}
	if m.TickerType == "" {
		m.TickerType = cotmeta.TickerType(m.TickerSymbol)
	}
	return s.Repo.UpsertPriceMapping(ctx, m)
}

func (s *MappingService) Delete(ctx context.Context, commodity string) error {
	if strings.TrimSpace(commodity) == "" {
		return fmt.Errorf("commodity_name is required")
	}
	return s.Repo.DeletePriceMapping(ctx, commodity)
}

// AutoMapResult reports one commodity's outcome from an auto-map run.
type AutoMapResult struct {
	Commodity string `json:"commodity"`
	Ticker    string `json:"ticker,omitempty"`
	Status    string `json:"status"` // mapped, skipped, unmatched
}

// AutoMap walks every distinct commodity in the positioning table and
// seeds mappings from the static ticker table. Existing mappings are
// never overwritten; commodities with no known ticker are reported as
// unmatched so an operator can map them by hand.
func (s *MappingService) AutoMap(ctx context.Context, preferFutures bool) ([]AutoMapResult, error) {
	names, err := s.Repo.ListDistinctCommodityNames(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]AutoMapResult, 0, len(names))
	for _, name := range names {
		existing, err := s.Repo.GetPriceMapping(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			results = append(results, AutoMapResult{Commodity: name, Ticker: existing.TickerSymbol, Status: "skipped"})
			continue
		}
		ticker := cotmeta.TickerForCommodity(name, preferFutures)
		if ticker == "" {
			results = append(results, AutoMapResult{Commodity: name, Status: "unmatched"})
			continue
		}
		m := &models.PriceMapping{
			CommodityName: name,
			TickerSymbol:  ticker,
			TickerType:    cotmeta.TickerType(ticker),
			AutoMapped:    true,
		}
		if err := s.Repo.UpsertPriceMapping(ctx, m); err != nil {
			return nil, err
		}
		results = append(results, AutoMapResult{Commodity: name, Ticker: ticker, Status: "mapped"})
	}

	if s.Logger != nil {
		mapped := 0
		for _, r := range results {
			if r.Status == "mapped" {
				mapped++
			}
		}
		s.Logger.Info("auto-map finished",
			zap.Int("commodities", len(names)),
			zap.Int("mapped", mapped))
	}
	return results, nil
}
