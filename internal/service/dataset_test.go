package service

import (
	"context"
	"testing"
	"time"

	"github.com/Stanislas-Motte/COT-Tool/internal/models"
	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

func seedReports(repo *stubRepo) {
	dates := []time.Time{
		time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 17, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		repo.reports = append(repo.reports, models.CotReport{
			ReportDate:      d,
			CommodityName:   "GOLD",
			ExchangeName:    "COMMODITY EXCHANGE INC.",
			CommodityType:   "Metals",
			OpenInterestAll: float64(1000 + i*100),
			MMoneyLong:      float64(300 + i*10),
			MMoneyShort:     float64(100 + i*5),
		})
	}
}

func TestDataset_ColumnarShape(t *testing.T) {
	repo := newStubRepo()
	seedReports(repo)
	svc := NewDatasetService(repo)

	ds, err := svc.Dataset(context.Background(), "GOLD", nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("rows=%d want 3", ds.Len())
	}
	if ds.Exchange != "COMMODITY EXCHANGE INC." {
		t.Fatalf("exchange=%q", ds.Exchange)
	}
	oi, ok := ds.Column("Open_Interest_All")
	if !ok {
		t.Fatalf("missing Open_Interest_All")
	}
	if oi[0] != 1000 || oi[2] != 1200 {
		t.Fatalf("oi=%v", oi)
	}
	// Every registered numeric column must exist, workbook spelling intact.
	if !ds.HasColumn("Swap__Positions_Short_All") {
		t.Fatalf("double-underscore swap column missing")
	}
}

func TestDataset_Memoized(t *testing.T) {
	repo := newStubRepo()
	seedReports(repo)
	svc := NewDatasetService(repo)

	ctx := context.Background()
	if _, err := svc.Dataset(ctx, "GOLD", nil); err != nil {
		t.Fatalf("err=%v", err)
	}
	if _, err := svc.Dataset(ctx, "GOLD", nil); err != nil {
		t.Fatalf("err=%v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("listCalls=%d want 1 (second hit memoized)", repo.listCalls)
	}

	// A different date filter is a different cache key.
	r := &repository.DateRange{Start: time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)}
	ds, err := svc.Dataset(ctx, "GOLD", r)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("listCalls=%d want 2", repo.listCalls)
	}
	if ds.Len() != 2 {
		t.Fatalf("filtered rows=%d want 2", ds.Len())
	}

	svc.Invalidate()
	if _, err := svc.Dataset(ctx, "GOLD", nil); err != nil {
		t.Fatalf("err=%v", err)
	}
	if repo.listCalls != 3 {
		t.Fatalf("listCalls=%d want 3 after invalidate", repo.listCalls)
	}
}

func TestCommodityStats_HasPriceDataFromMappings(t *testing.T) {
	repo := newStubRepo()
	seedReports(repo)
	repo.mappings["GOLD"] = &models.PriceMapping{CommodityName: "GOLD", TickerSymbol: "GC=F"}
	svc := NewDatasetService(repo)

	stats, err := svc.CommodityStats(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("stats=%d want 1", len(stats))
	}
	if !stats[0].HasPriceData {
		t.Fatalf("GOLD has a mapping, HasPriceData must be true")
	}
}

func TestColumns_RestrictedToNumeric(t *testing.T) {
	svc := NewDatasetService(newStubRepo())
	cols := svc.Columns()
	if len(cols) != len(numericColumns) {
		t.Fatalf("columns=%d want %d", len(cols), len(numericColumns))
	}
	for _, c := range cols {
		if c.Column == "Report_Date_as_MM_DD_YYYY" {
			t.Fatalf("text columns must not be offered as plottable")
		}
	}
}
