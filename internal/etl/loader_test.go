package etl

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Stanislas-Motte/COT-Tool/internal/models"
	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

type captureRepo struct {
	items []models.CotReport
}

func (r *captureRepo) ListReports(context.Context, string, *repository.DateRange) ([]models.CotReport, error) {
	return nil, nil
}
func (r *captureRepo) ReportDateRange(context.Context, string) (time.Time, time.Time, error) {
	return time.Time{}, time.Time{}, nil
}
func (r *captureRepo) ListCommodityStats(context.Context) ([]repository.CommodityStat, error) {
	return nil, nil
}
func (r *captureRepo) ListCommodityTypes(context.Context) ([]string, error)         { return nil, nil }
func (r *captureRepo) ListDistinctCommodityNames(context.Context) ([]string, error) { return nil, nil }
func (r *captureRepo) BulkUpsertReports(ctx context.Context, items []models.CotReport) (int64, error) {
	r.items = append(r.items, items...)
	return int64(len(items)), nil
}
func (r *captureRepo) ListPriceBars(context.Context, string) ([]models.PriceBar, error) {
	return nil, nil
}
func (r *captureRepo) UpsertPriceBars(context.Context, []models.PriceBar) error { return nil }
func (r *captureRepo) GetPriceMapping(context.Context, string) (*models.PriceMapping, error) {
	return nil, nil
}
func (r *captureRepo) ListPriceMappings(context.Context, bool) ([]models.PriceMapping, error) {
	return nil, nil
}
func (r *captureRepo) UpsertPriceMapping(context.Context, *models.PriceMapping) error { return nil }
func (r *captureRepo) DeletePriceMapping(context.Context, string) error               { return nil }
func (r *captureRepo) InsertPriceFetchAudit(context.Context, *models.PriceFetchAudit) error {
	return nil
}

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "cot.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestLoadFile_ParsesRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{
			"Market_and_Exchange_Names", "As_of_Date_In_Form_YYMMDD", "Open_Interest_All",
			"M_Money_Positions_Long_ALL", "Swap__Positions_Short_All", "CFTC_Commodity_Code",
		},
		{"GOLD - COMMODITY EXCHANGE INC.", "230103", "480,000", "210000", "95000", "088"},
		{"WHEAT-SRW - CHICAGO BOARD OF TRADE", "230103", "350000", "90000", "40000", "001"},
	})

	repo := &captureRepo{}
	loader := &Loader{Repo: repo}
	result, err := loader.LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if result.Rows != 2 || result.Skipped != 0 {
		t.Fatalf("result=%+v", result)
	}
	if len(repo.items) != 2 {
		t.Fatalf("items=%d want 2", len(repo.items))
	}

	gold := repo.items[0]
	if gold.CommodityName != "GOLD" || gold.ExchangeName != "COMMODITY EXCHANGE INC." {
		t.Fatalf("split market name: %q / %q", gold.CommodityName, gold.ExchangeName)
	}
	if !gold.ReportDate.Equal(time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date=%v", gold.ReportDate)
	}
	if gold.OpenInterestAll != 480000 {
		t.Fatalf("thousands separator must be stripped, oi=%v", gold.OpenInterestAll)
	}
	if gold.SwapShort != 95000 {
		t.Fatalf("double-underscore column not mapped, swap short=%v", gold.SwapShort)
	}
	if gold.CommodityType != "Metals" {
		t.Fatalf("type=%q", gold.CommodityType)
	}
	if gold.CFTCCommodityCode != "088" {
		t.Fatalf("code=%q", gold.CFTCCommodityCode)
	}
}

func TestLoadFile_SkipsMalformedRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Market_and_Exchange_Names", "As_of_Date_In_Form_YYMMDD", "Open_Interest_All"},
		{"GOLD - COMMODITY EXCHANGE INC.", "230103", "480000"},
		{"", "230103", "100"},
		{"SILVER - COMMODITY EXCHANGE INC.", "not-a-date", "100"},
	})

	repo := &captureRepo{}
	loader := &Loader{Repo: repo}
	result, err := loader.LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if result.Rows != 1 || result.Skipped != 2 {
		t.Fatalf("result=%+v", result)
	}
}

func TestLoadFile_MissingRequiredColumn(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Market_and_Exchange_Names", "Open_Interest_All"},
		{"GOLD - COMMODITY EXCHANGE INC.", "480000"},
	})

	loader := &Loader{Repo: &captureRepo{}}
	if _, err := loader.LoadFile(context.Background(), path); err == nil {
		t.Fatalf("expected error for missing date column")
	}
}

func TestSplitMarketName_DashInCommodity(t *testing.T) {
	commodity, exchange := splitMarketName("WHEAT-SRW - CHICAGO BOARD OF TRADE")
	if commodity != "WHEAT-SRW" || exchange != "CHICAGO BOARD OF TRADE" {
		t.Fatalf("got %q / %q", commodity, exchange)
	}
	commodity, exchange = splitMarketName("BUTTER (CASH SETTLED) - CHICAGO MERCANTILE EXCHANGE")
	if commodity != "BUTTER (CASH SETTLED)" {
		t.Fatalf("got %q", commodity)
	}
}
