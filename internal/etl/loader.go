package etl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Stanislas-Motte/COT-Tool/internal/cotmeta"
	"github.com/Stanislas-Motte/COT-Tool/internal/models"
	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

// Loader ingests raw CFTC disaggregated futures-only workbooks into the
// positioning table. The workbook layout is one header row of technical
// column names followed by one row per commodity per report week.
type Loader struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// Result summarizes one load run.
type Result struct {
	Rows     int   `json:"rows"`
	Skipped  int   `json:"skipped"`
	Upserted int64 `json:"upserted"`
}

// Workbook columns the loader cannot proceed without.
var requiredColumns = []string{
	"Market_and_Exchange_Names",
	"As_of_Date_In_Form_YYMMDD",
	"Open_Interest_All",
}

// floatFields maps workbook column names to setters on the report row.
// Spellings follow the raw CFTC headers, doubled underscores included.
var floatFields = map[string]func(*models.CotReport, float64){
	"Open_Interest_All":               func(r *models.CotReport, v float64) { r.OpenInterestAll = v },
	"Prod_Merc_Positions_Long_ALL":    func(r *models.CotReport, v float64) { r.ProdMercLong = v },
	"Prod_Merc_Positions_Short_ALL":   func(r *models.CotReport, v float64) { r.ProdMercShort = v },
	"Swap_Positions_Long_All":         func(r *models.CotReport, v float64) { r.SwapLong = v },
	"Swap__Positions_Short_All":       func(r *models.CotReport, v float64) { r.SwapShort = v },
	"Swap__Positions_Spread_All":      func(r *models.CotReport, v float64) { r.SwapSpread = v },
	"M_Money_Positions_Long_ALL":      func(r *models.CotReport, v float64) { r.MMoneyLong = v },
	"M_Money_Positions_Short_ALL":     func(r *models.CotReport, v float64) { r.MMoneyShort = v },
	"M_Money_Positions_Spread_ALL":    func(r *models.CotReport, v float64) { r.MMoneySpread = v },
	"Other_Rept_Positions_Long_ALL":   func(r *models.CotReport, v float64) { r.OtherReptLong = v },
	"Other_Rept_Positions_Short_ALL":  func(r *models.CotReport, v float64) { r.OtherReptShort = v },
	"Other_Rept_Positions_Spread_ALL": func(r *models.CotReport, v float64) { r.OtherReptSpread = v },
	"Tot_Rept_Positions_Long_All":     func(r *models.CotReport, v float64) { r.TotReptLong = v },
	"Tot_Rept_Positions_Short_All":    func(r *models.CotReport, v float64) { r.TotReptShort = v },
	"NonRept_Positions_Long_All":      func(r *models.CotReport, v float64) { r.NonReptLong = v },
	"NonRept_Positions_Short_All":     func(r *models.CotReport, v float64) { r.NonReptShort = v },
	"Pct_of_OI_Prod_Merc_Long_All":    func(r *models.CotReport, v float64) { r.PctOIProdMercLong = v },
	"Pct_of_OI_Prod_Merc_Short_All":   func(r *models.CotReport, v float64) { r.PctOIProdMercShort = v },
	"Pct_of_OI_Swap_Long_All":         func(r *models.CotReport, v float64) { r.PctOISwapLong = v },
	"Pct_of_OI_Swap_Short_All":        func(r *models.CotReport, v float64) { r.PctOISwapShort = v },
	"Pct_of_OI_M_Money_Long_All":      func(r *models.CotReport, v float64) { r.PctOIMMoneyLong = v },
	"Pct_of_OI_M_Money_Short_All":     func(r *models.CotReport, v float64) { r.PctOIMMoneyShort = v },
	"Pct_of_OI_Tot_Rept_Long_All":     func(r *models.CotReport, v float64) { r.PctOITotReptLong = v },
	"Pct_of_OI_Tot_Rept_Short_All":    func(r *models.CotReport, v float64) { r.PctOITotReptShort = v },
}

var textFields = map[string]func(*models.CotReport, string){
	"CFTC_Commodity_Code":       func(r *models.CotReport, v string) { r.CFTCCommodityCode = strings.TrimSpace(v) },
	"CFTC_Contract_Market_Code": func(r *models.CotReport, v string) { r.ContractMarketCode = strings.TrimSpace(v) },
	"Contract_Units":            func(r *models.CotReport, v string) { r.ContractUnits = strings.TrimSpace(v) },
	"Report_Date_as_MM_DD_YYYY": func(r *models.CotReport, v string) { r.ReportDateText = strings.TrimSpace(v) },
}

// LoadFile parses a workbook and upserts its rows. Malformed rows are
// counted and skipped rather than aborting the run.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	result := &Result{}
	reports := make([]models.CotReport, 0, len(rows)-1)
	for _, row := range rows[1:] {
		report, err := parseRow(header, row)
		if err != nil {
			result.Skipped++
			if l.Logger != nil {
				l.Logger.Debug("skipping row", zap.Error(err))
			}
			continue
		}
		reports = append(reports, *report)
		result.Rows++
	}

	upserted, err := l.Repo.BulkUpsertReports(ctx, reports)
	if err != nil {
		return nil, fmt.Errorf("upsert reports: %w", err)
	}
	result.Upserted = upserted

	if l.Logger != nil {
		l.Logger.Info("workbook loaded",
			zap.String("path", path),
			zap.Int("rows", result.Rows),
			zap.Int("skipped", result.Skipped),
			zap.Int64("upserted", upserted))
	}
	return result, nil
}

func cell(header map[string]int, row []string, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseRow(header map[string]int, row []string) (*models.CotReport, error) {
	marketName := strings.TrimSpace(cell(header, row, "Market_and_Exchange_Names"))
	if marketName == "" {
		return nil, fmt.Errorf("empty market name")
	}
	commodity, exchange := splitMarketName(marketName)

	dateRaw := strings.TrimSpace(cell(header, row, "As_of_Date_In_Form_YYMMDD"))
	reportDate, err := parseReportDate(dateRaw)
	if err != nil {
		return nil, fmt.Errorf("row %q: %w", marketName, err)
	}

	report := &models.CotReport{
		ReportDate:    reportDate,
		CommodityName: commodity,
		ExchangeName:  exchange,
		CommodityType: cotmeta.CommodityType(commodity),
	}
	for col, set := range textFields {
		if v := cell(header, row, col); v != "" {
			set(report, v)
		}
	}
	for col, set := range floatFields {
		raw := strings.TrimSpace(cell(header, row, col))
		if raw == "" || raw == "." {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			continue
		}
		set(report, v)
	}
	return report, nil
}

// splitMarketName separates "WHEAT-SRW - CHICAGO BOARD OF TRADE" into
// commodity and exchange on the last " - " so commodity names that
// themselves contain a dash survive.
func splitMarketName(name string) (commodity, exchange string) {
	if idx := strings.LastIndex(name, " - "); idx >= 0 {
		return strings.TrimSpace(name[:idx]), strings.TrimSpace(name[idx+3:])
	}
	return name, ""
}

// parseReportDate handles both the YYMMDD workbook spelling and cells
// excelize renders as a formatted date.
func parseReportDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty report date")
	}
	if len(raw) == 6 {
		if t, err := time.Parse("060102", raw); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006", "1/2/06"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable report date %q", raw)
}
