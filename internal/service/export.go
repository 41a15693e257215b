package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
)

// ExportService writes a commodity's dataset as CSV with the technical
// column names in the header, matching the raw workbook layout.
type ExportService struct {
	Datasets *DatasetService
}

func NewExportService(datasets *DatasetService) *ExportService {
	return &ExportService{Datasets: datasets}
}

func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, commodity string, dateRange *repository.DateRange) error {
	ds, err := s.Datasets.Dataset(ctx, commodity, dateRange)
	if err != nil {
		return err
	}
	if ds.Len() == 0 {
		return fmt.Errorf("no data for commodity %q", commodity)
	}

	columns := ds.ColumnNames()
	cw := csv.NewWriter(w)

	header := append([]string{"Report_Date_as_MM_DD_YYYY", "Market_and_Exchange_Names"}, columns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	marketName := ds.Commodity
	if ds.Exchange != "" {
		marketName = ds.Commodity + " - " + ds.Exchange
	}
	row := make([]string, len(header))
	for i := 0; i < ds.Len(); i++ {
		row[0] = ds.Dates[i].Format("01/02/2006")
		row[1] = marketName
		for j, col := range columns {
			values, _ := ds.Column(col)
			row[2+j] = strconv.FormatFloat(values[i], 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
