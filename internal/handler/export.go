package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
	"github.com/Stanislas-Motte/COT-Tool/internal/service"
)

type ExportHandler struct {
	Exports *service.ExportService
	Logger  *zap.Logger
}

func (h *ExportHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/export/:commodity", h.exportCSV)
}

func (h *ExportHandler) exportCSV(c *gin.Context) {
	if h.Exports == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	commodity := strings.TrimSpace(c.Param("commodity"))
	if commodity == "" {
		Error(c, http.StatusBadRequest, "commodity is required", nil)
		return
	}

	var dateRange *repository.DateRange
	start, end := c.Query("start"), c.Query("end")
	if start != "" || end != "" {
		dateRange = &repository.DateRange{}
		if start != "" {
			t, err := time.Parse("2006-01-02", start)
			if err != nil {
				Error(c, http.StatusBadRequest, "invalid start date", nil)
				return
			}
			dateRange.Start = t
		}
		if end != "" {
			t, err := time.Parse("2006-01-02", end)
			if err != nil {
				Error(c, http.StatusBadRequest, "invalid end date", nil)
				return
			}
			dateRange.End = t
		}
	}

	// Weekly report datasets are small, so buffering the whole file keeps
	// error handling clean.
	var buf bytes.Buffer
	if err := h.Exports.WriteCSV(c.Request.Context(), &buf, commodity, dateRange); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("csv export failed",
				zap.String("commodity", commodity),
				zap.Error(err))
		}
		Error(c, http.StatusNotFound, err.Error(), nil)
		return
	}

	filename := strings.ReplaceAll(strings.ToLower(commodity), " ", "_") + "_cot.csv"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
