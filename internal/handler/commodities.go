package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Stanislas-Motte/COT-Tool/internal/cotmeta"
	"github.com/Stanislas-Motte/COT-Tool/internal/service"
)

type CommoditiesHandler struct {
	Datasets *service.DatasetService
	Logger   *zap.Logger
}

func (h *CommoditiesHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1")
	group.GET("/commodities", h.listCommodities)
	group.GET("/commodities/types", h.listTypes)
	group.GET("/columns", h.listColumns)
	group.GET("/vintage-groups", h.listVintageGroups)
}

func (h *CommoditiesHandler) listCommodities(c *gin.Context) {
	if h.Datasets == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	stats, err := h.Datasets.CommodityStats(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list commodities failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	typeFilter := strings.TrimSpace(c.Query("type"))
	priceOnly := c.Query("price_data") == "true"
	minOI := floatQuery(c, "min_oi")
	maxOI := floatQuery(c, "max_oi")

	filtered := stats[:0]
	for _, s := range stats {
		if typeFilter != "" && !strings.EqualFold(s.CommodityType, typeFilter) {
			continue
		}
		if priceOnly && !s.HasPriceData {
			continue
		}
		if minOI != nil && s.MaxOI < *minOI {
			continue
		}
		if maxOI != nil && s.MinOI > *maxOI {
			continue
		}
		filtered = append(filtered, s)
	}
	Ok(c, filtered, map[string]any{"total": len(filtered)})
}

func floatQuery(c *gin.Context, name string) *float64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (h *CommoditiesHandler) listTypes(c *gin.Context) {
	if h.Datasets == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	types, err := h.Datasets.CommodityTypes(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list commodity types failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, types, nil)
}

func (h *CommoditiesHandler) listColumns(c *gin.Context) {
	if h.Datasets == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	Ok(c, h.Datasets.Columns(), nil)
}

func (h *CommoditiesHandler) listVintageGroups(c *gin.Context) {
	Ok(c, cotmeta.VintageGroups(), nil)
}
