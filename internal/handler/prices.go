package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Stanislas-Motte/COT-Tool/internal/models"
	"github.com/Stanislas-Motte/COT-Tool/internal/repository"
	"github.com/Stanislas-Motte/COT-Tool/internal/service"
)

type PricesHandler struct {
	Repo     repository.Repository
	Panels   *service.PricePanelService
	Mappings *service.MappingService
	Logger   *zap.Logger
}

func (h *PricesHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1")
	group.GET("/prices/:commodity", h.getPanel)
	group.GET("/mappings", h.listMappings)
	group.GET("/mappings/:commodity", h.getMapping)
	group.PUT("/mappings/:commodity", h.saveMapping)
	group.DELETE("/mappings/:commodity", h.deleteMapping)
	group.POST("/mappings/auto", h.autoMap)
}

func (h *PricesHandler) getPanel(c *gin.Context) {
	if h.Panels == nil || h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	commodity := strings.TrimSpace(c.Param("commodity"))
	if commodity == "" {
		Error(c, http.StatusBadRequest, "commodity is required", nil)
		return
	}
	minDate, maxDate, err := h.Repo.ReportDateRange(c.Request.Context(), commodity)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if minDate.IsZero() {
		Error(c, http.StatusNotFound, "unknown commodity", nil)
		return
	}
	// Explicit window params narrow the positioning range.
	if raw := c.Query("start"); raw != "" {
		if t, perr := time.Parse("2006-01-02", raw); perr == nil && t.After(minDate) {
			minDate = t
		}
	}
	if raw := c.Query("end"); raw != "" {
		if t, perr := time.Parse("2006-01-02", raw); perr == nil && t.Before(maxDate) {
			maxDate = t
		}
	}
	panel, err := h.Panels.Panel(c.Request.Context(), commodity, minDate, maxDate)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("price panel failed",
				zap.String("commodity", commodity),
				zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, panel, nil)
}

func (h *PricesHandler) listMappings(c *gin.Context) {
	if h.Mappings == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	verifiedOnly := c.Query("verified") == "true"
	items, err := h.Mappings.List(c.Request.Context(), verifiedOnly)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"total": len(items)})
}

func (h *PricesHandler) getMapping(c *gin.Context) {
	if h.Mappings == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	commodity := strings.TrimSpace(c.Param("commodity"))
	item, err := h.Mappings.Get(c.Request.Context(), commodity)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "mapping not found", nil)
		return
	}
	Ok(c, item, nil)
}

type saveMappingRequest struct {
	TickerSymbol string  `json:"ticker_symbol"`
	TickerType   string  `json:"ticker_type"`
	Verified     bool    `json:"verified"`
	Notes        *string `json:"notes"`
}

func (h *PricesHandler) saveMapping(c *gin.Context) {
	if h.Mappings == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	commodity := strings.TrimSpace(c.Param("commodity"))
	var req saveMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	m := &models.PriceMapping{
		CommodityName: commodity,
		TickerSymbol:  strings.TrimSpace(req.TickerSymbol),
		TickerType:    req.TickerType,
		Verified:      req.Verified,
		Notes:         req.Notes,
	}
	if err := h.Mappings.Save(c.Request.Context(), m); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, m, nil)
}

func (h *PricesHandler) deleteMapping(c *gin.Context) {
	if h.Mappings == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	commodity := strings.TrimSpace(c.Param("commodity"))
	if err := h.Mappings.Delete(c.Request.Context(), commodity); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": commodity}, nil)
}

func (h *PricesHandler) autoMap(c *gin.Context) {
	if h.Mappings == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	preferFutures := c.DefaultQuery("prefer", "futures") != "etf"
	results, err := h.Mappings.AutoMap(c.Request.Context(), preferFutures)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("auto map failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, results, map[string]any{"total": len(results)})
}
