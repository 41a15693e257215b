package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Stanislas-Motte/COT-Tool/internal/service"
)

type ChartHandler struct {
	Charts *service.ChartService
	Logger *zap.Logger
}

func (h *ChartHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1")
	group.POST("/chart", h.composeChart)
	group.POST("/formula/check", h.checkFormula)
}

func (h *ChartHandler) composeChart(c *gin.Context) {
	if h.Charts == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req service.ChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Commodity) == "" {
		Error(c, http.StatusBadRequest, "commodity is required", nil)
		return
	}
	result, err := h.Charts.Compose(c.Request.Context(), req)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("chart compose failed",
				zap.String("commodity", req.Commodity),
				zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

type formulaCheckRequest struct {
	Commodity string `json:"commodity"`
	Formula   string `json:"formula"`
}

func (h *ChartHandler) checkFormula(c *gin.Context) {
	if h.Charts == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req formulaCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Commodity) == "" {
		Error(c, http.StatusBadRequest, "commodity is required", nil)
		return
	}
	status, err := h.Charts.CheckFormula(c.Request.Context(), req.Commodity, req.Formula)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("formula check failed",
				zap.String("commodity", req.Commodity),
				zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, status, nil)
}
