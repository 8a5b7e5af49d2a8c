package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketlens/internal/services/analysis"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// AnalysisService is the slice of the analysis layer the API depends on.
type AnalysisService interface {
	GetMarketData(ctx context.Context, symbol string) (*analysis.MarketData, error)
	Analyze(ctx context.Context, symbol string, style analysis.Style) (*analysis.Bundle, error)
}

// Handler serves the market data and analysis endpoints.
type Handler struct {
	service AnalysisService
	log     *logger.Logger
}

// NewHandler creates the REST handler.
func NewHandler(service AnalysisService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// errorResponse is the wire shape for failures.
type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// analysisResponse is the wire shape for a completed analysis.
type analysisResponse struct {
	Symbol        string              `json:"symbol"`
	Style         analysis.Style      `json:"style"`
	Analysis      string              `json:"analysis"`
	Sections      []analysis.Section  `json:"sections"`
	Quote         interface{}         `json:"quote"`
	TechnicalData analysis.Indicators `json:"technicalData"`
}

// GetMarketData handles GET /api/market-data/:symbol.
func (h *Handler) GetMarketData(c *gin.Context) {
	data, err := h.service.GetMarketData(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetAnalysis handles GET /api/analysis/:symbol?style=.
func (h *Handler) GetAnalysis(c *gin.Context) {
	style, err := analysis.ParseStyle(c.Query("style"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	bundle, err := h.service.Analyze(c.Request.Context(), c.Param("symbol"), style)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysisResponse{
		Symbol:        bundle.Instrument.DisplaySymbol(),
		Style:         style,
		Analysis:      bundle.Analysis,
		Sections:      bundle.Sections,
		Quote:         bundle.Quote,
		TechnicalData: bundle.Indicators,
	})
}

// respondError maps domain errors onto HTTP status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrSymbolNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrRateLimitExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, errors.ErrDataUnavailable), errors.Is(err, errors.ErrExternal),
		errors.Is(err, errors.ErrGenerationFailed):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.log.Errorw("request failed", "path", c.FullPath(), "error", err)
	} else {
		h.log.Warnw("request rejected", "path", c.FullPath(), "status", status, "error", err)
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: true, Message: err.Error()})
}
