package http

import (
	"net/http"

	"market-intel/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupMarketData(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.GET("/prices/:symbol", h.GetPriceHistory)
		v1.GET("/news/:symbol", h.GetNews)
	}
}

func (h *HttpAPIHandler) GetPriceHistory(c echo.Context) error {
	req := new(dto.SymbolHistoryRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	points, err := h.service.MarketDataService.PriceHistory(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load price history"})
	}
	return c.JSON(http.StatusOK, dto.NewBaseResponse(http.StatusOK, "OK", points))
}

func (h *HttpAPIHandler) GetNews(c echo.Context) error {
	req := new(dto.SymbolHistoryRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	articles, err := h.service.MarketDataService.News(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load news"})
	}
	return c.JSON(http.StatusOK, dto.NewBaseResponse(http.StatusOK, "OK", articles))
}
