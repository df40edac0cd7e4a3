package http

import (
	"net/http"

	"market-intel/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupRecommendations(base *echo.Group) {
	v1 := base.Group("/v1/recommendations")
	{
		v1.GET("", h.GetRecentRecommendations)
	}
}

func (h *HttpAPIHandler) GetRecentRecommendations(c echo.Context) error {
	recs, err := h.service.MarketDataService.RecentRecommendations(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load recommendations"})
	}
	return c.JSON(http.StatusOK, dto.NewBaseResponse(http.StatusOK, "OK", recs))
}
