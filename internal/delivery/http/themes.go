package http

import (
	"net/http"

	"market-intel/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupThemes(base *echo.Group) {
	v1 := base.Group("/v1/themes")
	{
		v1.GET("", h.GetRecentThemes)
	}
}

func (h *HttpAPIHandler) GetRecentThemes(c echo.Context) error {
	themes, err := h.service.MarketDataService.RecentThemes(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load themes"})
	}
	return c.JSON(http.StatusOK, dto.NewBaseResponse(http.StatusOK, "OK", themes))
}
