package http

import (
	"net/http"

	"market-intel/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPipeline(base *echo.Group) {
	v1 := base.Group("/v1/pipeline")
	{
		v1.POST("/run", h.RunPipeline)
	}
}

func (h *HttpAPIHandler) RunPipeline(c echo.Context) error {
	summary, err := h.service.PipelineService.Run(c.Request().Context())
	if err != nil {
		response := dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), summary)
		return c.JSON(response.Code, response)
	}
	response := dto.NewBaseResponse(http.StatusOK, "Pipeline run complete", summary)
	return c.JSON(response.Code, response)
}
