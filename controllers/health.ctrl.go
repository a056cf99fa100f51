package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vanaways/paylink/lib/service"
)

// HealthController : Health check controller struct
type HealthController struct {
	svc *service.PaylinkService
}

func NewHealthController(svc *service.PaylinkService) *HealthController {
	return &HealthController{svc: svc}
}

// Health godoc
// @Summary      Health check
// @Description  Reports service and database health
// @Produce      json
// @Tags         Health
// @Success      200
// @Failure      500
// @Router       /healthz [get]
func (controller *HealthController) Health(c echo.Context) error {
	if controller.svc.DB != nil {
		if err := controller.svc.DB.PingContext(c.Request().Context()); err != nil {
			c.Logger().Errorf("Health check database ping failed: %v", err)
			return c.NoContent(http.StatusInternalServerError)
		}
	}
	return c.NoContent(http.StatusOK)
}
