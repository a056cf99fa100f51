package transport

import (
	"github.com/labstack/echo/v4"
	"github.com/vanaways/paylink/controllers"
	"github.com/vanaways/paylink/lib/service"
)

func RegisterEndpoints(svc *service.PaylinkService, e *echo.Echo, strictRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	e.GET("/healthz", controllers.NewHealthController(svc).Health)

	// Session creation is the abuse surface, so it gets the strict limit.
	// The webhook route is excluded: the gateway retries on 429 and would
	// just delay reconciliation.
	e.POST("/api/checkout", controllers.NewCheckoutController(svc).CreateCheckout, strictRateLimitMiddleware, logMw)
	e.POST("/api/webhook", controllers.NewWebhookController(svc).Webhook, logMw)
	e.POST("/api/verify-payment", controllers.NewVerifyController(svc).VerifyPayment, logMw)
	e.GET("/api/cashflows/:hash", controllers.NewCashflowController(svc).GetCashflow, logMw)
}
