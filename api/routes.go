package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/wajahatariq/twhspecfastapi/api/handlers"
)

func SetupRoutes(h *handlers.Handlers) *echo.Echo {
	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowCredentials: true,
	}))
	e.Use(IPRateLimit(h))
	e.Use(middleware.RemoveTrailingSlash())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		c.Logger().Error(err)
		e.DefaultHTTPErrorHandler(err, c)
	}

	e.HideBanner = true

	e.GET("/", h.HomeFunc)
	e.GET("/api/health", h.HealthFunc)

	e.POST("/auth/signup", h.SignupHandler)
	e.POST("/auth/login", h.LoginHandler)

	e.GET("/transactions/pending", h.ListPendingHandler, Authenticate(*h))
	e.GET("/transactions/recent", h.ListRecentHandler, Authenticate(*h))
	e.GET("/transactions/all", h.ListAllHandler, Authenticate(*h))
	e.GET("/transactions/night_total", h.NightTotalHandler, Authenticate(*h))
	e.POST("/transactions/agent/submit", h.AgentSubmitHandler, Authenticate(*h))
	e.GET("/transactions/:sheet/:record_id", h.GetTransactionHandler, Authenticate(*h))
	e.PATCH("/transactions/:sheet/:record_id/status", h.UpdateStatusHandler, Authenticate(*h))
	e.PATCH("/transactions/agent/:sheet/:record_id", h.AgentUpdateHandler, Authenticate(*h))

	// Live dashboard feed; viewers that connect late catch up via
	// /transactions/pending.
	e.GET("/ws/manager", h.ManagerSocketHandler)

	return e
}
