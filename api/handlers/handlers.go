package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/wajahatariq/twhspecfastapi/internal/data"
	"github.com/wajahatariq/twhspecfastapi/internal/live"
	"github.com/wajahatariq/twhspecfastapi/utils"
)

type Cake map[string]interface{}

type Handlers struct {
	Config   utils.Config
	Validate validator.Validate
	Utils    utils.Utilities
	Data     data.Models
	Hub      *live.Hub
}

var (
	ErrUserUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "user unauthorized")
)

func (h *Handlers) HomeFunc(c echo.Context) error {
	msg := Cake{
		"message": "Welcome to Client Management System API",
		"status":  "available",
		"system_info": Cake{
			"environment": h.Config.Env,
			"port":        h.Config.Port,
		},
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *Handlers) HealthFunc(c echo.Context) error {
	return c.JSON(http.StatusOK, Cake{
		"status":  "ok",
		"message": "Client Management System API is running",
	})
}
