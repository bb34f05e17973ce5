package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wajahatariq/twhspecfastapi/internal/data"
	"github.com/wajahatariq/twhspecfastapi/utils"
)

type signupRequest struct {
	UserID   string `json:"user_id" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
}

type loginRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) tokenResponse(c echo.Context, userID string) error {
	token, err := data.GenerateAccessToken(userID, []byte(h.Config.JWT.Secret), h.Config.JWT.Issuer)
	if err != nil {
		h.Utils.InternalServerError(c, err)
		return err
	}

	return c.JSON(http.StatusOK, Cake{
		"access_token": string(token),
		"token_type":   "bearer",
	})
}

func (h *Handlers) SignupHandler(c echo.Context) error {
	var input signupRequest
	if err := h.Utils.ReadJSON(c, &input); err != nil {
		h.Utils.BadRequest(c, err)
		return err
	}
	if err := h.Validate.Struct(input); err != nil {
		h.Utils.ValidationError(c, err)
		return err
	}

	exists, err := h.Data.Users.Exists(input.UserID)
	if err != nil {
		h.Utils.InternalServerError(c, err)
		return err
	}
	if exists {
		err := fmt.Errorf("user ID already exists")
		h.Utils.CustomErrorResponse(c, utils.Cake{"detail": "User ID already exists"}, http.StatusBadRequest, err)
		return err
	}

	if err := h.Data.Users.Add(input.UserID, input.Password); err != nil {
		h.Utils.InternalServerError(c, err)
		return err
	}

	return h.tokenResponse(c, input.UserID)
}

func (h *Handlers) LoginHandler(c echo.Context) error {
	var input loginRequest
	if err := h.Utils.ReadJSON(c, &input); err != nil {
		h.Utils.BadRequest(c, err)
		return err
	}
	if err := h.Validate.Struct(input); err != nil {
		h.Utils.ValidationError(c, err)
		return err
	}

	ok, err := h.Data.Users.ValidateLogin(input.UserID, input.Password)
	if err != nil {
		h.Utils.InternalServerError(c, err)
		return err
	}
	if !ok {
		err := fmt.Errorf("invalid ID or password")
		h.Utils.CustomErrorResponse(c, utils.Cake{"detail": "Invalid ID or password"}, http.StatusUnauthorized, err)
		return err
	}

	return h.tokenResponse(c, input.UserID)
}
