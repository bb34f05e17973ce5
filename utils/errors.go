package utils

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type Cake map[string]interface{}

func (u *utilsImpl) logError(_ echo.Context, err error) {
	log.Error(err)
}

func (u *utilsImpl) resposeError(c echo.Context, status int, message interface{}) {
	err := c.JSON(status, Cake{"error": message})
	if err != nil {
		u.logError(c, err)
		c.Response().WriteHeader(http.StatusInternalServerError)
	}
}

func (u *utilsImpl) InternalServerError(c echo.Context, err error) {
	u.logError(c, err)
	message := "server encountered an error and could not process your request"
	u.resposeError(c, http.StatusInternalServerError, message)
}

func (u *utilsImpl) BadRequest(c echo.Context, err error) {
	u.logError(c, err)
	message := "you have given a bad or invalid request, please try again"
	u.resposeError(c, http.StatusBadRequest, message)
}

func (u *utilsImpl) NotFoundResponse(c echo.Context) {
	message := "the request is not found"
	u.resposeError(c, http.StatusNotFound, message)
}

func (u *utilsImpl) UserUnAuthorizedResponse(c echo.Context, err error) {
	message := "You are not authorized to access this"
	log.Error(err)
	u.resposeError(c, http.StatusUnauthorized, message)
}

func (u *utilsImpl) RateLimitExceededResponse(c echo.Context) {
	message := "Rate limit exceeded"
	u.resposeError(c, http.StatusTooManyRequests, message)
}

func (u *utilsImpl) CustomErrorResponse(c echo.Context, message Cake, status int, err error) {
	u.logError(c, err)
	u.resposeError(c, status, message)
}

func (u *utilsImpl) ValidationError(c echo.Context, err error) {
	validationError := make(map[string]interface{})
	validErrs := err.(validator.ValidationErrors)
	for _, e := range validErrs {
		var errMsg string

		switch e.Tag() {
		case "required":
			errMsg = "is required"
		case "email":
			errMsg = fmt.Sprint(e.Field(), " must be a type of email")
		case "min":
			errMsg = "value is shorter than the allowed minimum"
		case "gte":
			errMsg = "value must be greater than 0"
		case "lte":
			errMsg = "value must be lesser than the given value"
		case "oneof":
			errMsg = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())

		default:
			errMsg = fmt.Sprintf("Validation error on %s: %s", e.Field(), e.Tag())
		}

		validationError[e.Field()] = errMsg
	}
	u.resposeError(c, http.StatusUnprocessableEntity, validationError)
}
