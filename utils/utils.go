package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type Utilities interface {
	ReadStringParam(c echo.Context, str string) (string, error)
	ReadJSON(c echo.Context, dst interface{}) error
	ReadStringQuery(qs url.Values, key string, defaultValue string) string
	ReadIntQuery(qs url.Values, key string, defaultValue int) int

	InternalServerError(c echo.Context, err error)
	BadRequest(c echo.Context, err error)
	NotFoundResponse(c echo.Context)
	UserUnAuthorizedResponse(c echo.Context, err error)
	RateLimitExceededResponse(c echo.Context)
	CustomErrorResponse(c echo.Context, message Cake, status int, err error)
	ValidationError(c echo.Context, err error)
}

type utilsImpl struct {
}

func NewUtils() Utilities {
	return &utilsImpl{}
}

func (u *utilsImpl) ReadStringParam(c echo.Context, str string) (string, error) {
	param := c.Param(str)
	if param == "" {
		return "", errors.New("invalid parameter")
	}
	return param, nil
}

func (u *utilsImpl) ReadJSON(c echo.Context, dst interface{}) error {
	maxBytes := 1_048_576
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, int64(maxBytes))

	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func (u *utilsImpl) ReadStringQuery(qs url.Values, key string, defaultValue string) string {

	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}

	return s
}

func (u *utilsImpl) ReadIntQuery(qs url.Values, key string, defaultValue int) int {

	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}

	res, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return res
}
