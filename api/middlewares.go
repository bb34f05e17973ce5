package api

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pascaldekloe/jwt"
	"github.com/tomasen/realip"
	"github.com/wajahatariq/twhspecfastapi/api/handlers"
	"golang.org/x/time/rate"
)

func IPRateLimit(h *handlers.Handlers) echo.MiddlewareFunc {

	type client struct {
		limiter  *rate.Limiter
		lastseen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	// background routine to remove old entries from the map
	go func() {
		for {
			time.Sleep(time.Minute)

			mu.Lock()

			for ip, client := range clients {
				if time.Since(client.lastseen) > 3*time.Minute {
					delete(clients, ip)
				}
			}

			mu.Unlock()
		}
	}()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {

			if h.Config.RateLimiter.Enabled {
				ip := realip.FromRequest(c.Request())

				mu.Lock()

				_, found := clients[ip]
				if !found {
					clients[ip] = &client{limiter: rate.NewLimiter(rate.Limit(h.Config.RateLimiter.Rps), h.Config.RateLimiter.Burst)}
				}

				clients[ip].lastseen = time.Now()

				if !clients[ip].limiter.Allow() {
					mu.Unlock()
					h.Utils.RateLimitExceededResponse(c)
					return errors.New("rate limit exceeded")
				}

				mu.Unlock()
			}

			return next(c)
		}
	}
}

func Authenticate(h handlers.Handlers) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {

			c.Response().Writer.Header().Add("Vary", "Authorization")

			authorizationHeader := c.Request().Header.Get("Authorization")
			if authorizationHeader == "" {
				err := fmt.Errorf("authorization header not found")
				h.Utils.UserUnAuthorizedResponse(c, err)
				return handlers.ErrUserUnauthorized
			}

			headerParts := strings.Split(authorizationHeader, " ")
			if len(headerParts) != 2 || headerParts[0] != "Bearer" {
				err := fmt.Errorf("invalid authorization header")
				h.Utils.UserUnAuthorizedResponse(c, err)
				return handlers.ErrUserUnauthorized
			}

			token := headerParts[1]

			claims, err := jwt.HMACCheck([]byte(token), []byte(h.Config.JWT.Secret))
			if err != nil {
				h.Utils.UserUnAuthorizedResponse(c, err)
				return handlers.ErrUserUnauthorized
			}

			if !claims.Valid(time.Now()) {
				err := fmt.Errorf("token expired")
				h.Utils.UserUnAuthorizedResponse(c, err)
				return handlers.ErrUserUnauthorized
			}

			if h.Config.JWT.Issuer != "" && claims.Issuer != h.Config.JWT.Issuer {
				err := fmt.Errorf("invalid token issuer")
				h.Utils.UserUnAuthorizedResponse(c, err)
				return handlers.ErrUserUnauthorized
			}

			c.Set("user_id", claims.Subject)

			return next(c)
		}
	}
}
