package middleware

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
)

// ServerTiming reports how long the server spent on the request so browser
// devtools can break the waterfall down. The header has to land before the
// first body byte, so it is attached in the response's Before hook.
func ServerTiming() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			c.Response().Before(func() {
				dur := float64(time.Since(started).Microseconds()) / 1000
				c.Response().Header().Add("Server-Timing", fmt.Sprintf("app;dur=%.1f", dur))
			})
			return next(c)
		}
	}
}
