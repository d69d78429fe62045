package http

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Auth          *AuthHandler
	Dashboard     *DashboardHandler
	Organisations *OrganisationsHandler
	Profile       *ProfileHandler
}

type Middleware struct {
	XRay             echo.MiddlewareFunc
	RequestLogger    echo.MiddlewareFunc
	ServerTiming     echo.MiddlewareFunc
	RequireSession   echo.MiddlewareFunc
	RequireAnonymous echo.MiddlewareFunc
}

func NewRouter(h Handlers, m Middleware) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	if m.XRay != nil {
		e.Use(m.XRay)
	}
	if m.RequestLogger != nil {
		e.Use(m.RequestLogger)
	}
	if m.ServerTiming != nil {
		e.Use(m.ServerTiming)
	}

	e.POST("/login", h.Auth.Login, m.RequireAnonymous)
	e.GET("/logout", h.Auth.Logout)

	authed := e.Group("", m.RequireSession)
	authed.GET("/dashboard", h.Dashboard.Index)
	authed.GET("/dashboard/:organisation_id", h.Dashboard.Show)
	authed.GET("/resources/organisations", h.Organisations.List)
	authed.POST("/organisations", h.Organisations.Create)
	authed.GET("/me", h.Profile.Me)
	authed.PATCH("/dashboard/settings/profile", h.Profile.Update)

	return e
}
