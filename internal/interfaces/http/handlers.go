package http

import (
	"errors"
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bigmelo-com/bigmelo-dashboard/internal/adapters/http/cookies"
	mw "github.com/bigmelo-com/bigmelo-dashboard/internal/adapters/http/middleware"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/application"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/domain"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/infrastructure/auth"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/verify"
)

func handleError(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case verify.IsUserFacing(err):
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(stdhttp.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		return c.JSON(stdhttp.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// safeRedirect only follows same-site targets. Anything else, including
// protocol-relative URLs, falls back to the dashboard.
func safeRedirect(target string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return target
	}
	return "/dashboard"
}

type AuthHandler struct {
	sessions *application.SessionService
	cookies  *auth.SessionCookie
}

func NewAuthHandler(sessions *application.SessionService, cookies *auth.SessionCookie) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookies: cookies}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email      string `json:"email" form:"email"`
		Password   string `json:"password" form:"password"`
		RedirectTo string `json:"redirectTo" form:"redirectTo"`
		Remember   bool   `json:"remember" form:"remember"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	session, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid email or password"})
	}
	if err != nil {
		return handleError(c, err)
	}
	cookie, err := h.cookies.Issue(session.ID, session.ExpirationDate, req.Remember)
	if err != nil {
		return handleError(c, err)
	}
	c.SetCookie(cookie)
	return c.Redirect(stdhttp.StatusFound, safeRedirect(req.RedirectTo))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if sessionID, err := h.cookies.Read(c.Request()); err == nil && sessionID != "" {
		h.sessions.Logout(c.Request().Context(), sessionID)
	}
	c.SetCookie(h.cookies.Clear())
	target := c.QueryParam("redirectTo")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		target = "/"
	}
	return c.Redirect(stdhttp.StatusFound, target)
}

type DashboardHandler struct {
	organisations *application.OrganisationService
	dashboard     *application.DashboardService
}

func NewDashboardHandler(organisations *application.OrganisationService, dashboard *application.DashboardService) *DashboardHandler {
	return &DashboardHandler{organisations: organisations, dashboard: dashboard}
}

// Index resolves which organisation the dashboard opens on: the cookie's
// pick when still valid, else the first organisation, else the creation flow.
func (h *DashboardHandler) Index(c echo.Context) error {
	data := mw.SessionData(c)
	cookieID := cookies.CurrentOrganisationID(c.Request())
	current, _, err := h.organisations.Resolve(c.Request().Context(), data.AccessToken, cookieID)
	if err != nil {
		return handleError(c, err)
	}
	if current == nil {
		return c.Redirect(stdhttp.StatusFound, "/dashboard/create-organisation")
	}
	c.SetCookie(cookies.SetCurrentOrganisationID(&current.ID))
	return c.Redirect(stdhttp.StatusFound, "/dashboard/"+strconv.Itoa(current.ID))
}

func (h *DashboardHandler) Show(c echo.Context) error {
	data := mw.SessionData(c)
	id, err := strconv.Atoi(c.Param("organisation_id"))
	if err != nil {
		return c.JSON(stdhttp.StatusNotFound, map[string]string{"error": "organisation not found"})
	}
	org, err := h.organisations.Find(c.Request().Context(), data.AccessToken, id)
	if err != nil {
		return handleError(c, err)
	}
	if org == nil {
		// Stale cookie selections must not keep pointing at this id.
		c.SetCookie(cookies.SetCurrentOrganisationID(nil))
		return c.JSON(stdhttp.StatusNotFound, map[string]string{"error": "organisation not found"})
	}
	totals, err := h.dashboard.DailyTotals(c.Request().Context(), data.AccessToken)
	if err != nil {
		return handleError(c, err)
	}
	c.SetCookie(cookies.SetCurrentOrganisationID(&org.ID))
	return c.JSON(stdhttp.StatusOK, map[string]any{
		"organisation": org,
		"dailyTotals":  totals,
	})
}

type OrganisationsHandler struct {
	organisations *application.OrganisationService
}

func NewOrganisationsHandler(organisations *application.OrganisationService) *OrganisationsHandler {
	return &OrganisationsHandler{organisations: organisations}
}

func (h *OrganisationsHandler) List(c echo.Context) error {
	data := mw.SessionData(c)
	orgs, err := h.organisations.List(c.Request().Context(), data.AccessToken)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, orgs)
}

func (h *OrganisationsHandler) Create(c echo.Context) error {
	var req struct {
		Name        string `json:"name" form:"name"`
		Description string `json:"description" form:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	data := mw.SessionData(c)
	org, err := h.organisations.Create(c.Request().Context(), data.AccessToken, req.Name, req.Description)
	if err != nil {
		return handleError(c, err)
	}
	c.SetCookie(cookies.SetCurrentOrganisationID(&org.ID))
	return c.Redirect(stdhttp.StatusFound, "/dashboard/"+strconv.Itoa(org.ID))
}

type ProfileHandler struct {
	profiles *application.ProfileService
}

func NewProfileHandler(profiles *application.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Me(c echo.Context) error {
	account, err := h.profiles.Get(c.Request().Context(), mw.SessionData(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, account)
}

func (h *ProfileHandler) Update(c echo.Context) error {
	fields := map[string]any{}
	if err := c.Bind(&fields); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	profile, err := h.profiles.Update(c.Request().Context(), mw.SessionData(c), fields)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, profile)
}
