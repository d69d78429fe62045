// Package cookies holds the browser-facing cookie codecs that are not part of
// the authenticated session itself.
package cookies

import (
	"net/http"
	"strconv"
)

const (
	organisationCookie       = "current_organisation"
	organisationCookieMaxAge = 31536000 // one year
)

// CurrentOrganisationID reads the current organisation selection from the
// request. Absent, empty, or non-numeric values resolve to nil.
func CurrentOrganisationID(r *http.Request) *int {
	c, err := r.Cookie(organisationCookie)
	if err != nil {
		return nil
	}
	id, err := strconv.Atoi(c.Value)
	if err != nil || id == 0 {
		return nil
	}
	return &id
}

// SetCurrentOrganisationID serializes the selection so it sticks for a year.
// A nil id produces the clearing directive (empty value, negative max-age).
func SetCurrentOrganisationID(id *int) *http.Cookie {
	if id != nil && *id != 0 {
		return &http.Cookie{
			Name:   organisationCookie,
			Value:  strconv.Itoa(*id),
			Path:   "/",
			MaxAge: organisationCookieMaxAge,
		}
	}
	return &http.Cookie{
		Name:   organisationCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}
}
