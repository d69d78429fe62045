package bigmelo

import (
	"context"
	"net/http"

	"github.com/bigmelo-com/bigmelo-dashboard/internal/domain"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/ports"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/verify"
)

const (
	pathGetToken      = "/v1/auth/get-token"
	pathProfile       = "/v1/profile"
	pathOrganisations = "/v1/organization"
	pathDailyTotals   = "/v1/admin-dashboard/daily-totals"
)

var _ ports.API = (*Client)(nil)

// GetToken exchanges credentials for an access token. A 401 or 403 from the
// backend resolves to domain.ErrInvalidCredentials so callers can surface one
// generic message without revealing which part was wrong.
func (c *Client) GetToken(ctx context.Context, email, password string) (string, error) {
	resp, err := c.Post(ctx, pathGetToken, map[string]any{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden {
		return "", domain.ErrInvalidCredentials
	}
	if err := verify.Validate(IsSuccess(resp), "We're having trouble logging you in. Please try again."); err != nil {
		return "", err
	}
	out, err := verify.Value[loginResponse](resp.Data, loginResponseSchema(), "There was an error logging you in. Please try again.")
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) Profile(ctx context.Context, accessToken string) (domain.Profile, error) {
	resp, err := c.Get(ctx, pathProfile, WithBearer(accessToken))
	if err != nil {
		return domain.Profile{}, err
	}
	if err := verify.Validate(IsSuccess(resp), "We're having trouble loading your profile. Please try again."); err != nil {
		return domain.Profile{}, err
	}
	out, err := verify.Value[profileResponse](resp.Data, profileResponseSchema(), "There was an error loading your profile. Please try again.")
	if err != nil {
		return domain.Profile{}, err
	}
	return out.Data, nil
}

func (c *Client) UpdateProfile(ctx context.Context, accessToken string, fields map[string]any) (domain.Profile, error) {
	resp, err := c.Patch(ctx, pathProfile, fields, WithBearer(accessToken))
	if err != nil {
		return domain.Profile{}, err
	}
	if err := verify.Validate(IsSuccess(resp), "We couldn't update your profile. Please try again."); err != nil {
		return domain.Profile{}, err
	}
	out, err := verify.Value[profileResponse](resp.Data, profileResponseSchema(), "We couldn't update your profile. Please try again.")
	if err != nil {
		return domain.Profile{}, err
	}
	return out.Data, nil
}

// Organisations returns the organisations the token's user belongs to, in the
// order the API returned them. Callers rely on that order for the
// first-organisation fallback.
func (c *Client) Organisations(ctx context.Context, accessToken string) ([]domain.Organisation, error) {
	resp, err := c.Get(ctx, pathOrganisations, WithBearer(accessToken))
	if err != nil {
		return nil, err
	}
	out, err := verify.Value[organisationsResponse](resp.Data, organisationsResponseSchema())
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) CreateOrganisation(ctx context.Context, accessToken, name, description string) (domain.Organisation, error) {
	resp, err := c.Post(ctx, pathOrganisations, map[string]any{
		"name":        name,
		"description": description,
	}, WithBearer(accessToken))
	if err != nil {
		return domain.Organisation{}, err
	}
	if err := verify.Validate(IsSuccess(resp), "We couldn't create the organisation. Please try again."); err != nil {
		return domain.Organisation{}, err
	}
	out, err := verify.Value[organisationResponse](resp.Data, organisationResponseSchema())
	if err != nil {
		return domain.Organisation{}, err
	}
	return out.Data, nil
}

func (c *Client) DailyTotals(ctx context.Context, accessToken string) (domain.DailyTotals, error) {
	resp, err := c.Get(ctx, pathDailyTotals, WithBearer(accessToken))
	if err != nil {
		return domain.DailyTotals{}, err
	}
	out, err := verify.Value[dailyTotalsResponse](resp.Data, dailyTotalsResponseSchema())
	if err != nil {
		return domain.DailyTotals{}, err
	}
	return out.Data, nil
}
