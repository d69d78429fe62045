package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bigmelo-com/bigmelo-dashboard/internal/domain"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/ports"
)

// SessionService resolves browser sessions and drives the login/logout
// flows against the remote token exchange and the local session store.
type SessionService struct {
	api      ports.API
	users    ports.UserRepository
	sessions ports.SessionRepository
	logger   ports.Logger
}

func NewSessionService(api ports.API, users ports.UserRepository, sessions ports.SessionRepository, logger ports.Logger) *SessionService {
	return &SessionService{api: api, users: users, sessions: sessions, logger: logger}
}

// Resolve maps a session id to the identity and bearer credential it stands
// for. An unknown or expired id resolves to anonymous (nil, nil). A session
// whose user no longer exists is corrupt: the record is destroyed and
// domain.ErrSessionOrphaned returned so the caller can clear the cookie.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (*domain.SessionData, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, user, err := s.sessions.FindWithUser(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil
	}
	if errors.Is(err, domain.ErrSessionOrphaned) {
		if derr := s.sessions.Delete(ctx, sessionID); derr != nil {
			s.logger.Warn(ctx, "failed to destroy orphaned session", "session_id", sessionID, "error", derr)
		}
		return nil, domain.ErrSessionOrphaned
	}
	if err != nil {
		return nil, err
	}
	return &domain.SessionData{UserID: user.ID, AccessToken: session.AccessToken}, nil
}

// Login exchanges credentials for an access token, mirrors the user locally
// and creates a session with a fixed 30-day horizon. Rejected credentials
// surface as domain.ErrInvalidCredentials and create nothing.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	if email == "" || password == "" {
		return domain.Session{}, domain.ErrInvalidInput
	}

	accessToken, err := s.api.GetToken(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Session{}, err
	}
	user, err := s.users.Upsert(ctx, domain.User{
		ID:    uuid.NewString(),
		Email: strings.ToLower(email),
	}, string(hash))
	if err != nil {
		return domain.Session{}, err
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		AccessToken:    accessToken,
		ExpirationDate: now.Add(domain.SessionExpiration),
		CreatedAt:      now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Logout destroys the session record best-effort. The cookie is cleared by
// the caller regardless, and a record left behind expires on its own.
func (s *SessionService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Debug(ctx, "session delete failed", "session_id", sessionID, "error", err)
	}
}

// OrganisationService decides which organisation a request operates under.
type OrganisationService struct {
	api ports.API
}

func NewOrganisationService(api ports.API) *OrganisationService {
	return &OrganisationService{api: api}
}

func (s *OrganisationService) List(ctx context.Context, accessToken string) ([]domain.Organisation, error) {
	return s.api.Organisations(ctx, accessToken)
}

// Resolve picks the current organisation: the cookie's choice when the user
// still belongs to it, else the first organisation in the API's order. A user
// with no organisations resolves to nil, which callers route to the creation
// flow. The API does not document its order as stable, so the fallback is
// only as deterministic as the backend.
func (s *OrganisationService) Resolve(ctx context.Context, accessToken string, cookieID *int) (*domain.Organisation, []domain.Organisation, error) {
	orgs, err := s.api.Organisations(ctx, accessToken)
	if err != nil {
		return nil, nil, err
	}
	if len(orgs) == 0 {
		return nil, orgs, nil
	}
	if cookieID != nil {
		for i := range orgs {
			if orgs[i].ID == *cookieID {
				return &orgs[i], orgs, nil
			}
		}
	}
	return &orgs[0], orgs, nil
}

// Find returns the organisation with the given id only if the user belongs
// to it. No fallback: callers use the miss to 404.
func (s *OrganisationService) Find(ctx context.Context, accessToken string, id int) (*domain.Organisation, error) {
	orgs, err := s.api.Organisations(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	for i := range orgs {
		if orgs[i].ID == id {
			return &orgs[i], nil
		}
	}
	return nil, nil
}

func (s *OrganisationService) Create(ctx context.Context, accessToken, name, description string) (domain.Organisation, error) {
	if name == "" {
		return domain.Organisation{}, domain.ErrInvalidInput
	}
	return s.api.CreateOrganisation(ctx, accessToken, name, description)
}

// Account is the local user record merged with the remote profile.
type Account struct {
	ID      string `json:"id"`
	ImageID string `json:"imageId,omitempty"`
	domain.Profile
}

type ProfileService struct {
	api   ports.API
	users ports.UserRepository
}

func NewProfileService(api ports.API, users ports.UserRepository) *ProfileService {
	return &ProfileService{api: api, users: users}
}

func (s *ProfileService) Get(ctx context.Context, data domain.SessionData) (Account, error) {
	user, err := s.users.FindByID(ctx, data.UserID)
	if err != nil {
		return Account{}, err
	}
	profile, err := s.api.Profile(ctx, data.AccessToken)
	if err != nil {
		return Account{}, err
	}
	return Account{ID: user.ID, ImageID: user.ImageID, Profile: profile}, nil
}

func (s *ProfileService) Update(ctx context.Context, data domain.SessionData, fields map[string]any) (domain.Profile, error) {
	if len(fields) == 0 {
		return domain.Profile{}, domain.ErrInvalidInput
	}
	return s.api.UpdateProfile(ctx, data.AccessToken, fields)
}

type DashboardService struct {
	api ports.API
}

func NewDashboardService(api ports.API) *DashboardService {
	return &DashboardService{api: api}
}

func (s *DashboardService) DailyTotals(ctx context.Context, accessToken string) (domain.DailyTotals, error) {
	return s.api.DailyTotals(ctx, accessToken)
}
