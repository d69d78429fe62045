package ports

import (
	"context"

	"github.com/bigmelo-com/bigmelo-dashboard/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	// Upsert creates the local mirror of a remote user on first login and
	// refreshes it afterwards. The password hash is stored alongside, never
	// verified locally.
	Upsert(ctx context.Context, user domain.User, passwordHash string) (domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	// FindWithUser resolves an unexpired session together with its user.
	// Returns domain.ErrSessionNotFound when no unexpired record matches and
	// domain.ErrSessionOrphaned when the record exists but the user is gone.
	FindWithUser(ctx context.Context, sessionID string) (domain.Session, domain.User, error)
	Delete(ctx context.Context, sessionID string) error
}

// API is the typed surface of the remote Bigmelo backend consumed by the
// application services.
type API interface {
	GetToken(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context, accessToken string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, accessToken string, fields map[string]any) (domain.Profile, error)
	Organisations(ctx context.Context, accessToken string) ([]domain.Organisation, error)
	CreateOrganisation(ctx context.Context, accessToken, name, description string) (domain.Organisation, error)
	DailyTotals(ctx context.Context, accessToken string) (domain.DailyTotals, error)
}
