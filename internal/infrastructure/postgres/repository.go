// Package postgres is the primary session and user store. Sessions join to
// users with a left join so a session whose user row is gone can be told
// apart from a session that never existed.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigmelo-com/bigmelo-dashboard/internal/domain"
)

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, email, name, image_id
		FROM users
		WHERE user_id = $1
	`, id)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.ImageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, email, name, image_id
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.ImageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// Upsert inserts the user on first login and refreshes the password hash on
// later ones. The email is the conflict key, so a returning user keeps the
// user_id from the first login.
func (r *UserRepository) Upsert(ctx context.Context, user domain.User, passwordHash string) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (user_id, email, name, image_id, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    updated_at = NOW()
		RETURNING user_id, email, name, image_id
	`, user.ID, user.Email, user.Name, user.ImageID, passwordHash)
	var out domain.User
	if err := row.Scan(&out.ID, &out.Email, &out.Name, &out.ImageID); err != nil {
		return domain.User{}, err
	}
	return out, nil
}

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (session_id, user_id, access_token, expiration_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, session.ID, session.UserID, session.AccessToken, session.ExpirationDate, session.CreatedAt)
	return err
}

func (r *SessionRepository) FindWithUser(ctx context.Context, sessionID string) (domain.Session, domain.User, error) {
	var session domain.Session
	var userID, email, name, imageID *string
	row := r.pool.QueryRow(ctx, `
		SELECT s.session_id, s.user_id, s.access_token, s.expiration_date, s.created_at,
		       u.user_id, u.email, u.name, u.image_id
		FROM sessions s
		LEFT JOIN users u ON u.user_id = s.user_id
		WHERE s.session_id = $1 AND s.expiration_date > NOW()
	`, sessionID)
	err := row.Scan(
		&session.ID, &session.UserID, &session.AccessToken, &session.ExpirationDate, &session.CreatedAt,
		&userID, &email, &name, &imageID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, domain.User{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}
	if userID == nil {
		return domain.Session{}, domain.User{}, domain.ErrSessionOrphaned
	}
	user := domain.User{ID: *userID, Email: *email}
	if name != nil {
		user.Name = *name
	}
	if imageID != nil {
		user.ImageID = *imageID
	}
	return session, user, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM sessions
		WHERE session_id = $1
	`, sessionID)
	return err
}
