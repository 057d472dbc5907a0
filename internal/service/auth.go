package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/fleetease-rental/internal/identity"
	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/repository"
	"github.com/iliyamo/fleetease-rental/internal/utils"
)

// AuthService owns credentials and sessions: registration, password and
// external login, session resolution, logout and profile edits.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	hasher   utils.PasswordHasher
	ttl      time.Duration
	idp      IdentityProvider
	log      *slog.Logger
	now      func() time.Time
}

// AuthResult is returned by every operation that starts a session.
type AuthResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	NationalID *string
}

func NewAuthService(users UserStore, sessions SessionStore, hasher utils.PasswordHasher, ttl time.Duration, idp IdentityProvider, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		ttl:      ttl,
		idp:      idp,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source; used by tests.
func (s *AuthService) SetClock(now func() time.Time) { s.now = now }

// SessionTTL is the lifetime given to new sessions.
func (s *AuthService) SessionTTL() time.Duration { return s.ttl }

// Register creates a password user and opens a session. The email check
// runs before the phone check, so a request clashing on both reports the
// email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = repository.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	switch {
	case in.Name == "":
		return nil, invalid("name", "required")
	case in.Email == "":
		return nil, invalid("email", "required")
	case in.Phone == "":
		return nil, invalid("phone", "required")
	case in.Password == "":
		return nil, invalid("password", "required")
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByPhone(ctx, in.Phone); err == nil {
		return nil, ErrDuplicatePhone
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	phone := in.Phone
	u := &model.User{
		ID:           utils.NewID("user"),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        &phone,
		PasswordHash: hash,
		NationalID:   in.NationalID,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, mapUserWriteErr(err)
	}
	return s.openSession(ctx, u)
}

// Login verifies email and password. Unknown email, wrong password and
// password-less accounts all fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, repository.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.HasPassword() || !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, u)
}

// ExchangeExternal trades a provider session id for a local session,
// creating a password-less user on first sight of the email.
func (s *AuthService) ExchangeExternal(ctx context.Context, externalSessionID string) (*AuthResult, error) {
	externalSessionID = strings.TrimSpace(externalSessionID)
	if externalSessionID == "" {
		return nil, invalid("session_id", "required")
	}
	if s.idp == nil {
		return nil, ErrProviderUnavailable
	}
	p, err := s.idp.FetchSession(ctx, externalSessionID)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidSession) {
			return nil, ErrInvalidExternalSession
		}
		s.log.Error("identity provider call failed", "err", err)
		return nil, ErrProviderUnavailable
	}

	email := repository.NormalizeEmail(p.Email)
	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if p.ID != "" && (u.ExternalID == nil || *u.ExternalID != p.ID) {
			if err := s.users.LinkExternal(ctx, u.ID, p.ID, optional(p.Picture)); err != nil {
				return nil, err
			}
			if u, err = s.users.GetByID(ctx, u.ID); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, repository.ErrNotFound):
		u = &model.User{
			ID:         utils.NewID("user"),
			Name:       p.Name,
			Email:      email,
			Picture:    optional(p.Picture),
			ExternalID: optional(p.ID),
			CreatedAt:  s.now(),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, mapUserWriteErr(err)
		}
	default:
		return nil, err
	}
	return s.openSession(ctx, u)
}

// Resolve maps a raw session token to its user. Missing, expired or
// orphaned sessions yield ErrUnauthenticated; nothing is deleted here.
func (s *AuthService) Resolve(ctx context.Context, rawToken string) (*model.User, error) {
	if rawToken == "" {
		return nil, ErrUnauthenticated
	}
	sess, err := s.sessions.Get(ctx, utils.HashToken(rawToken))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !sess.Valid(s.now()) {
		return nil, ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	return u, err
}

// Logout destroys the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return s.sessions.Delete(ctx, utils.HashToken(rawToken))
}

// UpdateProfile applies a partial update and returns the fresh user. A
// phone that belongs to someone else is rejected.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.User, error) {
	if upd.Phone != nil {
		phone := strings.TrimSpace(*upd.Phone)
		if phone == "" {
			return nil, invalid("phone", "must not be empty")
		}
		upd.Phone = &phone
		other, err := s.users.GetByPhone(ctx, phone)
		if err == nil && other.ID != userID {
			return nil, ErrDuplicatePhone
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if !upd.Empty() {
		if err := s.users.UpdateProfile(ctx, userID, upd); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUnauthenticated
			}
			return nil, mapUserWriteErr(err)
		}
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	return u, err
}

// PurgeExpiredSessions deletes sessions that can no longer be used.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

func (s *AuthService) openSession(ctx context.Context, u *model.User) (*AuthResult, error) {
	raw, err := utils.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := s.now()
	exp := now.Add(s.ttl)
	if err := s.sessions.Create(ctx, model.Session{
		TokenHash: utils.HashToken(raw),
		UserID:    u.ID,
		ExpiresAt: exp,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: raw, ExpiresAt: exp}, nil
}

func mapUserWriteErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrDuplicateEmail
	case errors.Is(err, repository.ErrDuplicatePhone):
		return ErrDuplicatePhone
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
