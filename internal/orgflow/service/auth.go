package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store"
	"github.com/aussiebroadwan/orgflow/pkg/cryptox"
	"github.com/aussiebroadwan/orgflow/pkg/idx"
	"github.com/aussiebroadwan/orgflow/pkg/jwtx"
	"github.com/aussiebroadwan/orgflow/pkg/slogx"
)

type AuthService struct {
	Store  store.Store
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration

	// AllowAdminSignup lets anyone sign up as admin. Otherwise only the first
	// user may.
	AllowAdminSignup bool
}

type SignupRequest struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        domain.User
}

// Signup registers a new user. An empty role means member.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (domain.User, error) {
	log := slogx.FromContext(ctx)

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Role == "" {
		req.Role = domain.RoleMember
	}

	switch {
	case req.Username == "":
		return domain.User{}, invalid("username", "is required")
	case req.Email == "":
		return domain.User{}, invalid("email", "is required")
	case req.Password == "":
		return domain.User{}, invalid("password", "is required")
	case !domain.ValidRole(req.Role):
		return domain.User{}, invalid("role", "must be admin or member")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return domain.User{}, invalid("email", "is not an email address")
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return domain.User{}, invalid("password", "is too long")
		}
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if u.Role == domain.RoleAdmin && !s.AllowAdminSignup {
			empty, err := tx.Users().IsEmpty(ctx)
			if err != nil {
				return err
			}
			if !empty {
				log.Warn("rejected admin self-signup", slog.String("email", u.Email))
				return ErrAdminSignupClosed
			}
		}

		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			log.Error("failed to create user", slog.Any("error", err))
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user signed up",
		slog.String("user_id", u.ID),
		slog.String("role", u.Role),
	)
	return u, nil
}

// Login checks the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		log.Warn("failed login", slog.String("user_id", u.ID))
		return Session{}, ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	claims := jwtx.NewAccessClaims(u.ID, u.Username, u.Role, s.Issuer, ttl, time.Now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return Session{}, err
	}

	return Session{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        u,
	}, nil
}

// GetUserByID fetches a user by id.
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}
