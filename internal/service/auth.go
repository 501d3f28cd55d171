package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/store"
	"github.com/aulasoft/institution/pkg/cryptox"
	"github.com/aulasoft/institution/pkg/slogx"
)

// AuthService orchestrates credential verification and account creation on
// top of TokenService. Login failures are deliberately indistinguishable:
// unknown email, deactivated account and wrong password all surface as
// ErrInvalidCredentials.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService
}

// Login verifies the email/password pair and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	email = strings.TrimSpace(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash comparison anyway so the miss costs the same
			// as a wrong password.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if !user.IsActive {
		l.Info("login attempt on inactive account", slog.Int64("user_id", user.ID))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed", slog.Int64("user_id", user.ID))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("login succeeded",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)
	return user, pair, nil
}

// Register creates an account and immediately issues tokens for it.
func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string, role domain.Role) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	now := time.Now().UTC()
	user, err := s.Store.Users().CreateUser(ctx, domain.User{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.TokenPair{}, ErrEmailTaken
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	pair, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("account registered",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)
	return user, pair, nil
}

// EnsureAdmin seeds the initial admin account if no user holds that email
// yet. Called once at startup so a fresh deployment is never locked out.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	l := slogx.FromContext(ctx)

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.Store.Users().CreateUser(ctx, domain.User{
		FirstName:    "System",
		LastName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil // raced another instance, fine
		}
		return err
	}

	l.Info("seeded initial admin account", slog.String("email", email))
	return nil
}

// dummyHash is a throwaway argon2id hash used to equalize timing when the
// email does not resolve to an account.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
