package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/store"
	"github.com/aulasoft/institution/pkg/cryptox"
	"github.com/aulasoft/institution/pkg/idx"
	"github.com/aulasoft/institution/pkg/jwtx"
	"github.com/aulasoft/institution/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrEmailTaken         = errors.New("email_already_registered")
)

// TokenService issues, validates, refreshes and revokes tokens. Validation
// consults the revocation registry on every call, so a revoked jti is
// rejected by any instance sharing the store.
type TokenService struct {
	Signer     *jwtx.HS256Signer
	Verifier   *jwtx.HS256Verifier
	Store      store.Store
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issue signs a fresh access token for the user and persists a new refresh
// token record. Only the refresh token's fingerprint touches the database.
func (s *TokenService) Issue(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	now := time.Now()

	claims := jwtx.NewAccessClaims(
		domain.UserSubject(user.ID),
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role.String(),
		s.accessTTL(),
		s.Issuer,
		s.Audience,
		now,
	)

	accessToken, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return domain.TokenPair{}, err
	}

	record := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.refreshTTL()),
		Revoked:   false,
		CreatedAt: now.UTC(),
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, record); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// Validate checks signature, issuer, audience and lifetime, then consults
// the revocation registry. A registry lookup failure rejects the token:
// when revocation state is unknown the token is treated as revoked.
func (s *TokenService) Validate(ctx context.Context, tokenStr string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(tokenStr)
	if err != nil {
		return jwtx.Claims{}, ErrInvalidToken
	}

	if claims.ID == "" {
		return jwtx.Claims{}, ErrInvalidToken
	}

	revoked, err := s.Store.RevokedTokens().IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		slogx.FromContext(ctx).Error("revocation lookup failed, rejecting token",
			slog.Any("error", err),
		)
		return jwtx.Claims{}, ErrInvalidToken
	}
	if revoked {
		return jwtx.Claims{}, ErrInvalidToken
	}

	return claims, nil
}

// Revoke invalidates the presented access token by jti and, with it, every
// live refresh token belonging to its subject. This is the logout path and
// it is idempotent: an expired, malformed or already-revoked token is a
// no-op success, so callers learn nothing about token state from it.
func (s *TokenService) Revoke(ctx context.Context, tokenStr string) error {
	claims, err := s.Verifier.Verify(tokenStr)
	if err != nil || claims.ID == "" {
		return nil
	}

	userID, err := domain.ParseUserSubject(claims.Subject)
	if err != nil {
		return nil
	}

	expiresAt := time.Now().Add(s.accessTTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RevokedTokens().RevokeToken(ctx, claims.ID, expiresAt); err != nil {
			return err
		}
		return tx.RefreshTokens().RevokeUserRefreshTokens(ctx, userID)
	})
}

// Refresh exchanges a live refresh token for a new token pair. The
// presented token is consumed inside the transaction, so each refresh
// token works exactly once.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (domain.TokenPair, domain.User, error) {
	if refreshOpaque == "" {
		return domain.TokenPair{}, domain.User{}, ErrInvalidRefresh
	}

	now := time.Now()
	hash := cryptox.FingerprintToken(refreshOpaque)

	var (
		pair domain.TokenPair
		user domain.User
	)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		record, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		if record.Revoked || now.After(record.ExpiresAt) {
			return ErrInvalidRefresh
		}

		user, err = tx.Users().GetUserByID(ctx, record.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if !user.IsActive {
			return ErrInvalidRefresh
		}

		// One-time use: consume the presented token before minting.
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, hash); err != nil {
			return err
		}

		claims := jwtx.NewAccessClaims(
			domain.UserSubject(user.ID),
			user.Email,
			user.FirstName,
			user.LastName,
			user.Role.String(),
			s.accessTTL(),
			s.Issuer,
			s.Audience,
			now,
		)
		accessToken, err := s.Signer.Sign(claims)
		if err != nil {
			return err
		}

		nextOpaque, err := cryptox.GenerateToken(cryptox.TokenSize512)
		if err != nil {
			return err
		}

		next := domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    user.ID,
			TokenHash: cryptox.FingerprintToken(nextOpaque),
			ExpiresAt: now.Add(s.refreshTTL()),
			Revoked:   false,
			CreatedAt: now.UTC(),
		}
		if err := tx.RefreshTokens().CreateRefreshToken(ctx, next); err != nil {
			return err
		}

		pair = domain.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: nextOpaque,
			ExpiresAt:    claims.ExpiresAt.Time,
		}
		return nil
	})
	if err != nil {
		return domain.TokenPair{}, domain.User{}, err
	}

	return pair, user, nil
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}
