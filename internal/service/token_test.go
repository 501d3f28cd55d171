package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/store"
	"github.com/aulasoft/institution/pkg/cryptox"
	"github.com/aulasoft/institution/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testIssuer   = "institution-api"
	testAudience = "institution-client"
)

func newTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, testIssuer, []string{testAudience})
	require.NoError(t, err)

	return &TokenService{
		Signer:     signer,
		Verifier:   verifier,
		Store:      st,
		Issuer:     testIssuer,
		Audience:   []string{testAudience},
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func seedUser(t *testing.T, st store.Store, email string, role domain.Role) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword("Passw0rd!")
	require.NoError(t, err)

	now := time.Now().UTC()
	user, err := st.Users().CreateUser(context.Background(), domain.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return user
}

func TestIssueAndValidate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := seedUser(t, st, "ada@educational.com", domain.RoleProfessor)

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.WithinDuration(t, time.Now().Add(time.Hour), pair.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, domain.UserSubject(user.ID), claims.Subject)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, "Ada", claims.GivenName)
	require.Equal(t, "Lovelace", claims.FamilyName)
	require.Equal(t, "Professor", claims.Role)
	require.NotEmpty(t, claims.ID)
}

func TestIssueMintsUniqueTokenIDs(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := seedUser(t, st, "ada@educational.com", domain.RoleAdmin)

	first, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	second, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	c1, err := svc.Validate(ctx, first.AccessToken)
	require.NoError(t, err)
	c2, err := svc.Validate(ctx, second.AccessToken)
	require.NoError(t, err)

	require.NotEqual(t, c1.ID, c2.ID)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestRevokeInvalidatesAccessAndRefresh(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := seedUser(t, st, "ada@educational.com", domain.RoleStudent)

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, pair.AccessToken))

	_, err = svc.Validate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Revoking again still succeeds: logout is idempotent.
	require.NoError(t, svc.Revoke(ctx, pair.AccessToken))

	// The user's refresh tokens went with it.
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRevokeLeavesOtherUsersAlone(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	alice := seedUser(t, st, "alice@educational.com", domain.RoleStudent)
	bob := seedUser(t, st, "bob@educational.com", domain.RoleStudent)

	alicePair, err := svc.Issue(ctx, alice)
	require.NoError(t, err)
	bobPair, err := svc.Issue(ctx, bob)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, alicePair.AccessToken))

	_, err = svc.Validate(ctx, bobPair.AccessToken)
	require.NoError(t, err)
	_, _, err = svc.Refresh(ctx, bobPair.RefreshToken)
	require.NoError(t, err)
}

func TestRevokeToleratesDeadTokens(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)

	// Garbage, expired and foreign-signed tokens all acknowledge as a
	// no-op instead of reporting what went wrong.
	require.NoError(t, svc.Revoke(ctx, "not-a-jwt"))

	expiredClaims := jwtx.NewAccessClaims("1", "ada@educational.com", "Ada", "Lovelace", "Admin",
		-time.Minute, testIssuer, []string{testAudience}, time.Now())
	expired, err := svc.Signer.Sign(expiredClaims)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, expired))

	other, err := jwtx.NewSignerHS256("ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	forgedClaims := jwtx.NewAccessClaims("1", "ada@educational.com", "Ada", "Lovelace", "Admin",
		time.Hour, testIssuer, []string{testAudience}, time.Now())
	forged, err := other.Sign(forgedClaims)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, forged))
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := seedUser(t, st, "ada@educational.com", domain.RoleCoordinator)

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	next, refreshedUser, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, refreshedUser.ID)
	require.NotEmpty(t, next.AccessToken)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The consumed token is dead.
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// The replacement works.
	_, _, err = svc.Refresh(ctx, next.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)

	_, _, err := svc.Refresh(ctx, "")
	require.ErrorIs(t, err, ErrInvalidRefresh)

	_, _, err = svc.Refresh(ctx, "never-issued-token")
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefreshRejectsRevokedRecord(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := seedUser(t, st, "ada@educational.com", domain.RoleStudent)

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	// Revoked out-of-band, as logout does.
	require.NoError(t, st.RefreshTokens().RevokeUserRefreshTokens(ctx, user.ID))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestValidateRejectsExpired(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)

	claims := jwtx.NewAccessClaims("1", "ada@educational.com", "Ada", "Lovelace", "Admin",
		-time.Minute, testIssuer, []string{testAudience}, time.Now())
	expired, err := svc.Signer.Sign(claims)
	require.NoError(t, err)

	_, err = svc.Validate(ctx, expired)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)

	other, err := jwtx.NewSignerHS256("ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	claims := jwtx.NewAccessClaims("1", "ada@educational.com", "Ada", "Lovelace", "Admin",
		time.Hour, testIssuer, []string{testAudience}, time.Now())
	forged, err := other.Sign(claims)
	require.NoError(t, err)

	_, err = svc.Validate(ctx, forged)
	require.ErrorIs(t, err, ErrInvalidToken)
}

// failingRevocations simulates a registry outage: every lookup errors.
type failingRevocations struct{}

func (failingRevocations) RevokeToken(context.Context, string, time.Time) error {
	return errors.New("registry down")
}

func (failingRevocations) IsTokenRevoked(context.Context, string) (bool, error) {
	return false, errors.New("registry down")
}

func (failingRevocations) DeleteExpiredRevokedTokens(context.Context) error {
	return errors.New("registry down")
}

type revocationOutageStore struct {
	store.Store
}

func (revocationOutageStore) RevokedTokens() store.RevokedTokens {
	return failingRevocations{}
}

func TestValidateFailsClosedOnRegistryError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := seedUser(t, st, "ada@educational.com", domain.RoleAdmin)

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	// Same token, but validated against a store whose registry errors.
	broken := newTokenService(t, revocationOutageStore{Store: st})
	_, err = broken.Validate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}
