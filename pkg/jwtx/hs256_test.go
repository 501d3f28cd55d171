package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestPair(t *testing.T, issuer string, aud []string) (*HS256Signer, *HS256Verifier) {
	t.Helper()

	signer, err := NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := NewVerifierHS256(testSecret, issuer, aud)
	require.NoError(t, err)
	return signer, verifier
}

func testClaims(ttl time.Duration) Claims {
	return NewAccessClaims(
		"42",
		"admin@educational.com",
		"System", "Administrator",
		"Admin",
		ttl,
		"institution-api",
		[]string{"institution-client"},
		time.Now().UTC(),
	)
}

func TestHS256RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewSignerHS256("short")
	require.Error(t, err)

	_, err = NewVerifierHS256("short", "", nil)
	require.Error(t, err)
}

func TestHS256SignVerifyRoundtrip(t *testing.T) {
	t.Parallel()

	signer, verifier := newTestPair(t, "institution-api", []string{"institution-client"})

	claims := testClaims(time.Hour)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)

	require.Equal(t, "42", got.Subject)
	require.Equal(t, "admin@educational.com", got.Email)
	require.Equal(t, "System", got.GivenName)
	require.Equal(t, "Administrator", got.FamilyName)
	require.Equal(t, "Admin", got.Role)
	require.Equal(t, claims.ID, got.ID)
}

func TestHS256JTIUniquePerIssuance(t *testing.T) {
	t.Parallel()

	a := testClaims(time.Hour)
	b := testClaims(time.Hour)
	require.NotEqual(t, a.ID, b.ID)
}

func TestHS256RejectsTamperedToken(t *testing.T) {
	t.Parallel()

	signer, verifier := newTestPair(t, "", nil)

	token, err := signer.Sign(testClaims(time.Hour))
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = verifier.Verify(tampered)
	require.Error(t, err)
}

func TestHS256RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signer, _ := newTestPair(t, "", nil)
	other, err := NewVerifierHS256("ffffffffffffffffffffffffffffffff", "", nil)
	require.NoError(t, err)

	token, err := signer.Sign(testClaims(time.Hour))
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestHS256ClaimChecks(t *testing.T) {
	t.Parallel()

	t.Run("issuer mismatch", func(t *testing.T) {
		signer, verifier := newTestPair(t, "someone-else", nil)
		token, err := signer.Sign(testClaims(time.Hour))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		signer, verifier := newTestPair(t, "institution-api", []string{"other-client"})
		token, err := signer.Sign(testClaims(time.Hour))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrAudience)
	})

	t.Run("expired token with zero leeway", func(t *testing.T) {
		signer, verifier := newTestPair(t, "institution-api", []string{"institution-client"})
		token, err := signer.Sign(testClaims(-time.Second))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, verifier := newTestPair(t, "", nil)
		_, err := verifier.Verify("not.a.jwt")
		require.Error(t, err)
	})
}
