package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/orgstack/orghub/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer(testSecret, "HS256", 30*time.Minute)
	require.NoError(t, err)
	return issuer
}

func TestIssue_VerifyRoundtrip(t *testing.T) {
	issuer := newIssuer(t)

	token, err := issuer.Issue("a@x.com", "Tesla")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "expected compact JWS form")

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, "Tesla", claims.Organization)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerify_ZeroTTLExpires(t *testing.T) {
	issuer := newIssuer(t)

	token, err := issuer.IssueWithTTL("a@x.com", "Tesla", 0)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerify_TamperedSignature(t *testing.T) {
	issuer := newIssuer(t)

	token, err := issuer.Issue("a@x.com", "Tesla")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = issuer.Verify(tampered)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := newIssuer(t)
	other, err := auth.NewTokenIssuer("a-different-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	token, err := other.Issue("a@x.com", "Tesla")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_RejectsOtherHMACMethod(t *testing.T) {
	issuer := newIssuer(t)
	hs384, err := auth.NewTokenIssuer(testSecret, "HS384", 30*time.Minute)
	require.NoError(t, err)

	// Same secret, different HMAC method: the HS256 issuer must not
	// accept it.
	token, err := hs384.Issue("a@x.com", "Tesla")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	issuer := newIssuer(t)

	_, err := issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewTokenIssuer_RejectsNonHMAC(t *testing.T) {
	_, err := auth.NewTokenIssuer(testSecret, "RS256", 30*time.Minute)
	assert.Error(t, err)

	_, err = auth.NewTokenIssuer(testSecret, "none", 30*time.Minute)
	assert.Error(t, err)
}

func TestIssue_AllHMACAlgorithms(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			issuer, err := auth.NewTokenIssuer(testSecret, alg, time.Minute)
			require.NoError(t, err)

			token, err := issuer.Issue("a@x.com", "Tesla")
			require.NoError(t, err)

			claims, err := issuer.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, "Tesla", claims.Organization)
		})
	}
}
