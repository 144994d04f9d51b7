package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokenService(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", time.Hour, WithIssuer("attorney-portfolio"), WithClock(clock.Now))
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	require.Error(t, err)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(t, clock)

	token, err := svc.Issue("user-1", domain.RoleAttorney)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleAttorney, claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.IssuedAt.Equal(clock.t))
	assert.True(t, claims.ExpiresAt.Equal(clock.t.Add(time.Hour)))
}

func TestTokenService_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(t, clock)

	token, err := svc.Issue("user-1", domain.RoleClient)
	require.NoError(t, err)

	clock.Advance(time.Hour - time.Second)
	_, err = svc.Verify(token)
	require.NoError(t, err, "token must be valid just before expiry")

	clock.Advance(time.Second)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, domain.ErrInvalidToken, "token must be rejected at expiry")

	clock.Advance(time.Hour)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_TamperedTokenRejected(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	token, err := svc.Issue("user-1", domain.RoleClient)
	require.NoError(t, err)

	for i := range len(token) {
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		_, err := svc.Verify(string(b))
		require.ErrorIs(t, err, domain.ErrInvalidToken, "altered byte at %d accepted", i)
	}
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	other, err := NewTokenService("other-secret", time.Hour, WithIssuer("attorney-portfolio"), WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.Issue("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	wrongIssuer, err := NewTokenService("test-secret", time.Hour, WithIssuer("someone-else"), WithClock(clock.Now))
	require.NoError(t, err)
	misissued, err := wrongIssuer.Issue("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "user-1",
		"role": "admin",
		"iss":  "attorney-portfolio",
		"exp":  clock.t.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":  "user-1",
		"role": "admin",
		"iss":  "attorney-portfolio",
		"exp":  clock.t.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": "admin",
		"iss":  "attorney-portfolio",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": "root",
		"iss":  "attorney-portfolio",
		"exp":  clock.t.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"other secret": foreign,
		"wrong issuer": misissued,
		"alg none":     unsigned,
		"hs512":        hs512,
		"missing exp":  noExpiry,
		"unknown role": badRole,
		"garbage":      "not-a-token",
		"empty":        "",
		"two segments": "a.b",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(tok)
			require.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestTokenService_TokensMintedTogetherDiffer(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	a, err := svc.Issue("user-1", domain.RoleClient)
	require.NoError(t, err)
	b, err := svc.Issue("user-1", domain.RoleClient)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokenService_IssueRejectsBadInput(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})

	_, err := svc.Issue("", domain.RoleClient)
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.Issue("user-1", domain.Role("root"))
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}
