package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, at time.Time) *TokenService {
	t.Helper()
	ts := NewTokenService("test-secret", nil)
	ts.now = func() time.Time { return at }
	return ts
}

func TestTokenService_RoundTrip(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := newTestTokenService(t, t0)

	token, err := ts.Issue(Claims{
		Name:  "Test User",
		Email: "user@example.com",
		Role:  "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user-1",
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestTokenService_TimestampInvariants(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := newTestTokenService(t, t0)

	token, err := ts.Issue(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	require.NoError(t, err)

	claims, err := ts.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, t0.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, t0.Unix(), claims.NotBefore.Unix())
	assert.Equal(t, t0.Unix()+604800, claims.ExpiresAt.Unix())
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := newTestTokenService(t, t0)

	token, err := ts.Issue(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"at issuance", t0, true},
		{"one second before expiry", t0.Add(604799 * time.Second), true},
		{"at expiry", t0.Add(604800 * time.Second), false},
		{"after expiry", t0.Add(700000 * time.Second), false},
		{"before not-before", t0.Add(-1 * time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.now = func() time.Time { return tt.at }
			_, err := ts.Verify(token)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidToken)
			}
		})
	}
}

func TestTokenService_TamperSensitivity(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := newTestTokenService(t, t0)

	token, err := ts.Issue(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	require.NoError(t, err)

	// The final character is excluded: its low bits are base64 padding and
	// flipping only those does not change the decoded signature.
	for i := 0; i < len(token)-1; i++ {
		if token[i] == '.' {
			continue
		}
		tampered := []byte(token)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		_, err := ts.Verify(string(tampered))
		assert.ErrorIs(t, err, ErrInvalidToken, "byte %d", i)
	}

	_, err = ts.Verify(token[:len(token)-1])
	assert.ErrorIs(t, err, ErrInvalidToken, "truncated token")

	_, err = ts.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken, "extended token")
}

func TestTokenService_MissingSubject(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := newTestTokenService(t, t0)

	// Correctly signed, but no sub claim.
	token, err := ts.Issue(Claims{Name: "No Subject"})
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := newTestTokenService(t, t0)
	other := NewTokenService("another-secret", nil)
	other.now = ts.now

	token, err := other.Issue(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsWrongAlgorithm(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := newTestTokenService(t, t0)

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(t0),
		ExpiresAt: jwt.NewNumericDate(t0.Add(TokenTTL)),
		NotBefore: jwt.NewNumericDate(t0),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_MalformedToken(t *testing.T) {
	ts := NewTokenService("test-secret", nil)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := ts.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
