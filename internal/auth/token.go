package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenTTL is the session token lifetime. Cookie max-age mirrors it.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is the only verification failure callers ever see. The
// underlying cause (bad signature, expiry, missing subject, ...) is logged
// server-side and never surfaced, so a response cannot reveal why a token
// was rejected.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload signed into a session token.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens.
type TokenService struct {
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

// NewTokenService builds a service around an explicit secret; the secret is
// resolved once by config at startup, never looked up ambiently.
func NewTokenService(secret string, logger *zap.Logger) *TokenService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenService{secret: []byte(secret), logger: logger, now: time.Now}
}

// Issue signs a session token for the given identity. Timestamps are always
// computed here: iat = now, exp = iat + TokenTTL, nbf = iat, regardless of
// what the caller put in the claim set.
func (ts *TokenService) Issue(claims Claims) (string, error) {
	issuedAt := ts.now()
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(TokenTTL))
	claims.NotBefore = jwt.NewNumericDate(issuedAt)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses and validates a session token. It succeeds only when the
// signature checks out against the configured secret, the subject claim is
// non-empty, and now is within [nbf, exp).
func (ts *TokenService) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return ts.secret, nil
	}, jwt.WithTimeFunc(ts.now))
	if err != nil {
		ts.logger.Debug("token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		ts.logger.Debug("token rejected", zap.String("reason", "invalid claims"))
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		ts.logger.Debug("token rejected", zap.String("reason", "missing subject"))
		return nil, ErrInvalidToken
	}
	return claims, nil
}
