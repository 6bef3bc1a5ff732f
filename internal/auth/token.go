package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/user-directory/internal/domain"
)

// Token verification failure kinds. ErrTokenExpired is routine and means
// the client must re-authenticate; the other two indicate corruption or
// forgery. Callers distinguish them with errors.Is.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims is the token payload: the principal profile flattened alongside
// the registered expiry and issued-at fields.
type Claims struct {
	domain.UserProfile
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256-signed identity tokens. The
// signing key is fixed at construction and shared by Generate and Parse;
// tokens are bearer credentials with no server-side revocation, so expiry
// is the only thing that stops a stale token.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithTimeFunc overrides the clock used for expiry computation and
// validation. Intended for tests.
func WithTimeFunc(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a manager around the process-wide signing key.
func NewTokenManager(secret string, opts ...TokenOption) *TokenManager {
	tm := &TokenManager{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Generate signs a token embedding the profile, expiring ttlSeconds from
// now. A negative ttl yields an already-expired token; that is not a
// guarded input.
func (tm *TokenManager) Generate(profile domain.UserProfile, ttlSeconds int64) (string, error) {
	now := tm.now()
	claims := &Claims{
		UserProfile: profile,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlSeconds) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Parse verifies the signature and expiry and returns the embedded
// profile. Failures are rejected whole; there is no partial success.
func (tm *TokenManager) Parse(tokenStr string) (*domain.UserProfile, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	return &claims.UserProfile, nil
}
