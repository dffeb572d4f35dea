package auth

import (
	"errors"
	"fmt"
	"time"

	"eventhub/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// JWT issues and verifies HS256 identity tokens carrying subject id and role.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWT returns a JWT signer/verifier with the given secret. Tokens expire ttl after issuance.
func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (j *JWT) WithClock(now func() time.Time) *JWT {
	j.now = now
	return j
}

// Issue implements domain.TokenIssuer.
func (j *JWT) Issue(subjectID, role string) (string, error) {
	now := j.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify implements domain.TokenVerifier. Every failure is reported as domain.ErrInvalidToken.
func (j *JWT) Verify(token string) (*domain.Claims, error) {
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	// jwt treats now == exp as still valid; the token must be dead at its expiry instant.
	if !j.now().Before(claims.ExpiresAt.Time) {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Claims{SubjectID: claims.Subject, Role: claims.Role}, nil
}
