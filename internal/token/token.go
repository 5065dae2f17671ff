// Package token issues and verifies the signed access tokens that back every
// protected request. Tokens are stateless HS256 JWTs carrying the account
// email and an expiry; validity is determined entirely by the signature and
// the clock, there is no server-side session record.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures, in detection priority order. Callers facing HTTP
// clients must collapse all three into a single unauthorized response; the
// distinction exists for logging only.
var (
	ErrMalformed = errors.New("token malformed")
	ErrSignature = errors.New("token signature invalid")
	ErrExpired   = errors.New("token expired")
)

// claims is the wire claim set: the account email plus registered exp/iat.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs access tokens with an injected secret. The secret is fixed at
// construction; there is no ambient lookup and no rotation.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer returns an Issuer signing with secret. Tokens live for ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for email expiring at now+ttl and returns the compact
// serialization together with the expiry time.
func (i *Issuer) Issue(email string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verifier checks token signatures and expiry against an injected secret.
type Verifier struct {
	secret []byte
}

// NewVerifier returns a Verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses raw, checks the HMAC signature and expiry, and returns the
// embedded email claim. Only HMAC-family tokens are accepted: a structurally
// valid token signed with a different algorithm (including "none") fails
// with ErrSignature, never with a key-confusion acceptance.
func (v *Verifier) Verify(raw string) (string, error) {
	var cl claims
	t, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignature
		}
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return "", ErrSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		default:
			return "", ErrSignature
		}
	}
	if !t.Valid {
		return "", ErrSignature
	}
	return cl.Email, nil
}
