package auth

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the payload asserted by a signed token: the user's id and
// username, nothing else.
type Identity struct {
	ID       uint64
	Username string
}

// ErrInvalidToken is returned for tokens whose signature does not verify or
// whose expiry has passed.  Handlers should translate this into an HTTP 401
// response.
var ErrInvalidToken = errors.New("invalid token")

// ErrMalformedToken is returned for strings that are not structurally a JWT
// at all.  Handlers should translate this into an HTTP 401 response.
var ErrMalformedToken = errors.New("malformed token")

// NewToken builds and signs an RS256 JWT asserting the given identity.  The
// token carries id, username, exp and iat claims and expires after ttl.
// Signing and verification keys must be the two halves of the same RSA pair.
func NewToken(key *rsa.PrivateKey, id uint64, username string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

// ParseToken verifies the signature and expiry of a token and returns the
// identity it asserts.  Structural failures map to ErrMalformedToken, every
// other verification failure to ErrInvalidToken.
func ParseToken(key *rsa.PublicKey, token string) (Identity, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return Identity{}, ErrMalformedToken
		}
		return Identity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}

	var ident Identity
	// Numeric JSON claims decode as float64.
	if v, ok := claims["id"].(float64); ok {
		ident.ID = uint64(v)
	}
	if v, ok := claims["username"].(string); ok {
		ident.Username = v
	}
	if ident.Username == "" {
		return Identity{}, ErrMalformedToken
	}
	return ident, nil
}
