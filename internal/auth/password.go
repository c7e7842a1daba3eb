// Package auth implements the credential codec, the signed identity token
// service and the request guard that ties both to the user store.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on login when the username/password
// pair does not verify.  Handlers should translate this into an HTTP 401
// response.
var ErrInvalidCredentials = errors.New("username or password is incorrect")

// HashPassword returns a salted bcrypt hash of plain using the given cost.
// Hashing the same input twice yields different strings because the salt
// is random; VerifyPassword is the only way to compare.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the bcrypt hash.  A
// well-formed hash that simply does not match returns false rather than an
// error; only a malformed hash makes the comparison fail, which is also
// reported as false.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
