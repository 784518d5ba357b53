package authn

import (
	"errors"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrInvalidClaims = errors.New("invalid claims")

// AdminGroup is the directory group whose members may administer it.
const AdminGroup = "lldap_admin"

// Claims are the claims of a token issued by the directory.
type Claims struct {
	jwt.StandardClaims
	User   string   `json:"user"`
	Groups []string `json:"groups"`
}

// IsAdmin reports whether the token holder belongs to the admin group.
func (c Claims) IsAdmin() bool {
	for _, g := range c.Groups {
		if g == AdminGroup {
			return true
		}
	}
	return false
}

// ParseClaims decodes the claims of token without verifying its signature.
// The directory verifies the token itself on every forwarded request.
func ParseClaims(token string) (Claims, error) {
	claims := Claims{}
	// Check if token is JWT by attempting to parse it
	if t, err := jwt.ParseWithClaims(token, &claims, nil); err != nil {
		// Ignore validation errors (no need to check signing of key)
		if _, ok := err.(*jwt.ValidationError); !ok {
			return claims, ErrInvalidJWT
		}

		// Check if token was decoded successfully
		if t == nil {
			return claims, ErrInvalidClaims
		}
	}
	return claims, nil
}
