package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims carry a JTI so a stored token can be matched after rotation.
type RefreshClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}
