package data

import (
	"time"

	"github.com/pascaldekloe/jwt"
)

const accessTokenTTL = 60 * time.Minute

// GenerateAccessToken signs a short-lived HS256 token whose subject is the
// user id. Verification happens in the Authenticate middleware.
func GenerateAccessToken(userID string, secret []byte, issuer string) ([]byte, error) {
	var claims jwt.Claims
	claims.Subject = userID
	claims.Issuer = issuer
	now := time.Now()
	claims.Issued = jwt.NewNumericTime(now)
	claims.Expires = jwt.NewNumericTime(now.Add(accessTokenTTL))

	return claims.HMACSign(jwt.HS256, secret)
}
