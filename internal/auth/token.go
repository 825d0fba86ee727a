package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSigner turns a session into the value stored in the session cookie.
// The token carries the session id (jti) and the user id (sub), signed with HS256.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) TokenSigner {
	return TokenSigner{secret: []byte(secret)}
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

func (s TokenSigner) Sign(sess Session) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   strconv.Itoa(sess.UserID),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies the signature and expiry and returns the session id and user id.
func (s TokenSigner) Parse(tokenStr string, now time.Time) (sessionID string, userID int, err error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil || !token.Valid {
		return "", 0, ErrNoSession
	}

	userID, err = strconv.Atoi(claims.Subject)
	if err != nil || claims.ID == "" {
		return "", 0, ErrNoSession
	}
	return claims.ID, userID, nil
}
