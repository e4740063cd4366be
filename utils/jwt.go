package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// InstructorClaims are the claims of a service-issued instructor token.
type InstructorClaims struct {
	Email string `json:"email,omitempty"`
	jwt.StandardClaims
}

// GenerateToken signs an HS256 token for the instructor ID subject. It is used by
// tooling and tests; production tokens normally come from Firebase.
func GenerateToken(secret []byte, subject, email string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := InstructorClaims{
		Email: email,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// HashToken keys the auth cache without storing raw tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses an HMAC-signed token and checks its expiry.
func ValidateToken(secret []byte, tokenString string) (*InstructorClaims, error) {
	claims := &InstructorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ExtractIDFromToken returns the subject of a valid token.
func ExtractIDFromToken(secret []byte, tokenString string) (string, error) {
	claims, err := ValidateToken(secret, tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return claims.Subject, nil
}
