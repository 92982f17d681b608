package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hospital-directory/internal/models"
)

// TokenIssuer is the iss claim of every access token this service signs
const TokenIssuer = "hospital-directory"

var (
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
)

// InitJWT sets the access-token signing key and the key refresh tokens are
// hashed with before they are stored. Rotating refreshSec invalidates every
// stored refresh token.
func InitJWT(accessSec, refreshSec string, accessExp, refreshExp time.Duration) {
	accessSecret = []byte(accessSec)
	refreshSecret = []byte(refreshSec)
	accessExpiry = accessExp
	refreshExpiry = refreshExp
}

// Claims are the access-token claims. Subject mirrors UserID.
type Claims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token grants directory writes
func (c *Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// GenerateAccessToken signs a short-lived HS256 access token
func GenerateAccessToken(userID uint, role models.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(accessSecret)
}

// GenerateRefreshToken returns an opaque random refresh token
func GenerateRefreshToken() (string, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return token.String(), nil
}

// ValidateAccessToken verifies signature, issuer and expiry, and rejects
// tokens whose role is not one the directory knows
func ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return accessSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.Role.Valid() {
		return nil, errors.New("invalid role claim")
	}
	return claims, nil
}

// HashRefreshToken returns the hex HMAC-SHA256 of token under the refresh secret
func HashRefreshToken(token string) string {
	mac := hmac.New(sha256.New, refreshSecret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// GetRefreshTokenExpiry returns the refresh token lifetime
func GetRefreshTokenExpiry() time.Duration {
	return refreshExpiry
}
