package auth

import (
	"errors"
	"os"
	"slices"
	"sync"
	"time"

	"easypro-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

type settings struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

var (
	mu  sync.RWMutex
	cur = settings{
		secret:   []byte(getEnv("JWT_SECRET", "development-insecure-secret-change-me")),
		issuer:   getEnv("JWT_ISSUER", "easypro-api"),
		audience: getEnv("JWT_AUDIENCE", "easypro-clients"),
		ttl:      24 * time.Hour,
	}
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Configure replaces the signing settings, normally once at startup.
func Configure(cfg config.JWTConfig) {
	mu.Lock()
	defer mu.Unlock()
	cur = settings{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
	}
	if cur.ttl <= 0 {
		cur.ttl = 24 * time.Hour
	}
}

func current() settings {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken generates a JWT token for the given user
func GenerateToken(userID, role string) (string, error) {
	s := current()
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	s := current()
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}

		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Issuer != s.issuer {
		return nil, errors.New("invalid token issuer")
	}
	if !slices.Contains(claims.Audience, s.audience) {
		return nil, errors.New("invalid token audience")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user")
	}
	return claims, nil
}
