package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"resilience/internal/models"
)

type CustomClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Authentication struct {
	secret string
	ttl    time.Duration
}

func NewAuthentication(secret string) (*Authentication, error) {
	if secret == "" {
		return nil, errors.New("empty JWT secret")
	}
	return &Authentication{secret, 24 * time.Hour}, nil
}

func (authentication *Authentication) CreateToken(profile *models.Profile) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		Email:    profile.Email,
		Username: profile.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(authentication.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authentication.secret))
}

func (authentication *Authentication) Validate(token string) (*models.ProfileFromAuth, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(authentication.secret), nil
	}

	jwtToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(*CustomClaims)
	if !ok || !jwtToken.Valid {
		return nil, errors.New("invalid token claims")
	}

	return &models.ProfileFromAuth{
		ID:       claims.Subject,
		Email:    claims.Email,
		Username: claims.Username,
	}, nil
}
