package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the identity the session issuer vouches for.
type IdentityClaims struct {
	Role        string `json:"role"`
	HouseholdID string `json:"household_id"`
	jwt.RegisteredClaims
}

// Actor converts validated claims into the core's view of the caller.
func (c *IdentityClaims) Actor() (domain.Actor, error) {
	role := domain.Role(c.Role)
	if c.Subject == "" || c.HouseholdID == "" || !role.IsValid() {
		return domain.Actor{}, errors.New("token is missing identity claims")
	}
	return domain.Actor{MemberID: c.Subject, HouseholdID: c.HouseholdID, Role: role}, nil
}

// GenerateJWT generates a signed token for the given actor.
func GenerateJWT(actor domain.Actor, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		Role:        string(actor.Role),
		HouseholdID: actor.HouseholdID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.MemberID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string, validates its signature, standard claims and
// (when issuer is non-empty) its issuer.
func ParseAndValidateJWT(tokenString string, secretKey string, issuer string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
