package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 24 * time.Hour

// ErrUnauthorized is returned when a game token is missing, invalid or
// issued for another game.
var ErrUnauthorized = errors.New("invalid game token")

// tokenIssuer signs tokens binding a client to one game.
type tokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func (ti *tokenIssuer) issue(gameID string) (string, error) {
	now := ti.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   gameID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	})

	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign game token: %w", err)
	}
	return signed, nil
}

func (ti *tokenIssuer) verify(tokenString, gameID string) error {
	if tokenString == "" {
		return ErrUnauthorized
	}

	keyFunc := func(*jwt.Token) (any, error) {
		return ti.secret, nil
	}
	_, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.now),
		jwt.WithSubject(gameID),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return nil
}
