package gate

import (
	"context"
	"errors"
	"time"

	go_jwt "github.com/golang-jwt/jwt/v5"

	"github.com/tilespace/server/internal/arena"
)

var ErrUnauthorized = errors.New("gate: unauthorized")

// Gate authorizes a connection for a space before any room logic runs. The
// token is parsed locally for the user identity and checked for validity
// against the resolver; both must pass.
type Gate struct {
	resolver arena.Resolver
	secret   []byte
	timeout  time.Duration
}

func New(resolver arena.Resolver, secret []byte, timeout time.Duration) *Gate {
	return &Gate{resolver: resolver, secret: secret, timeout: timeout}
}

// ParseIdentity extracts the user id from a platform token without
// consulting the resolver. Used at connect time to assign credentials.
func (g *Gate) ParseIdentity(token string) (string, error) {
	parsed, err := go_jwt.Parse(token, func(t *go_jwt.Token) (interface{}, error) {
		if t.Method != go_jwt.SigningMethodHS256 {
			return nil, go_jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrUnauthorized
	}

	claims, ok := parsed.Claims.(go_jwt.MapClaims)
	if !ok {
		return "", ErrUnauthorized
	}

	if userID, ok := claims["userId"].(string); ok && userID != "" {
		return userID, nil
	}
	if subject, _ := claims.GetSubject(); subject != "" {
		return subject, nil
	}

	return "", ErrUnauthorized
}

// Authorize binds a credential to a target space. Any resolver failure,
// timeout, or a negative validity verdict refuses the connection.
func (g *Gate) Authorize(ctx context.Context, token string, spaceID string) (string, error) {
	if spaceID == "" {
		return "", ErrUnauthorized
	}

	userID, err := g.ParseIdentity(token)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	valid, err := g.resolver.ValidateToken(ctx, token)
	if err != nil || !valid {
		return "", ErrUnauthorized
	}

	return userID, nil
}
