package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

var ErrUnauthenticated = errors.New("no authenticated user")

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Identity resolves the actor behind a request. Services receive it as an
// explicit collaborator instead of reaching for ambient auth state.
type Identity interface {
	CurrentUserID(ctx context.Context) (string, error)
	CurrentUserRole(ctx context.Context) (string, error)
}

// JWTIdentity reads the actor from the JWT claims carried on the request
// context by the jwtauth verifier middleware.
type JWTIdentity struct{}

func NewJWTIdentity() *JWTIdentity {
	return &JWTIdentity{}
}

func (JWTIdentity) CurrentUserID(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrUnauthenticated
	}
	return userID, nil
}

func (JWTIdentity) CurrentUserRole(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", ErrUnauthenticated
	}
	return role, nil
}

func claimsFromContext(ctx context.Context) (map[string]interface{}, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return claims, nil
}

// Static is a fixed identity for tests and tooling.
type Static struct {
	UserID string
	Role   string
}

func (s Static) CurrentUserID(ctx context.Context) (string, error) {
	if s.UserID == "" {
		return "", ErrUnauthenticated
	}
	return s.UserID, nil
}

func (s Static) CurrentUserRole(ctx context.Context) (string, error) {
	if s.Role == "" {
		return "", ErrUnauthenticated
	}
	return s.Role, nil
}
