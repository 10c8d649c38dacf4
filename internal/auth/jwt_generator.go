package auth

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
)

// roleHolder is implemented by clients that carry a role
type roleHolder interface {
	GetRole() string
}

// RoleJWTAccessGenerate generates JWT access tokens carrying the client's role
type RoleJWTAccessGenerate struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
}

// NewRoleJWTAccessGenerate creates a JWT access token generator
func NewRoleJWTAccessGenerate(key []byte, method jwt.SigningMethod) *RoleJWTAccessGenerate {
	return &RoleJWTAccessGenerate{
		SignedKey:    key,
		SignedMethod: method,
	}
}

// Token generates a JWT access token. It is called by the OAuth2 manager.
func (g *RoleJWTAccessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	clientID := data.Client.GetID()
	createdAt := data.TokenInfo.GetAccessCreateAt()

	role := models.RoleUser
	if holder, ok := data.Client.(roleHolder); ok {
		role = holder.GetRole()
	}
	if !models.IsValidRole(role) {
		return "", "", fmt.Errorf("client %s has invalid role %q", clientID, role)
	}

	claims := jwt.MapClaims{
		"aud":  clientID,
		"sub":  clientID,
		"iat":  createdAt.Unix(),
		"exp":  createdAt.Add(data.TokenInfo.GetAccessExpiresIn()).Unix(),
		"role": role,
	}
	if scope := data.TokenInfo.GetScope(); scope != "" {
		claims["scope"] = scope
	}

	access, err := jwt.NewWithClaims(g.SignedMethod, claims).SignedString(g.SignedKey)
	if err != nil {
		return "", "", err
	}

	refresh := ""
	if isGenRefresh {
		refreshClaims := jwt.MapClaims{
			"sub": clientID,
			"exp": data.TokenInfo.GetRefreshCreateAt().Add(data.TokenInfo.GetRefreshExpiresIn()).Unix(),
		}
		refresh, err = jwt.NewWithClaims(g.SignedMethod, refreshClaims).SignedString(g.SignedKey)
		if err != nil {
			return "", "", err
		}
	}

	return access, refresh, nil
}
