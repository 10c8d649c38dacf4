package auth

import (
	"context"
	"time"

	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/go-oauth2/oauth2/v4/server"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// AccessTokenLifetime is how long issued access tokens stay valid
const AccessTokenLifetime = 2 * time.Hour

// OAuthService issues access tokens to registered API clients
type OAuthService struct {
	server *server.Server
	tokens *GormTokenStore
}

// NewOAuthService builds a client-credentials token server whose access tokens
// are HS512 JWTs signed with jwtSecret
func NewOAuthService(db *gorm.DB, jwtSecret string) *OAuthService {
	manager := manage.NewDefaultManager()
	manager.SetClientTokenCfg(&manage.Config{AccessTokenExp: AccessTokenLifetime})

	tokens := NewGormTokenStore(db)
	manager.MapAccessGenerate(NewRoleJWTAccessGenerate([]byte(jwtSecret), jwt.SigningMethodHS512))
	manager.MustTokenStorage(tokens, nil)
	manager.MapClientStorage(NewGormClientStore(db))

	srv := server.NewDefaultServer(manager)
	srv.SetAllowedGrantType(oauth2.ClientCredentials)
	srv.SetClientInfoHandler(server.ClientFormHandler)

	return &OAuthService{
		server: srv,
		tokens: tokens,
	}
}

func (o *OAuthService) GetServer() *server.Server {
	return o.server
}

// PurgeExpiredTokens removes token records whose lifetime has ended
func (o *OAuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return o.tokens.PurgeExpired(ctx, time.Now())
}
