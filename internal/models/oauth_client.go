package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Client roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// OAuthClient is an API client allowed to request access tokens.
// Secret holds a bcrypt hash, never the plain secret.
type OAuthClient struct {
	ID        string `gorm:"primaryKey"`
	Secret    string `gorm:"not null"`
	Name      string
	Domain    string
	Role      string `gorm:"not null;default:'user'"`
	Scopes    string // Space-separated list of allowed scopes
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

// GetID implements oauth2.ClientInfo
func (c *OAuthClient) GetID() string { return c.ID }

// GetSecret implements oauth2.ClientInfo
func (c *OAuthClient) GetSecret() string { return c.Secret }

// GetDomain implements oauth2.ClientInfo
func (c *OAuthClient) GetDomain() string { return c.Domain }

// IsPublic implements oauth2.ClientInfo
func (c *OAuthClient) IsPublic() bool { return false }

// GetUserID implements oauth2.ClientInfo. Client credentials act on behalf of the client itself.
func (c *OAuthClient) GetUserID() string { return c.ID }

// GetRole returns the role embedded in tokens issued to this client
func (c *OAuthClient) GetRole() string {
	if c.Role == "" {
		return RoleUser
	}
	return c.Role
}

// VerifyPassword implements oauth2.ClientPasswordVerifier against the bcrypt hash
func (c *OAuthClient) VerifyPassword(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Secret), []byte(secret)) == nil
}

// SetSecret hashes and stores the plain secret
func (c *OAuthClient) SetSecret(secret string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.Secret = string(hash)
	return nil
}

// IsValidRole reports whether role may be assigned to a client
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
