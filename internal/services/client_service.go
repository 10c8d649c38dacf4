package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"gorm.io/gorm"
)

// ErrClientNotFound is returned when no OAuth client has the requested id
var ErrClientNotFound = errors.New("client_not_found")

// ClientService manages the OAuth clients allowed to request access tokens
type ClientService interface {
	CreateClient(ctx context.Context, client *models.OAuthClient) error
	GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error)
	ListClients(ctx context.Context) ([]models.OAuthClient, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(ctx context.Context, client *models.OAuthClient) error {
	if client.ID == "" {
		return models.NewValidationError("id", "is required")
	}
	if client.Role == "" {
		client.Role = models.RoleUser
	}
	if !models.IsValidRole(client.Role) {
		return models.NewValidationError("role", "must be admin or user")
	}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("create client %s: %w", client.ID, err)
	}
	return nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (s *clientService) ListClients(ctx context.Context) ([]models.OAuthClient, error) {
	clients := []models.OAuthClient{}
	if err := s.db.WithContext(ctx).Order("created_at").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OAuthClient{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}
