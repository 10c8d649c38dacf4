package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ClientController struct {
	clientService services.ClientService
}

func NewClientController(clientService services.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

// clientResponse is an OAuth client without its secret hash
type clientResponse struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Domain   string `json:"domain,omitempty"`
	Role     string `json:"role"`
	Scopes   string `json:"scopes,omitempty"`
}

func newClientResponse(client models.OAuthClient) clientResponse {
	return clientResponse{
		ClientID: client.ID,
		Name:     client.Name,
		Domain:   client.Domain,
		Role:     client.GetRole(),
		Scopes:   client.Scopes,
	}
}

// CreateClient godoc
// @Summary Create OAuth2 client
// @Description Register a new API client. The plain secret is only returned once.
// @Tags OAuth2 Clients
// @Accept json
// @Produce json
// @Param client body object{name=string,domain=string,role=string,scopes=string} true "Client details"
// @Success 201 {object} map[string]interface{} "Client created with client_id and client_secret"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Client creation failed"
// @Security BearerAuth
// @Router /clients [post]
func (cc *ClientController) CreateClient(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"required"`
		Domain string `json:"domain"`
		Role   string `json:"role"`
		Scopes string `json:"scopes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Generate client secret
	secret := uuid.New().String()
	client := &models.OAuthClient{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Domain: req.Domain,
		Role:   req.Role,
		Scopes: req.Scopes,
	}
	if err := client.SetSecret(secret); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "secret_generation_failed"})
		return
	}

	if err := cc.clientService.CreateClient(c.Request.Context(), client); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		log.WithError(err).Error("Client creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "client_creation_failed"})
		return
	}

	log.WithFields(logrus.Fields{
		"client_id":  client.ID,
		"role":       client.Role,
		"created_by": c.GetString("clientID"),
	}).Info("OAuth client created")

	c.JSON(http.StatusCreated, gin.H{
		"client_id":     client.ID,
		"client_secret": secret, // Return plain secret only once
		"name":          client.Name,
		"role":          client.Role,
		"scopes":        client.Scopes,
	})
}

// ListClients godoc
// @Summary List OAuth2 clients
// @Description Get all registered OAuth2 clients
// @Tags OAuth2 Clients
// @Produce json
// @Success 200 {array} object "List of clients"
// @Failure 500 {object} map[string]string "Failed to retrieve clients"
// @Security BearerAuth
// @Router /clients [get]
func (cc *ClientController) ListClients(c *gin.Context) {
	clients, err := cc.clientService.ListClients(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Listing clients failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_retrieve_clients"})
		return
	}

	out := make([]clientResponse, 0, len(clients))
	for _, client := range clients {
		out = append(out, newClientResponse(client))
	}
	c.JSON(http.StatusOK, out)
}

// DeleteClient godoc
// @Summary Delete OAuth2 client
// @Description Delete an OAuth2 client so it can no longer request tokens
// @Tags OAuth2 Clients
// @Param id path string true "Client ID"
// @Success 204 "Client deleted successfully"
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (cc *ClientController) DeleteClient(c *gin.Context) {
	clientID := c.Param("id")

	if err := cc.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client_not_found"})
			return
		}
		log.WithError(err).WithField("client_id", clientID).Error("Client deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "client_deletion_failed"})
		return
	}

	c.Status(http.StatusNoContent)
}
