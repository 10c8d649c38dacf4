package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/config"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/database"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command line flags
	role := flag.String("role", models.RoleAdmin, "Client role (admin or user)")
	flag.Parse()

	if !models.IsValidRole(*role) {
		log.Fatalf("Invalid role %q, expected admin or user", *role)
	}

	_ = godotenv.Load()
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	dbConfig, err := database.ParseDatabaseURI(conf.DatabaseURI)
	if err != nil {
		log.Fatal("Invalid DB_URI:", err)
	}
	db, err := database.InitDatabase(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Determine client credentials based on role
	var clientID, clientSecret string
	if *role == models.RoleUser {
		clientID = "user-client"
		clientSecret = "user-secret-123"
	} else {
		clientID = "dev-client"
		clientSecret = "dev-secret-123"
	}

	ctx := context.Background()
	clientService := services.NewClientService(db)

	// Check if client already exists
	if _, err := clientService.GetClientByID(ctx, clientID); err == nil {
		fmt.Printf("Development client already exists for role '%s'!\n", *role)
		printCredentials(conf, clientID, clientSecret)
		return
	} else if !errors.Is(err, services.ErrClientNotFound) {
		log.Fatal("Failed to look up client:", err)
	}

	client := &models.OAuthClient{
		ID:     clientID,
		Name:   fmt.Sprintf("Development %s Client", *role),
		Domain: "http://localhost",
		Role:   *role,
		Scopes: "read write",
	}
	if err := client.SetSecret(clientSecret); err != nil {
		log.Fatal("Failed to hash secret:", err)
	}
	if err := clientService.CreateClient(ctx, client); err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Printf("✓ Development OAuth client created for role '%s'!\n", *role)
	printCredentials(conf, clientID, clientSecret)
}

func printCredentials(conf *config.Config, clientID, clientSecret string) {
	fmt.Printf("Client ID: %s\n", clientID)
	fmt.Printf("Client Secret: %s\n", clientSecret)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://%s/oauth/token \\\n", conf.Address())
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", clientID)
	fmt.Printf("  -d 'client_secret=%s'\n", clientSecret)
}
