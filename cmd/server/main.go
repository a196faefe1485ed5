package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"campusgate/internal/api/routes"
	"campusgate/internal/config"
	"campusgate/internal/models"
	"campusgate/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	if err := models.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Seed the parking singleton if this is a fresh database
	if err := models.SeedParkingConfig(cfg.Parking.TotalSpaces); err != nil {
		log.Fatalf("Failed to seed parking configuration: %v", err)
	}

	// Create default users if database is empty
	authService := services.NewAuthService(cfg)
	if err := authService.CreateDefaultUsers(); err != nil {
		log.Printf("Warning: Failed to create default users: %v", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// Setup routes
	routes.SetupRoutes(r, cfg)

	// Serve static files from web/dist directory
	frontendDir := filepath.Join("web", "dist")
	r.Static("/assets", filepath.Join(frontendDir, "assets"))
	r.StaticFile("/favicon.ico", filepath.Join(frontendDir, "favicon.ico"))

	// Serve index.html for root and all non-API routes (SPA routing)
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(frontendDir, "index.html"))
	})

	// Fallback to index.html for SPA routing
	r.NoRoute(func(c *gin.Context) {
		// Check if it's an API route
		path := c.Request.URL.Path
		if len(path) >= 4 && path[:4] == "/api" {
			c.JSON(404, gin.H{"error": "API endpoint not found"})
			return
		}

		// For all other routes, serve index.html (SPA fallback)
		c.File(filepath.Join(frontendDir, "index.html"))
	})

	// Run server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting CampusGate server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
