package api

import (
	"ecoponto_system/internal/middleware" // Auth middleware
	"ecoponto_system/internal/storage"    // Image uploader

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// RegisterRoutes wires all handlers onto the router. Shared by the server
// entry point and the test harness.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, up storage.Uploader, jwtSecret string) {
	// Auth routes
	r.POST("/user", RegisterHandler(db))            // Registration endpoint
	r.GET("/user", LoginHandler(db, jwtSecret))     // Login endpoint

	// Public ecoponto views
	r.GET("/ecopontos", ListEcopontosHandler(db, rdb)) // Approved-only listing
	r.GET("/ecopontos/:id", GetEcopontoHandler(db))    // Single record

	// Submission intake and personal history (protected by JWT)
	authGroup := r.Group("")
	authGroup.Use(middleware.JWTAuthMiddleware(jwtSecret))
	authGroup.POST("/ecopontos", CreateEcopontoHandler(db, rdb, up))   // Register a new ecoponto
	authGroup.POST("/ecopontos/:id/usages", CreateUsageHandler(db, up)) // Register a usage
	authGroup.GET("/users/:id/usages", GetUserUsagesHandler(db, rdb))  // Owner-only approved history

	// Moderation routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(jwtSecret), middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/ecopontos/pending", ListPendingEcopontosHandler(db)) // Ecopontos to validate
	adminGroup.PATCH("/ecopontos/:id", ReviewEcopontoHandler(db, rdb))    // Review an ecoponto
	adminGroup.GET("/usages/pending", ListPendingUsagesHandler(db))       // Usages to validate
	adminGroup.PATCH("/usages/:id", ReviewUsageHandler(db, rdb))          // Review a usage
	adminGroup.GET("/items", ListItemsHandler(db))                        // Store items
	adminGroup.DELETE("/items/:id", DeleteItemHandler(db))                // Delete a store item
}
