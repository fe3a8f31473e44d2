package api

import (
	"context"                          // Context for Redis operations
	"ecoponto_system/internal/domain"  // Importing domain models
	"ecoponto_system/internal/rewards" // Reward ledger
	"ecoponto_system/internal/storage" // Image uploader
	"ecoponto_system/internal/utils"   // Utility functions
	"errors"                           // Error matching
	"net/http"                         // HTTP status codes
	"strconv"                          // String conversion
	"time"                             // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// ErrAlreadyReviewed signals a moderation decision on an already-reviewed submission
var ErrAlreadyReviewed = errors.New("submission already validated")

// ecopontoListCacheKey caches the public approved-only listing
const ecopontoListCacheKey = "ecopontos:approved"

// ReviewRequest carries the admin's moderation decision.
// An absent or false flag means rejection.
type ReviewRequest struct {
	Approved bool `json:"approved"` // Approve (true) or reject (false)
}

// EcopontoPublic is the projection exposed in the public listing.
// Owner and photo are never leaked here.
type EcopontoPublic struct {
	ID          uint   `json:"id"`          // Ecoponto ID
	Location    string `json:"location"`    // Address string
	Coordinates string `json:"coordinates"` // "lat,lng" pair
}

// ListEcopontosHandler returns all approved ecopontos, projected for public view
func ListEcopontosHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()   // Context for Redis operations
		var cached []EcopontoPublic   // Cached listing
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, ecopontoListCacheKey, &cached)
		if err == nil && found {
			// Return cached listing
			c.JSON(http.StatusOK, gin.H{"ecopontos": cached, "cached": true})
			return
		}
		var list []EcopontoPublic // Slice to hold the projection
		// Only approved entries are ever publicly visible
		if err := db.Model(&domain.Ecoponto{}).Where("approved = ?", true).Find(&list).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ecopontos"})
			return
		}
		_ = utils.SetCache(ctx, rdb, ecopontoListCacheKey, list, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"ecopontos": list, "cached": false})         // Return the listing
	}
}

// GetEcopontoHandler returns a single ecoponto by id
func GetEcopontoHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse the ecoponto id
		if err != nil {
			// A malformed id can't reference anything
			c.JSON(http.StatusNotFound, gin.H{"error": "Ecoponto not found"})
			return
		}
		var eco domain.Ecoponto // Ecoponto struct to hold data
		// Query ecoponto by primary key
		if err := db.First(&eco, id).Error; err != nil {
			// Return not found if the record doesn't exist
			c.JSON(http.StatusNotFound, gin.H{"error": "Ecoponto not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ecoponto": eco}) // Return the record
	}
}

// CreateEcopontoHandler registers a new ecoponto pending admin review
func CreateEcopontoHandler(db *gorm.DB, rdb *redis.Client, up storage.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		location := c.PostForm("location")       // Address string
		coordinates := c.PostForm("coordinates") // "lat,lng" pair
		// Validate location
		if location == "" {
			// If missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide a location"})
			return
		}
		// Validate coordinates
		if coordinates == "" {
			// If missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide coordinates"})
			return
		}
		var existing domain.Ecoponto // Check for a duplicate location
		if err := db.Where("location = ?", location).First(&existing).Error; err == nil {
			// If a record with this location exists, return conflict
			c.JSON(http.StatusBadRequest, gin.H{"error": "An ecoponto with this location already exists"})
			return
		}
		// The photo is mandatory; downstream views assume a URL is present
		fileHeader, err := c.FormFile("photo")
		if err != nil {
			// If missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide a photo"})
			return
		}
		file, err := fileHeader.Open() // Open the uploaded file
		if err != nil {
			// If the file can't be read, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide a photo"})
			return
		}
		defer file.Close() // Close the file when done
		// Upload the photo; failure aborts the creation so no record
		// is persisted without a resolvable URL
		photoURL, err := up.Upload(c.Request.Context(), file, "ecopontos")
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Submitter user ID
				"error":   err.Error(), // Error message
			}).Error("Ecoponto photo upload failed") // Log upload failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
			return
		}
		// Create the ecoponto, unreviewed and unapproved by default
		eco := domain.Ecoponto{
			UserID:      userID.(uint), // Owner (immutable)
			Location:    location,      // Address string
			Coordinates: coordinates,   // Coordinates
			PhotoURL:    photoURL,      // Durable image URL
		}
		// Attempt to create the ecoponto in the database
		if err := db.Create(&eco).Error; err != nil {
			// The unique index catches duplicate races that pass the pre-check
			c.JSON(http.StatusBadRequest, gin.H{"error": "An ecoponto with this location already exists"})
			return
		}
		// Log successful creation
		logrus.WithFields(logrus.Fields{
			"ecoponto_id": eco.ID,                          // Ecoponto ID
			"user_id":     userID,                          // Owner user ID
			"location":    location,                        // Address string
			"timestamp":   time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Ecoponto submitted for review") // Log submission
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Ecoponto created successfully", "ecoponto": eco})
	}
}

// ReviewEcopontoHandler applies an admin moderation decision to an ecoponto.
// Rejection deletes the record; approval flips it to reviewed+approved and
// credits the owner in the same transaction.
func ReviewEcopontoHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse the ecoponto id
		if err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide an ecoponto id"})
			return
		}
		var req ReviewRequest       // Bind JSON request to struct
		_ = c.ShouldBindJSON(&req)  // An absent body means rejection
		ctx := context.Background() // Context for Redis operations
		// Rejection: delete the submission permanently. The delete is
		// unconditional and reports success even for a missing id, so
		// clients can treat it idempotently.
		if !req.Approved {
			if err := db.Delete(&domain.Ecoponto{}, id).Error; err != nil {
				// If deletion fails, return internal server error
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ecoponto"})
				return
			}
			// Log the rejection
			logrus.WithFields(logrus.Fields{
				"ecoponto_id": id,         // Ecoponto ID
				"decision":    "rejected", // Moderation decision
			}).Info("Ecoponto review") // Log review
			_ = utils.DeleteCache(ctx, rdb, ecopontoListCacheKey) // Invalidate public listing cache
			// Return success response
			c.JSON(http.StatusOK, gin.H{"message": "Ecoponto deleted successfully"})
			return
		}
		var eco domain.Ecoponto // The ecoponto under review
		// Approve and reward atomically: the state flip and the owner's
		// credit commit together or not at all
		err = db.Transaction(func(tx *gorm.DB) error {
			// Fetch the submission
			if err := tx.First(&eco, id).Error; err != nil {
				return err // Not found rolls the transaction back
			}
			// Compare-and-swap on reviewed=false makes a second review
			// of the same id fail instead of double-applying rewards
			res := tx.Model(&domain.Ecoponto{}).
				Where("id = ? AND reviewed = ?", id, false).
				Updates(map[string]any{"reviewed": true, "approved": true})
			if res.Error != nil {
				return res.Error // Store failure
			}
			if res.RowsAffected == 0 {
				return ErrAlreadyReviewed // Terminal states are final
			}
			// Credit the owner
			return rewards.GrantEcopontoApproval(tx, eco.UserID)
		})
		// Map transaction failures to responses
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// The submission doesn't exist
				c.JSON(http.StatusNotFound, gin.H{"error": "Ecoponto not found"})
			case errors.Is(err, ErrAlreadyReviewed):
				// A moderation decision was already made
				c.JSON(http.StatusConflict, gin.H{"error": "Ecoponto already validated"})
			case errors.Is(err, rewards.ErrUserMissing):
				// The owner vanished; the approval was rolled back
				c.JSON(http.StatusNotFound, gin.H{"error": "Ecoponto owner not found"})
			default:
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"ecoponto_id": id,          // Ecoponto ID
					"error":       err.Error(), // Error message
				}).Error("Ecoponto approval failed") // Log approval failure
				// Return internal server error
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve ecoponto"})
			}
			return
		}
		// Log the approval and the granted reward
		logrus.WithFields(logrus.Fields{
			"ecoponto_id": id,                              // Ecoponto ID
			"user_id":     eco.UserID,                      // Rewarded owner
			"points":      rewards.EcopontoPoints,          // Points granted
			"coins":       rewards.EcopontoCoins,           // Coins granted
			"timestamp":   time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Ecoponto approved") // Log approval
		_ = utils.DeleteCache(ctx, rdb, ecopontoListCacheKey) // The listing gains an entry
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Ecoponto approved successfully"})
	}
}

// ListPendingEcopontosHandler returns all ecopontos awaiting a moderation decision
func ListPendingEcopontosHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []domain.Ecoponto // Slice to hold pending ecopontos
		// Fetch all unreviewed entries
		if err := db.Where("reviewed = ?", false).Find(&pending).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ecopontos"})
			return
		}
		// An empty pending queue is reported as absence, not as an empty list
		if len(pending) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No ecopontos pending validation"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ecopontos": pending}) // Return pending entries
	}
}
