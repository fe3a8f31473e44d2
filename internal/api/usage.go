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

// userUsagesCacheKey caches a user's approved usage photo listing
func userUsagesCacheKey(userID uint64) string {
	return "usages:user:" + strconv.FormatUint(userID, 10) + ":photos"
}

// CreateUsageHandler records a proof-of-use event at an ecoponto, pending review.
// The submitter is always the authenticated caller.
func CreateUsageHandler(db *gorm.DB, up storage.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Parse the target ecoponto id from the path
		ecopontoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide an ecoponto id"})
			return
		}
		// The photo is the proof; it is mandatory
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
		// Upload the photo; failure aborts the creation
		photoURL, err := up.Upload(c.Request.Context(), file, "utilizacoes")
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":     userID,      // Submitter user ID
				"ecoponto_id": ecopontoID,  // Target ecoponto ID
				"error":       err.Error(), // Error message
			}).Error("Usage photo upload failed") // Log upload failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
			return
		}
		// Create the usage, unreviewed and unapproved by default
		usage := domain.Usage{
			UserID:     userID.(uint),    // Submitter
			EcopontoID: uint(ecopontoID), // Referenced ecoponto
			PhotoURL:   photoURL,         // Durable image URL
		}
		// Attempt to create the usage in the database
		if err := db.Create(&usage).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":     userID,      // Submitter user ID
				"ecoponto_id": ecopontoID,  // Target ecoponto ID
				"error":       err.Error(), // Error message
			}).Error("Failed to create usage") // Log creation failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register usage"})
			return
		}
		// Log successful submission
		logrus.WithFields(logrus.Fields{
			"usage_id":    usage.ID,                        // Usage ID
			"user_id":     userID,                          // Submitter user ID
			"ecoponto_id": ecopontoID,                      // Target ecoponto ID
			"timestamp":   time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Usage submitted for review") // Log submission
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Usage registered successfully", "usage": usage})
	}
}

// ReviewUsageHandler applies an admin moderation decision to a usage.
// Rejection deletes the record; approval credits the submitter and bumps the
// referenced ecoponto's counter in the same transaction.
func ReviewUsageHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse the usage id
		if err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide a usage id"})
			return
		}
		var req ReviewRequest      // Bind JSON request to struct
		_ = c.ShouldBindJSON(&req) // An absent body means rejection
		// Rejection: delete the submission permanently. Unconditional,
		// reported as success even for a missing id.
		if !req.Approved {
			if err := db.Delete(&domain.Usage{}, id).Error; err != nil {
				// If deletion fails, return internal server error
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete usage"})
				return
			}
			// Log the rejection
			logrus.WithFields(logrus.Fields{
				"usage_id": id,         // Usage ID
				"decision": "rejected", // Moderation decision
			}).Info("Usage review") // Log review
			// Return success response
			c.JSON(http.StatusOK, gin.H{"message": "Usage deleted successfully"})
			return
		}
		var usage domain.Usage // The usage under review
		// Approve and reward atomically: the state flip, the submitter's
		// credit and the ecoponto counter commit together or not at all
		err = db.Transaction(func(tx *gorm.DB) error {
			// Fetch the submission
			if err := tx.First(&usage, id).Error; err != nil {
				return err // Not found rolls the transaction back
			}
			// Compare-and-swap on reviewed=false: re-reviewing an already
			// validated usage is a conflict, never a double credit
			res := tx.Model(&domain.Usage{}).
				Where("id = ? AND reviewed = ?", id, false).
				Updates(map[string]any{"reviewed": true, "approved": true})
			if res.Error != nil {
				return res.Error // Store failure
			}
			if res.RowsAffected == 0 {
				return ErrAlreadyReviewed // Terminal states are final
			}
			// Credit the submitter and bump the ecoponto counter
			return rewards.GrantUsageApproval(tx, usage.UserID, usage.EcopontoID)
		})
		// Map transaction failures to responses
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// The submission doesn't exist
				c.JSON(http.StatusNotFound, gin.H{"error": "Usage not found"})
			case errors.Is(err, ErrAlreadyReviewed):
				// A moderation decision was already made
				c.JSON(http.StatusConflict, gin.H{"error": "Usage already validated"})
			case errors.Is(err, rewards.ErrEcopontoMissing):
				// The referenced ecoponto vanished; the approval was rolled back
				c.JSON(http.StatusNotFound, gin.H{"error": "Referenced ecoponto not found"})
			case errors.Is(err, rewards.ErrUserMissing):
				// The submitter vanished; the approval was rolled back
				c.JSON(http.StatusNotFound, gin.H{"error": "Usage submitter not found"})
			default:
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"usage_id": id,          // Usage ID
					"error":    err.Error(), // Error message
				}).Error("Usage approval failed") // Log approval failure
				// Return internal server error
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve usage"})
			}
			return
		}
		// Log the approval and the granted reward
		logrus.WithFields(logrus.Fields{
			"usage_id":    id,                              // Usage ID
			"user_id":     usage.UserID,                    // Rewarded submitter
			"ecoponto_id": usage.EcopontoID,                // Referenced ecoponto
			"points":      rewards.UsagePoints,             // Points granted
			"coins":       rewards.UsageCoins,              // Coins granted
			"timestamp":   time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Usage approved") // Log approval
		// The submitter's approved-history listing changed
		_ = utils.DeleteCache(context.Background(), rdb, userUsagesCacheKey(uint64(usage.UserID)))
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Usage validated successfully"})
	}
}

// ListPendingUsagesHandler returns all usages awaiting a moderation decision
func ListPendingUsagesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []domain.Usage // Slice to hold pending usages
		// Fetch all unreviewed entries
		if err := db.Where("reviewed = ?", false).Find(&pending).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch usages"})
			return
		}
		// An empty pending queue is reported as absence, not as an empty list
		if len(pending) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No usages pending validation"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"usages": pending}) // Return pending entries
	}
}

// GetUserUsagesHandler returns the photo URLs of a user's approved usages.
// Only the user themselves may read this history; admins have no override.
func GetUserUsagesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Parse the target user id from the path
		targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide a user id"})
			return
		}
		// Ownership check applies to every caller, admin or not
		if callerID.(uint) != uint(targetID) {
			// If not the owner, return forbidden
			c.JSON(http.StatusForbidden, gin.H{"error": "You cannot view these usages"})
			return
		}
		ctx := context.Background()             // Context for Redis operations
		cacheKey := userUsagesCacheKey(targetID) // Cache key for this user's history
		var cached []string                     // Cached photo URLs
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			// Return cached history
			c.JSON(http.StatusOK, gin.H{"photos": cached, "cached": true})
			return
		}
		var photos []string // Photo URLs of approved usages only
		// Project the approved history down to photo URLs
		if err := db.Model(&domain.Usage{}).
			Where("user_id = ? AND reviewed = ? AND approved = ?", targetID, true, true).
			Pluck("photo_url", &photos).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch usages"})
			return
		}
		// An empty history is reported as absence
		if len(photos) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No usages found"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, photos, 60*time.Second)  // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"photos": photos, "cached": false}) // Return the history
	}
}
