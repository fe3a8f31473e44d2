package api

import (
	"ecoponto_system/internal/domain" // Importing domain models
	"net/http"                        // HTTP status codes
	"strconv"                         // String conversion

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ListItemsHandler returns all store items
func ListItemsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []domain.Item // Slice to hold items
		// Fetch all items
		if err := db.Find(&items).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items}) // Return all items
	}
}

// DeleteItemHandler deletes a store item and returns the deleted record
func DeleteItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse the item id
		if err != nil {
			// A malformed id can't reference anything
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		var item domain.Item // The item to delete
		// Query item by primary key
		if err := db.First(&item, id).Error; err != nil {
			// Return not found if the record doesn't exist
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		// Delete the item
		if err := db.Delete(&item).Error; err != nil {
			// If deletion fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		// Return the deleted record
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully", "item": item})
	}
}
