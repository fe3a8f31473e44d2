package domain

// User Model
type User struct {
	ID                  uint   `gorm:"primaryKey"`         // Primary key
	Username            string `gorm:"unique;not null"`    // Unique username
	Password            string `gorm:"not null"`           // Hashed password
	Role                string `gorm:"default:standard"`   // Role: standard or admin
	Points              int    `gorm:"not null;default:0"` // Cumulative reward points
	Coins               int    `gorm:"not null;default:0"` // Cumulative reward coins
	EcopontosRegistered int    `gorm:"not null;default:0"` // Approved ecopontos registered by this user
	UsageCount          int    `gorm:"not null;default:0"` // Approved usages submitted by this user
}
