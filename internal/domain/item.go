package domain

// Item Model (store catalog entry, admin-managed)
type Item struct {
	ID        uint   `gorm:"primaryKey"`           // Primary key
	Name      string `gorm:"not null"`             // Item name
	Price     int    `gorm:"not null;default:0"`   // Price in coins
	CreatedAt int64  `gorm:"autoCreateTime:milli"` // Timestamp of creation in milliseconds
}
