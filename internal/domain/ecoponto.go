package domain

// Ecoponto Model (recycling drop-off point)
type Ecoponto struct {
	ID          uint   `gorm:"primaryKey"`           // Primary key
	UserID      uint   `gorm:"not null;index"`       // Foreign key to the registering User (immutable)
	Location    string `gorm:"not null;unique"`      // Address string, unique among live records
	Coordinates string `gorm:"not null"`             // "lat,lng" pair
	PhotoURL    string `gorm:"not null"`             // Durable image URL from the blob store
	Reviewed    bool   `gorm:"not null;default:false"` // An admin has made a moderation decision
	Approved    bool   `gorm:"not null;default:false"` // The decision was positive
	UsageCount  int    `gorm:"not null;default:0"`   // Approved usages referencing this ecoponto
	CreatedAt   int64  `gorm:"autoCreateTime:milli"` // Timestamp of creation in milliseconds
}
