package domain

// Usage Model (proof-of-use event at an Ecoponto)
type Usage struct {
	ID         uint   `gorm:"primaryKey"`             // Primary key
	UserID     uint   `gorm:"not null;index"`         // Foreign key to the submitting User
	EcopontoID uint   `gorm:"not null;index"`         // Foreign key to the referenced Ecoponto
	PhotoURL   string `gorm:"not null"`               // Durable image URL from the blob store
	Reviewed   bool   `gorm:"not null;default:false"` // An admin has made a moderation decision
	Approved   bool   `gorm:"not null;default:false"` // The decision was positive
	CreatedAt  int64  `gorm:"autoCreateTime:milli"`   // Timestamp of submission in milliseconds
}
