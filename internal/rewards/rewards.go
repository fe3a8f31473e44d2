package rewards

import (
	"ecoponto_system/internal/domain" // Importing domain models
	"errors"                          // Error values

	"gorm.io/gorm" // GORM ORM library
)

// Fixed reward amounts granted exactly once per approved submission
const (
	EcopontoPoints = 500  // Points for an approved ecoponto registration
	EcopontoCoins  = 2000 // Coins for an approved ecoponto registration
	UsagePoints    = 300  // Points for an approved usage
	UsageCoins     = 1000 // Coins for an approved usage
)

// Returned when a dependent record vanished before the grant could apply;
// the surrounding transaction must roll back so no partial reward persists.
var (
	ErrUserMissing     = errors.New("reward target user not found")
	ErrEcopontoMissing = errors.New("rewarded ecoponto not found")
)

// GrantEcopontoApproval credits the owner of a newly approved ecoponto.
// Must run inside the approval transaction.
func GrantEcopontoApproval(tx *gorm.DB, ownerID uint) error {
	// Relative updates keep concurrent grants additive
	res := tx.Model(&domain.User{}).Where("id = ?", ownerID).Updates(map[string]any{
		"points":               gorm.Expr("points + ?", EcopontoPoints),               // Credit points
		"coins":                gorm.Expr("coins + ?", EcopontoCoins),                 // Credit coins
		"ecopontos_registered": gorm.Expr("ecopontos_registered + ?", 1),             // Bump registration counter
	})
	if res.Error != nil {
		return res.Error // Store failure
	}
	// RowsAffected doubles as the existence check
	if res.RowsAffected == 0 {
		return ErrUserMissing
	}
	return nil
}

// GrantUsageApproval credits the submitter of an approved usage and bumps
// the referenced ecoponto's usage counter. Must run inside the approval
// transaction so both records update or neither does.
func GrantUsageApproval(tx *gorm.DB, submitterID, ecopontoID uint) error {
	// Bump the ecoponto usage counter
	res := tx.Model(&domain.Ecoponto{}).Where("id = ?", ecopontoID).
		Update("usage_count", gorm.Expr("usage_count + ?", 1))
	if res.Error != nil {
		return res.Error // Store failure
	}
	if res.RowsAffected == 0 {
		return ErrEcopontoMissing // Referenced ecoponto is gone
	}
	// Credit the submitter
	res = tx.Model(&domain.User{}).Where("id = ?", submitterID).Updates(map[string]any{
		"points":      gorm.Expr("points + ?", UsagePoints), // Credit points
		"coins":       gorm.Expr("coins + ?", UsageCoins),   // Credit coins
		"usage_count": gorm.Expr("usage_count + ?", 1),      // Bump usage counter
	})
	if res.Error != nil {
		return res.Error // Store failure
	}
	if res.RowsAffected == 0 {
		return ErrUserMissing // Submitter is gone
	}
	return nil
}
