package rewards

import (
	"ecoponto_system/internal/domain"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Ecoponto{}, &domain.Usage{}))
	return db
}

func TestGrantEcopontoApproval(t *testing.T) {
	db := setupDB(t)
	user := domain.User{Username: "alice", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, GrantEcopontoApproval(db, user.ID))

	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, EcopontoPoints, got.Points)
	require.Equal(t, EcopontoCoins, got.Coins)
	require.Equal(t, 1, got.EcopontosRegistered)
	require.Zero(t, got.UsageCount)
}

func TestGrantEcopontoApprovalUserMissing(t *testing.T) {
	db := setupDB(t)
	require.ErrorIs(t, GrantEcopontoApproval(db, 9999), ErrUserMissing)
}

func TestGrantUsageApproval(t *testing.T) {
	db := setupDB(t)
	user := domain.User{Username: "alice", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	eco := domain.Ecoponto{UserID: user.ID, Location: "Rua X", Coordinates: "41.1,-8.6", PhotoURL: "u1"}
	require.NoError(t, db.Create(&eco).Error)

	require.NoError(t, GrantUsageApproval(db, user.ID, eco.ID))

	var gotUser domain.User
	require.NoError(t, db.First(&gotUser, user.ID).Error)
	require.Equal(t, UsagePoints, gotUser.Points)
	require.Equal(t, UsageCoins, gotUser.Coins)
	require.Equal(t, 1, gotUser.UsageCount)
	var gotEco domain.Ecoponto
	require.NoError(t, db.First(&gotEco, eco.ID).Error)
	require.Equal(t, 1, gotEco.UsageCount)
}

func TestGrantUsageApprovalEcopontoMissing(t *testing.T) {
	db := setupDB(t)
	user := domain.User{Username: "alice", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	require.ErrorIs(t, GrantUsageApproval(db, user.ID, 9999), ErrEcopontoMissing)

	// The user was never touched
	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Zero(t, got.Points)
	require.Zero(t, got.Coins)
}

func TestGrantUsageApprovalRollsBackInTransaction(t *testing.T) {
	db := setupDB(t)
	eco := domain.Ecoponto{UserID: 1, Location: "Rua X", Coordinates: "41.1,-8.6", PhotoURL: "u1"}
	require.NoError(t, db.Create(&eco).Error)

	// Submitter is missing, so the whole grant must roll back, including
	// the ecoponto counter bump applied before the failing user update
	err := db.Transaction(func(tx *gorm.DB) error {
		return GrantUsageApproval(tx, 9999, eco.ID)
	})
	require.ErrorIs(t, err, ErrUserMissing)

	var got domain.Ecoponto
	require.NoError(t, db.First(&got, eco.ID).Error)
	require.Zero(t, got.UsageCount)
}
