package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stitts-dev/shot-analytics/pkg/database"
)

// NewTestDB opens an isolated in-memory sqlite database and runs migrate on it
func NewTestDB(t *testing.T, migrate func(*gorm.DB) error) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(false))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if migrate != nil {
		require.NoError(t, migrate(db))
	}
	return db
}

func IntPtr(v int) *int {
	return &v
}
