package repository

import (
	"fmt"
	"testing"

	"application-portal/internal/client"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testDB opens a per-test in-memory database. The shared-cache DSN keeps
// the database alive across the pooled connections gorm hands out.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := client.InitDB("sqlite", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}
