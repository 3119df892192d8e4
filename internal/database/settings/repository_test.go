package settings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/brickstock/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_settings_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Setting{}))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db), cleanup
}

func TestRepository_SetAndGetSetting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting("some_key", "some_value"))

	setting, err := repo.GetSetting("some_key")
	require.NoError(t, err)
	assert.Equal(t, "some_value", setting.Value)
}

func TestRepository_SetSettingOverwrites(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting("some_key", "first"))
	require.NoError(t, repo.SetSetting("some_key", "second"))

	setting, err := repo.GetSetting("some_key")
	require.NoError(t, err)
	assert.Equal(t, "second", setting.Value)
}

func TestRepository_GetMissingSetting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetSetting("nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteSetting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting("some_key", "some_value"))
	require.NoError(t, repo.DeleteSetting("some_key"))

	_, err := repo.GetSetting("some_key")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, repo.DeleteSetting("some_key"))
}
