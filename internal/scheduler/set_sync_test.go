package scheduler

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/brickstock/internal/database/settings"
	"github.com/mrlokans/brickstock/internal/entities"
	"github.com/mrlokans/brickstock/internal/settingsstore"
)

type fakeSets struct {
	ipns []string
	err  error
}

func (f *fakeSets) ListAssemblyIPNs() ([]string, error) {
	return f.ipns, f.err
}

type fakeSubmitter struct {
	submitted []string
	failFor   string
}

func (f *fakeSubmitter) SubmitSetImport(num string, categoryID *uint) error {
	if num == f.failFor {
		return errors.New("enqueue failed")
	}
	f.submitted = append(f.submitted, num)
	return nil
}

func setupSettings(t *testing.T) (*settingsstore.SettingsStore, func()) {
	dbPath := "./test_scheduler_" + t.Name() + ".db"

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

	return settingsstore.New(settings.NewRepository(db)), cleanup
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 4 * * 0"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("not a schedule"))
	assert.Error(t, ValidateCronSchedule("0 4 * *"))
}

func TestScheduler_DisabledDoesNotStart(t *testing.T) {
	store, cleanup := setupSettings(t)
	defer cleanup()

	s := NewSetSyncScheduler(&fakeSets{}, &fakeSubmitter{}, store)
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestScheduler_StartAndStop(t *testing.T) {
	store, cleanup := setupSettings(t)
	defer cleanup()

	require.NoError(t, store.SetSetSyncEnabled(true))

	s := NewSetSyncScheduler(&fakeSets{}, &fakeSubmitter{}, store)
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	// Starting twice is a no-op.
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_InvalidScheduleFailsStart(t *testing.T) {
	store, cleanup := setupSettings(t)
	defer cleanup()

	require.NoError(t, store.SetSetSyncEnabled(true))
	require.NoError(t, store.SetSetSyncSchedule("bogus"))

	s := NewSetSyncScheduler(&fakeSets{}, &fakeSubmitter{}, store)
	require.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestRunSync_EnqueuesAllTrackedSets(t *testing.T) {
	store, cleanup := setupSettings(t)
	defer cleanup()

	require.NoError(t, store.SetDefaultCategoryID(7))

	submitter := &fakeSubmitter{}
	s := NewSetSyncScheduler(&fakeSets{ipns: []string{"1000-1", "2000-1"}}, submitter, store)

	s.runSync()

	assert.Equal(t, []string{"1000-1", "2000-1"}, submitter.submitted)
}

func TestRunSync_EnqueueFailureSkipsOnlyThatSet(t *testing.T) {
	store, cleanup := setupSettings(t)
	defer cleanup()

	submitter := &fakeSubmitter{failFor: "1000-1"}
	s := NewSetSyncScheduler(&fakeSets{ipns: []string{"1000-1", "2000-1", "3000-1"}}, submitter, store)

	s.runSync()

	assert.Equal(t, []string{"2000-1", "3000-1"}, submitter.submitted)
}

func TestRunSync_ListFailureRecordsError(t *testing.T) {
	store, cleanup := setupSettings(t)
	defer cleanup()

	submitter := &fakeSubmitter{}
	s := NewSetSyncScheduler(&fakeSets{err: errors.New("db gone")}, submitter, store)

	s.runSync()

	assert.Empty(t, submitter.submitted)
}
