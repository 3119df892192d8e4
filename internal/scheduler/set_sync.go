// Package scheduler periodically re-imports previously imported sets
// so local inventory tracks upstream catalog corrections.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/brickstock/internal/settingsstore"
)

// SetLister returns the natural keys of all imported sets.
// *parts.Repository implements it via ListAssemblyIPNs.
type SetLister interface {
	ListAssemblyIPNs() ([]string, error)
}

// ImportSubmitter enqueues a deferred set import. *tasks.Client implements it.
type ImportSubmitter interface {
	SubmitSetImport(num string, categoryID *uint) error
}

// SetSyncScheduler manages periodic re-imports of tracked sets.
type SetSyncScheduler struct {
	sets      SetLister
	submitter ImportSubmitter
	settings  *settingsstore.SettingsStore

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewSetSyncScheduler creates a new scheduler instance.
func NewSetSyncScheduler(sets SetLister, submitter ImportSubmitter, settings *settingsstore.SettingsStore) *SetSyncScheduler {
	return &SetSyncScheduler{
		sets:      sets,
		submitter: submitter,
		settings:  settings,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// ValidateCronSchedule checks a 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	return err
}

// Start begins the scheduler if re-sync is enabled.
func (s *SetSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	config := s.settings.GetSetSyncConfig()

	if !config.Enabled {
		log.Printf("Set sync scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(config.Schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Set sync scheduler: started with schedule '%s'", config.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *SetSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Set sync scheduler: stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *SetSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// runSync enqueues a re-import for every tracked set. The imports
// themselves run on the task queue; an enqueue failure for one set
// does not stop the rest.
func (s *SetSyncScheduler) runSync() {
	started := time.Now().UTC().Format(time.RFC3339)

	nums, err := s.sets.ListAssemblyIPNs()
	if err != nil {
		log.Printf("Set sync: failed to list tracked sets: %v", err)
		s.settings.RecordSetSyncResult(started, "error", err.Error())
		return
	}

	categoryID := s.settings.GetDefaultCategoryID()

	submitted := 0
	for _, num := range nums {
		if err := s.submitter.SubmitSetImport(num, categoryID); err != nil {
			log.Printf("Set sync: failed to enqueue re-import of %s: %v", num, err)
			continue
		}
		submitted++
	}

	log.Printf("Set sync: enqueued re-import of %d/%d sets", submitted, len(nums))
	s.settings.RecordSetSyncResult(started, "ok", fmt.Sprintf("enqueued %d of %d sets", submitted, len(nums)))
}
