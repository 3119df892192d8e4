package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SetImporter runs a whole-set import. *importer.SetImporter implements it.
type SetImporter interface {
	ImportSet(ctx context.Context, num string, rootCategoryID *uint) error
}

// ImportSetTask imports one LEGO set into the local inventory.
type ImportSetTask struct {
	SetNum     string `json:"set_num"`
	CategoryID *uint  `json:"category_id,omitempty"`
}

// Config returns the queue configuration for set import tasks.
// A whole set can span many pages and hundreds of remote calls, so the
// timeout is generous. Every local write is idempotent, which makes
// redelivery after a partial run safe.
func (t ImportSetTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_set",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportSetProcessor creates a processor function for ImportSetTask.
func ImportSetProcessor(imp SetImporter) backlite.QueueProcessor[ImportSetTask] {
	return func(ctx context.Context, task ImportSetTask) error {
		if imp == nil {
			return fmt.Errorf("set importer not configured")
		}

		if err := imp.ImportSet(ctx, task.SetNum, task.CategoryID); err != nil {
			return fmt.Errorf("import set %s: %w", task.SetNum, err)
		}

		log.Printf("[TASK] Imported set %s", task.SetNum)
		return nil
	}
}

// NewImportSetQueue creates a backlite queue for set import tasks.
func NewImportSetQueue(imp SetImporter) backlite.Queue {
	return backlite.NewQueue(ImportSetProcessor(imp))
}
