package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ImageEnricher attaches a remote image to a part record.
// *images.Enricher implements it.
type ImageEnricher interface {
	EnrichPartImage(ctx context.Context, partID uint, url string) (bool, error)
}

// EnrichPartImageTask downloads one part image and attaches it.
type EnrichPartImageTask struct {
	PartID uint   `json:"part_id"`
	URL    string `json:"url"`
}

// Config returns the queue configuration for image enrichment tasks.
func (t EnrichPartImageTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_part_image",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichPartImageProcessor creates a processor function for EnrichPartImageTask.
func EnrichPartImageProcessor(enricher ImageEnricher) backlite.QueueProcessor[EnrichPartImageTask] {
	return func(ctx context.Context, task EnrichPartImageTask) error {
		if enricher == nil {
			return fmt.Errorf("image enricher not configured")
		}

		attached, err := enricher.EnrichPartImage(ctx, task.PartID, task.URL)
		if err != nil {
			return fmt.Errorf("enrich part %d image: %w", task.PartID, err)
		}

		if attached {
			log.Printf("[TASK] Attached image to part %d", task.PartID)
		}
		return nil
	}
}

// NewEnrichPartImageQueue creates a backlite queue for image enrichment tasks.
func NewEnrichPartImageQueue(enricher ImageEnricher) backlite.Queue {
	return backlite.NewQueue(EnrichPartImageProcessor(enricher))
}
