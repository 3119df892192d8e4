// Package importer converts remote Rebrickable catalog entities into
// local inventory records.
//
// # Architecture
//
// One SetImporter run walks a whole set:
//
//	set descriptor → set part → paged parts → paged minifigs
//
// Every local write goes through an idempotent get-or-create keyed by a
// natural key, so re-running an import resumes progress instead of
// duplicating it. Image downloads are handed off to the task queue and
// never block the import itself.
package importer

import (
	"context"

	"github.com/mrlokans/brickstock/internal/database/parts"
	"github.com/mrlokans/brickstock/internal/entities"
	"github.com/mrlokans/brickstock/internal/rebrickable"
)

// Names of the three sibling category subtrees created under the
// configured root category.
const (
	CategorySets     = "Sets"
	CategoryParts    = "Parts"
	CategoryMinifigs = "Minifigs"
)

// Catalog is the remote catalog surface the importer consumes.
// *rebrickable.Client implements it.
type Catalog interface {
	GetPartCategory(ctx context.Context, id int) (*rebrickable.PartCategory, error)
	GetSet(ctx context.Context, num string) (*rebrickable.Set, error)
	SetParts(ctx context.Context, num string, process func(rebrickable.SetPart) error) error
	SetMinifigs(ctx context.Context, num string, process func(rebrickable.SetMinifig) error) error
}

// Inventory is the local persistence surface the importer writes to.
// *parts.Repository implements it.
type Inventory interface {
	GetOrCreateCategory(name string, parentID *uint) (*entities.Category, bool, error)
	GetOrCreatePart(fields parts.PartFields) (*entities.Part, bool, error)
	GetOrCreateBomItem(partID, subPartID uint, quantity int, optional bool) (*entities.BomItem, bool, error)
	SavePart(part *entities.Part) error
}

// ImageSubmitter enqueues deferred image enrichment. Submission is
// fire-and-forget: the importer never observes the enrichment result.
type ImageSubmitter interface {
	SubmitPartImage(partID uint, url string) error
}

// SetImporter orchestrates the import of whole sets.
type SetImporter struct {
	catalog   Catalog
	inventory Inventory
	images    ImageSubmitter
}

// NewSetImporter creates a set importer over the given collaborators.
func NewSetImporter(catalog Catalog, inventory Inventory, images ImageSubmitter) *SetImporter {
	return &SetImporter{
		catalog:   catalog,
		inventory: inventory,
		images:    images,
	}
}

const (
	maxNameLength = 50
	nameEllipsis  = ".."
)

// splitName truncates a remote name at 50 characters, marking the cut
// with a two-character ellipsis and moving the full original into the
// description. Short names pass through with an empty description.
func splitName(full string) (name, description string) {
	runes := []rune(full)
	if len(runes) <= maxNameLength {
		return full, ""
	}
	return string(runes[:maxNameLength]) + nameEllipsis, full
}
