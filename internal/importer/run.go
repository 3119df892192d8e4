package importer

import (
	"context"

	"github.com/mrlokans/brickstock/internal/entities"
)

// run holds the state of one import invocation. The category cache is
// scoped to the run and discarded with it: concurrent imports do not
// share it and rely on the repository upserts for correctness.
type run struct {
	imp *SetImporter

	// categories maps remote category ids to local records so that each
	// distinct remote id costs at most one remote fetch and one upsert
	// per run.
	categories map[int]*entities.Category
}

func (si *SetImporter) newRun() *run {
	return &run{
		imp:        si,
		categories: make(map[int]*entities.Category),
	}
}

// resolveCategory maps a remote category id to a local category record,
// creating the local node under parent on first sight. Nothing is
// cached when the remote fetch fails.
func (r *run) resolveCategory(ctx context.Context, remoteID int, parent *entities.Category) (*entities.Category, error) {
	if category, ok := r.categories[remoteID]; ok {
		return category, nil
	}

	descriptor, err := r.imp.catalog.GetPartCategory(ctx, remoteID)
	if err != nil {
		return nil, err
	}

	category, _, err := r.imp.inventory.GetOrCreateCategory(descriptor.Name, &parent.ID)
	if err != nil {
		return nil, err
	}

	r.categories[remoteID] = category
	return category, nil
}
