package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/brickstock/internal/database/parts"
	"github.com/mrlokans/brickstock/internal/rebrickable"
)

// ImportSet imports a whole set under the given root category (nil
// means top level). It creates the set's own part under "Sets", then
// walks the parts collection and the minifigs collection, strictly in
// that order. A remote fetch failure aborts the run at the point of
// failure; everything already written stays committed and a re-run
// resumes without duplicating it.
func (si *SetImporter) ImportSet(ctx context.Context, num string, rootCategoryID *uint) error {
	log.Printf("Importing LEGO set %s", num)

	set, err := si.catalog.GetSet(ctx, num)
	if err != nil {
		return err
	}

	setsCategory, _, err := si.inventory.GetOrCreateCategory(CategorySets, rootCategoryID)
	if err != nil {
		return fmt.Errorf("create %q category: %w", CategorySets, err)
	}

	setPart, _, err := si.inventory.GetOrCreatePart(parts.PartFields{
		Name:       set.Name,
		IPN:        set.SetNum,
		CategoryID: &setsCategory.ID,
	})
	if err != nil {
		return fmt.Errorf("create set part %s: %w", set.SetNum, err)
	}

	setPart.Assembly = true
	setPart.Purchaseable = true

	if err := si.images.SubmitPartImage(setPart.ID, set.SetImgURL); err != nil {
		return fmt.Errorf("submit set image: %w", err)
	}

	if err := si.inventory.SavePart(setPart); err != nil {
		return fmt.Errorf("save set part %s: %w", set.SetNum, err)
	}

	r := si.newRun()

	partsCategory, _, err := si.inventory.GetOrCreateCategory(CategoryParts, rootCategoryID)
	if err != nil {
		return fmt.Errorf("create %q category: %w", CategoryParts, err)
	}

	err = si.catalog.SetParts(ctx, set.SetNum, func(item rebrickable.SetPart) error {
		return r.importPart(ctx, item, partsCategory, setPart)
	})
	if err != nil {
		return fmt.Errorf("import parts of set %s: %w", set.SetNum, err)
	}

	minifigsCategory, _, err := si.inventory.GetOrCreateCategory(CategoryMinifigs, rootCategoryID)
	if err != nil {
		return fmt.Errorf("create %q category: %w", CategoryMinifigs, err)
	}

	err = si.catalog.SetMinifigs(ctx, set.SetNum, func(item rebrickable.SetMinifig) error {
		return r.importMinifig(item, minifigsCategory, setPart)
	})
	if err != nil {
		return fmt.Errorf("import minifigs of set %s: %w", set.SetNum, err)
	}

	log.Printf("Finished importing LEGO set %s", num)
	return nil
}
