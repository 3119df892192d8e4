package importer

import (
	"context"
	"fmt"

	"github.com/mrlokans/brickstock/internal/database/parts"
	"github.com/mrlokans/brickstock/internal/entities"
	"github.com/mrlokans/brickstock/internal/rebrickable"
)

// importPart converts one part-in-set entry into a template part, a
// color variant part and a BOM line attaching the variant to the set.
func (r *run) importPart(ctx context.Context, item rebrickable.SetPart, partsCategory *entities.Category, setPart *entities.Part) error {
	category, err := r.resolveCategory(ctx, item.Part.PartCatID, partsCategory)
	if err != nil {
		return fmt.Errorf("resolve category %d: %w", item.Part.PartCatID, err)
	}

	name, description := splitName(item.Part.Name)

	template, _, err := r.imp.inventory.GetOrCreatePart(parts.PartFields{
		Name:         name,
		Description:  description,
		IPN:          item.Part.PartNum,
		CategoryID:   &category.ID,
		IsTemplate:   true,
		Component:    true,
		Trackable:    true,
		Purchaseable: true,
	})
	if err != nil {
		return fmt.Errorf("create template part %s: %w", item.Part.PartNum, err)
	}

	variantName := name + " " + item.Color.Name
	if item.Color.IsTrans {
		variantName += " Transparent"
	}

	variant, _, err := r.imp.inventory.GetOrCreatePart(parts.PartFields{
		Name:         variantName,
		Description:  description,
		IPN:          fmt.Sprintf("%s-%d", item.Part.PartNum, item.Color.ID),
		CategoryID:   &category.ID,
		Component:    true,
		Trackable:    true,
		Purchaseable: true,
		VariantOfID:  &template.ID,
	})
	if err != nil {
		return fmt.Errorf("create variant part %s-%d: %w", item.Part.PartNum, item.Color.ID, err)
	}

	// Stickers and a few other parts carry no image URL; the enricher
	// treats that as a no-op.
	if err := r.imp.images.SubmitPartImage(variant.ID, item.Part.PartImgURL); err != nil {
		return fmt.Errorf("submit part image: %w", err)
	}

	_, _, err = r.imp.inventory.GetOrCreateBomItem(setPart.ID, variant.ID, item.Quantity, item.IsSpare)
	if err != nil {
		return fmt.Errorf("create BOM item for %s: %w", variant.IPN, err)
	}

	return nil
}

// importMinifig converts one minifigure entry into a single part (no
// template/variant split) and a BOM line attaching it to the set.
func (r *run) importMinifig(item rebrickable.SetMinifig, minifigsCategory *entities.Category, setPart *entities.Part) error {
	name, description := splitName(item.SetName)

	minifig, _, err := r.imp.inventory.GetOrCreatePart(parts.PartFields{
		Name:         name,
		Description:  description,
		IPN:          item.SetNum,
		CategoryID:   &minifigsCategory.ID,
		Component:    true,
		Trackable:    true,
		Purchaseable: true,
	})
	if err != nil {
		return fmt.Errorf("create minifig part %s: %w", item.SetNum, err)
	}

	if err := r.imp.images.SubmitPartImage(minifig.ID, item.SetImgURL); err != nil {
		return fmt.Errorf("submit minifig image: %w", err)
	}

	_, _, err = r.imp.inventory.GetOrCreateBomItem(setPart.ID, minifig.ID, item.Quantity, false)
	if err != nil {
		return fmt.Errorf("create BOM item for %s: %w", minifig.IPN, err)
	}

	return nil
}
