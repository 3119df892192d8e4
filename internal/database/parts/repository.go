// Package parts provides database operations for categories, parts and
// bills of materials.
//
// Every GetOrCreate* method is an idempotent upsert keyed by the natural
// key of its entity: calling it twice with the same key returns the same
// row both times and reports whether the row was created.
package parts

import (
	"gorm.io/gorm"

	"github.com/mrlokans/brickstock/internal/entities"
)

// Repository handles all part inventory database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new parts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PartFields holds the creation attributes for a part upsert.
// IPN is the natural key; the remaining fields only apply when the
// part does not exist yet.
type PartFields struct {
	Name         string
	Description  string
	IPN          string
	CategoryID   *uint
	IsTemplate   bool
	Component    bool
	Trackable    bool
	Purchaseable bool
	Assembly     bool
	VariantOfID  *uint
}

// GetOrCreateCategory upserts a category keyed by (name, parent).
func (r *Repository) GetOrCreateCategory(name string, parentID *uint) (*entities.Category, bool, error) {
	var category entities.Category

	query := r.db.Where("name = ?", name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	err := query.First(&category).Error
	if err == gorm.ErrRecordNotFound {
		category = entities.Category{Name: name, ParentID: parentID}
		if err := r.db.Create(&category).Error; err != nil {
			return nil, false, err
		}
		return &category, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &category, false, nil
}

// GetCategoryByID retrieves a category by primary key.
func (r *Repository) GetCategoryByID(id uint) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetOrCreatePart upserts a part keyed by IPN.
func (r *Repository) GetOrCreatePart(fields PartFields) (*entities.Part, bool, error) {
	var part entities.Part
	err := r.db.Where("ipn = ?", fields.IPN).First(&part).Error
	if err == gorm.ErrRecordNotFound {
		part = entities.Part{
			Name:         fields.Name,
			Description:  fields.Description,
			IPN:          fields.IPN,
			CategoryID:   fields.CategoryID,
			IsTemplate:   fields.IsTemplate,
			Component:    fields.Component,
			Trackable:    fields.Trackable,
			Purchaseable: fields.Purchaseable,
			Assembly:     fields.Assembly,
			VariantOfID:  fields.VariantOfID,
		}
		if err := r.db.Create(&part).Error; err != nil {
			return nil, false, err
		}
		return &part, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &part, false, nil
}

// GetPartByID retrieves a part by primary key.
func (r *Repository) GetPartByID(id uint) (*entities.Part, error) {
	var part entities.Part
	if err := r.db.First(&part, id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// GetPartByIPN retrieves a part by its natural key.
func (r *Repository) GetPartByIPN(ipn string) (*entities.Part, error) {
	var part entities.Part
	if err := r.db.Where("ipn = ?", ipn).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// SavePart persists in-place modifications to a part.
func (r *Repository) SavePart(part *entities.Part) error {
	return r.db.Save(part).Error
}

// GetOrCreateBomItem upserts a BOM line keyed by the full
// (part, sub_part, quantity, optional) combination.
func (r *Repository) GetOrCreateBomItem(partID, subPartID uint, quantity int, optional bool) (*entities.BomItem, bool, error) {
	var item entities.BomItem
	err := r.db.
		Where("part_id = ? AND sub_part_id = ? AND quantity = ? AND optional = ?",
			partID, subPartID, quantity, optional).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		item = entities.BomItem{
			PartID:     partID,
			SubPartID:  subPartID,
			Quantity:   quantity,
			Optional:   optional,
			Consumable: false,
		}
		if err := r.db.Create(&item).Error; err != nil {
			return nil, false, err
		}
		return &item, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &item, false, nil
}

// GetBomItemsForPart returns all BOM lines under a parent part,
// in insertion order.
func (r *Repository) GetBomItemsForPart(partID uint) ([]entities.BomItem, error) {
	var items []entities.BomItem
	err := r.db.Where("part_id = ?", partID).Order("id").Find(&items).Error
	return items, err
}

// AttachPartImage stores an image blob and filename on a part.
func (r *Repository) AttachPartImage(partID uint, filename string, data []byte) error {
	return r.db.Model(&entities.Part{}).
		Where("id = ?", partID).
		Updates(map[string]any{"image": data, "image_name": filename}).Error
}

// ListAssemblyIPNs returns the natural keys of all assembly parts,
// i.e. the sets that have been imported so far.
func (r *Repository) ListAssemblyIPNs() ([]string, error) {
	var ipns []string
	err := r.db.Model(&entities.Part{}).
		Where("assembly = ? AND ipn != ''", true).
		Order("ipn").
		Pluck("ipn", &ipns).Error
	return ipns, err
}

// GetOrCreateParameterTemplate upserts a parameter template by name.
func (r *Repository) GetOrCreateParameterTemplate(name, units string) (*entities.PartParameterTemplate, bool, error) {
	var tmpl entities.PartParameterTemplate
	err := r.db.Where("name = ?", name).First(&tmpl).Error
	if err == gorm.ErrRecordNotFound {
		tmpl = entities.PartParameterTemplate{Name: name, Units: units}
		if err := r.db.Create(&tmpl).Error; err != nil {
			return nil, false, err
		}
		return &tmpl, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &tmpl, false, nil
}

// ClearMetadata blanks the metadata column on every part and reports
// how many rows were touched.
func (r *Repository) ClearMetadata() (int64, error) {
	result := r.db.Model(&entities.Part{}).
		Where("metadata != ''").
		Update("metadata", "")
	return result.RowsAffected, result.Error
}
