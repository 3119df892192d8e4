package entities

import (
	"time"
)

// Category is a node in the hierarchical part category tree.
// The (Name, ParentID) pair is the natural key: the parts repository
// never creates two categories with the same name under the same parent.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index:idx_categories_name_parent,unique;size:100" json:"name"`
	ParentID  *uint     `gorm:"index:idx_categories_name_parent,unique" json:"parent_id,omitempty"`
	Parent    *Category `gorm:"foreignKey:ParentID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Part is a single inventory part. Imported LEGO parts come in two
// layers: a color-agnostic template (IPN = Rebrickable part number) and
// color-specific variants (IPN = part number + "-" + color id) pointing
// back at the template via VariantOfID. Sets and minifigures are plain
// parts without the template/variant split.
type Part struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"index;size:100" json:"name"`
	Description string `gorm:"size:250" json:"description,omitempty"`

	// IPN is the natural key used for idempotent upserts. Re-importing
	// the same remote entity always resolves to the same row.
	IPN string `gorm:"column:ipn;uniqueIndex;size:100" json:"ipn"`

	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"-"`

	IsTemplate   bool `json:"is_template"`
	Component    bool `json:"component"`
	Trackable    bool `json:"trackable"`
	Purchaseable bool `json:"purchaseable"`
	Assembly     bool `json:"assembly"`

	VariantOfID *uint `gorm:"index" json:"variant_of,omitempty"`
	VariantOf   *Part `gorm:"foreignKey:VariantOfID" json:"-"`

	// Attached image, stored as-is in the format it was re-encoded to.
	Image     []byte `gorm:"type:blob" json:"-"`
	ImageName string `gorm:"size:100" json:"image_name,omitempty"`

	// Metadata holds free-form JSON attached by external tooling.
	// The clear_metadata maintenance command blanks it.
	Metadata string `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasImage reports whether an image blob is already attached.
func (p *Part) HasImage() bool {
	return len(p.Image) > 0
}

// BomItem records that Quantity units of SubPart belong to Part.
// The upsert key is the full (part, sub_part, quantity, optional)
// combination, so re-importing an identical line never duplicates it.
type BomItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PartID     uint      `gorm:"index" json:"part_id"`
	SubPartID  uint      `gorm:"index" json:"sub_part_id"`
	Quantity   int       `json:"quantity"`
	Optional   bool      `json:"optional"`
	Consumable bool      `json:"consumable"`
	Part       *Part     `gorm:"foreignKey:PartID" json:"-"`
	SubPart    *Part     `gorm:"foreignKey:SubPartID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// PartParameterTemplate names a parameter that parts can carry,
// e.g. stud dimensions. Seeded by the maintenance command.
type PartParameterTemplate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	Units     string    `gorm:"size:25" json:"units,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (Part) TableName() string {
	return "parts"
}

func (BomItem) TableName() string {
	return "bom_items"
}

func (PartParameterTemplate) TableName() string {
	return "part_parameter_templates"
}
