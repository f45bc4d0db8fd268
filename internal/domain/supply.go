package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const MaxDescriptionLength = 200

// Supply is a trackable inventory item. Rows are never physically deleted; soft delete
// flips Active to false.
type Supply struct {
	ID          int64     `gorm:"column:id_supply;primaryKey;autoIncrement" json:"id_supply"`
	Description string    `gorm:"column:description;type:varchar(200);not null" json:"description"`
	Active      bool      `gorm:"column:active;not null;default:true" json:"active"`
	ColorID     *int64    `gorm:"column:id_supply_color" json:"id_supply_color"`
	TypeID      *int64    `gorm:"column:id_supply_type" json:"id_supply_type"`
	UomID       *int64    `gorm:"column:measuring_uom_id" json:"measuring_uom_id"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Supply) TableName() string {
	return "supplies"
}

// SupplyView is a supply joined with its catalog labels and current stock.
type SupplyView struct {
	Supply
	ColorName      *string         `gorm:"column:color_name" json:"color_name"`
	TypeName       *string         `gorm:"column:type_name" json:"type_name"`
	CategoryName   *string         `gorm:"column:category_name" json:"category_name"`
	UomDescription *string         `gorm:"column:uom_description" json:"uom_description"`
	StockActual    decimal.Decimal `gorm:"column:stock_actual" json:"stock_actual"`
}

// SupplyAttributes are the validated attributes of a new supply.
type SupplyAttributes struct {
	Description string
	ColorID     *int64
	TypeID      *int64
	UomID       *int64
}

// NewSupplyAttributes trims and validates the attributes, returning every violation found.
func NewSupplyAttributes(description string, colorID, typeID, uomID *int64) (SupplyAttributes, error) {
	attrs := SupplyAttributes{
		Description: strings.TrimSpace(description),
		ColorID:     colorID,
		TypeID:      typeID,
		UomID:       uomID,
	}
	if err := attrs.Validate().Err(); err != nil {
		return SupplyAttributes{}, err
	}
	return attrs, nil
}

func (a SupplyAttributes) Validate() Violations {
	var v Violations
	validateDescription(&v, a.Description)
	validateRef(&v, "id_supply_color", a.ColorID)
	validateRef(&v, "id_supply_type", a.TypeID)
	validateRef(&v, "measuring_uom_id", a.UomID)
	return v
}

// NewSupply returns an active, not yet persisted supply.
func (a SupplyAttributes) NewSupply() *Supply {
	return &Supply{
		Description: a.Description,
		Active:      true,
		ColorID:     a.ColorID,
		TypeID:      a.TypeID,
		UomID:       a.UomID,
	}
}

// SupplyPatch is a partial update. Nil fields are left untouched. Identity and the
// active flag are not patchable.
type SupplyPatch struct {
	Description *string
	ColorID     *int64
	TypeID      *int64
	UomID       *int64
}

// NewSupplyPatch validates every present field and rejects an empty patch.
func NewSupplyPatch(description *string, colorID, typeID, uomID *int64) (SupplyPatch, error) {
	p := SupplyPatch{ColorID: colorID, TypeID: typeID, UomID: uomID}
	if description != nil {
		d := strings.TrimSpace(*description)
		p.Description = &d
	}
	if err := p.Validate().Err(); err != nil {
		return SupplyPatch{}, err
	}
	return p, nil
}

func (p SupplyPatch) IsEmpty() bool {
	return p.Description == nil && p.ColorID == nil && p.TypeID == nil && p.UomID == nil
}

func (p SupplyPatch) Validate() Violations {
	var v Violations
	if p.IsEmpty() {
		v.Add("", "at least one field must be provided")
		return v
	}
	if p.Description != nil {
		validateDescription(&v, *p.Description)
	}
	validateRef(&v, "id_supply_color", p.ColorID)
	validateRef(&v, "id_supply_type", p.TypeID)
	validateRef(&v, "measuring_uom_id", p.UomID)
	return v
}

// Apply copies the present fields onto s.
func (p SupplyPatch) Apply(s *Supply) {
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.ColorID != nil {
		s.ColorID = p.ColorID
	}
	if p.TypeID != nil {
		s.TypeID = p.TypeID
	}
	if p.UomID != nil {
		s.UomID = p.UomID
	}
}

func validateDescription(v *Violations, description string) {
	switch {
	case strings.TrimSpace(description) == "":
		v.Add("description", "description is required")
	case utf8.RuneCountInString(description) > MaxDescriptionLength:
		v.Add("description", "description cannot exceed 200 characters")
	}
}

func validateRef(v *Violations, field string, id *int64) {
	if id != nil && *id <= 0 {
		v.Add(field, field+" must be a positive integer")
	}
}
