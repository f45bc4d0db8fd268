package domain

// Catalog lookups joined into supply reads as labels. They are maintained outside this service.

type SupplyCategory struct {
	ID   int64  `gorm:"column:id_supply_category;primaryKey" json:"id_supply_category"`
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
}

func (SupplyCategory) TableName() string {
	return "supply_categories"
}

type SupplyType struct {
	ID         int64  `gorm:"column:id_supply_type;primaryKey" json:"id_supply_type"`
	Name       string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	CategoryID *int64 `gorm:"column:id_supply_category" json:"id_supply_category"`
}

func (SupplyType) TableName() string {
	return "supply_types"
}

type SupplyColor struct {
	ID   int64  `gorm:"column:id_supply_color;primaryKey" json:"id_supply_color"`
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
}

func (SupplyColor) TableName() string {
	return "supply_colors"
}

type UnitOfMeasure struct {
	ID          int64  `gorm:"column:id_uom;primaryKey" json:"id_uom"`
	Description string `gorm:"column:description;type:varchar(100);not null" json:"description"`
}

func (UnitOfMeasure) TableName() string {
	return "units_of_measure"
}
