package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyStock is the current-quantity projection of one supply. It always equals the
// sum of the supply's movement quantities and is never negative.
type SupplyStock struct {
	SupplyID    int64           `gorm:"column:id_supply;primaryKey;autoIncrement:false" json:"id_supply"`
	StockActual decimal.Decimal `gorm:"column:stock_actual;type:decimal(18,4);not null;default:0" json:"stock_actual"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
	Supply      *Supply         `gorm:"foreignKey:SupplyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (SupplyStock) TableName() string {
	return "supply_stock"
}

// HasEnough reports whether quantity can be issued without going negative.
func (s SupplyStock) HasEnough(quantity decimal.Decimal) bool {
	return s.StockActual.GreaterThanOrEqual(quantity)
}

// IsLow reports whether the stock is at or below threshold.
func (s SupplyStock) IsLow(threshold decimal.Decimal) bool {
	return s.StockActual.LessThanOrEqual(threshold)
}
