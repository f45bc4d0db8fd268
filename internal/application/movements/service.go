package movements

import (
	"context"
	"fmt"

	"supplies-backend/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// Service is the append-only movement ledger.
type Service struct {
	DB *gorm.DB
}

// Page bounds a history window.
type Page struct {
	Limit  int
	Offset int
}

// NewPage applies defaults (limit 50, offset 0) and validates the bounds.
func NewPage(limit, offset *int) (Page, error) {
	p := Page{Limit: DefaultLimit}
	var v domain.Violations
	if limit != nil {
		if *limit < 1 || *limit > MaxLimit {
			v.Add("limit", "limit must be between 1 and 1000")
		}
		p.Limit = *limit
	}
	if offset != nil {
		if *offset < 0 {
			v.Add("offset", "offset must be greater than or equal to 0")
		}
		p.Offset = *offset
	}
	if err := v.Err(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// AppendTx writes m inside tx. It modifies no other row; callers pair it with the
// projection update in the same transaction.
func (s *Service) AppendTx(ctx context.Context, tx *gorm.DB, m *domain.SupplyMovement) error {
	if err := m.Validate().Err(); err != nil {
		return err
	}
	var count int64
	if err := tx.WithContext(ctx).Model(&domain.Supply{}).Where("id_supply = ?", m.SupplyID).Count(&count).Error; err != nil {
		return fmt.Errorf("load supply: %w", err)
	}
	if count == 0 {
		return domain.NotFoundf("supply %d not found", m.SupplyID)
	}
	if err := tx.WithContext(ctx).Omit("Supply").Create(m).Error; err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// History returns the supply's movements newest first, ties broken by most recently
// inserted. Soft-deleted supplies keep their history readable.
func (s *Service) History(ctx context.Context, supplyID int64, page Page) ([]domain.MovementEntry, error) {
	db := s.DB.WithContext(ctx)
	var count int64
	if err := db.Model(&domain.Supply{}).Where("id_supply = ?", supplyID).Count(&count).Error; err != nil {
		return nil, domain.Internal(fmt.Errorf("load supply: %w", err))
	}
	if count == 0 {
		return nil, domain.NotFoundf("supply %d not found", supplyID)
	}

	entries := []domain.MovementEntry{}
	err := db.Table("supply_movements AS sm").
		Select("sm.*, s.description AS supply_description").
		Joins("JOIN supplies s ON sm.id_supply = s.id_supply").
		Where("sm.id_supply = ?", supplyID).
		Order("sm.movement_date DESC").
		Order("sm.id_supply_movement DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Scan(&entries).Error
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("movement history: %w", err))
	}
	return entries, nil
}

// SumTx returns the sum of every movement quantity of the supply, rounded to the
// quantity scale.
func (s *Service) SumTx(ctx context.Context, tx *gorm.DB, supplyID int64) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := tx.WithContext(ctx).Model(&domain.SupplyMovement{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("id_supply = ?", supplyID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return row.Total.Round(domain.QuantityScale), nil
}

// Sums returns the ledger sum of every supply that has at least one movement.
func (s *Service) Sums(ctx context.Context) (map[int64]decimal.Decimal, error) {
	var rows []struct {
		SupplyID int64           `gorm:"column:id_supply"`
		Total    decimal.Decimal `gorm:"column:total"`
	}
	err := s.DB.WithContext(ctx).Model(&domain.SupplyMovement{}).
		Select("id_supply, COALESCE(SUM(quantity), 0) AS total").
		Group("id_supply").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum movements: %w", err)
	}
	out := make(map[int64]decimal.Decimal, len(rows))
	for _, r := range rows {
		out[r.SupplyID] = r.Total.Round(domain.QuantityScale)
	}
	return out, nil
}
