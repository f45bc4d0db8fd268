package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"supplies-backend/internal/domain"
	"supplies-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service maintains the per-supply stock projection. Only the ...Tx methods mutate it,
// and only inside a transaction that also appends the matching ledger entry.
type Service struct {
	DB *gorm.DB
}

// Get returns the projection of an active supply. A missing projection is repaired at zero.
func (s *Service) Get(ctx context.Context, supplyID int64) (*domain.SupplyStock, error) {
	var st *domain.SupplyStock
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActiveSupply(tx, supplyID); err != nil {
			return err
		}
		var err error
		st, err = s.loadTx(tx, supplyID, false)
		return err
	})
	if err != nil {
		return nil, domain.Internal(err)
	}
	st.StockActual = st.StockActual.Round(domain.QuantityScale)
	return st, nil
}

// IsLow reports whether the supply's stock is at or below threshold.
func (s *Service) IsLow(ctx context.Context, supplyID int64, threshold decimal.Decimal) (bool, error) {
	st, err := s.Get(ctx, supplyID)
	if err != nil {
		return false, err
	}
	return st.IsLow(threshold), nil
}

// ListLow returns active supplies whose stock is at or below threshold, ascending by
// stock and then description.
func (s *Service) ListLow(ctx context.Context, threshold decimal.Decimal) ([]domain.SupplyView, error) {
	if threshold.IsNegative() {
		var v domain.Violations
		v.Add("threshold", "threshold must be greater than or equal to 0")
		return nil, v.Err()
	}
	var rows []domain.SupplyView
	err := database.SupplyViews(s.DB.WithContext(ctx)).
		Where("s.active = ?", true).
		Where("(ss.stock_actual IS NULL OR ss.stock_actual <= ?)", threshold).
		Order("stock_actual ASC").
		Order("s.description ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("list low stock: %w", err))
	}
	return rows, nil
}

// LockTx loads the projection with a row lock held until tx ends. A missing projection
// is created at zero first.
func (s *Service) LockTx(ctx context.Context, tx *gorm.DB, supplyID int64) (*domain.SupplyStock, error) {
	st, err := s.loadTx(tx.WithContext(ctx), supplyID, true)
	if err != nil {
		return nil, err
	}
	st.StockActual = st.StockActual.Round(domain.QuantityScale)
	return st, nil
}

// ApplyDeltaTx adds delta to the projection inside tx. It fails with a negative_stock
// conflict, leaving the row untouched, when the result would drop below zero.
// The sum is computed here and written as a literal; the update only matches the value
// read under the lock.
func (s *Service) ApplyDeltaTx(ctx context.Context, tx *gorm.DB, supplyID int64, delta decimal.Decimal) (*domain.SupplyStock, error) {
	st, err := s.loadTx(tx.WithContext(ctx), supplyID, true)
	if err != nil {
		return nil, err
	}
	stored := st.StockActual
	current := stored.Round(domain.QuantityScale)
	next := current.Add(delta).Round(domain.QuantityScale)
	if next.IsNegative() {
		return nil, domain.Conflictf(domain.CodeNegativeStock,
			"stock for supply %d cannot go below zero (current %s, change %s)", supplyID, current, delta)
	}

	now := time.Now()
	res := tx.WithContext(ctx).Model(&domain.SupplyStock{}).
		Where("id_supply = ? AND stock_actual = ?", supplyID, stored).
		Updates(map[string]interface{}{
			"stock_actual": next,
			"updated_at":   now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.Conflictf(domain.CodeNegativeStock,
			"stock for supply %d changed while applying %s", supplyID, delta)
	}
	st.StockActual = next
	st.UpdatedAt = now
	return st, nil
}

// ResetTx overwrites the projection with quantity. It is a repair path for projections
// that drifted from the ledger and must be given the ledger sum read under the same lock.
func (s *Service) ResetTx(ctx context.Context, tx *gorm.DB, supplyID int64, quantity decimal.Decimal) error {
	quantity = quantity.Round(domain.QuantityScale)
	if quantity.IsNegative() {
		return domain.Conflictf(domain.CodeNegativeStock, "stock for supply %d cannot be set below zero", supplyID)
	}
	return tx.WithContext(ctx).Model(&domain.SupplyStock{}).
		Where("id_supply = ?", supplyID).
		Updates(map[string]interface{}{"stock_actual": quantity, "updated_at": time.Now()}).Error
}

func (s *Service) loadTx(tx *gorm.DB, supplyID int64, lock bool) (*domain.SupplyStock, error) {
	find := func(st *domain.SupplyStock) error {
		q := tx
		if lock {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		return q.Where("id_supply = ?", supplyID).First(st).Error
	}

	var st domain.SupplyStock
	err := find(&st)
	if err == nil {
		return &st, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load stock: %w", err)
	}

	log.Warn().Int64("supply_id", supplyID).Msg("stock projection missing, initializing at zero")
	repair := domain.SupplyStock{SupplyID: supplyID, StockActual: decimal.Zero, UpdatedAt: time.Now()}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&repair).Error; err != nil {
		return nil, fmt.Errorf("initialize stock: %w", err)
	}
	if err := find(&st); err != nil {
		return nil, fmt.Errorf("load stock: %w", err)
	}
	return &st, nil
}

func requireActiveSupply(tx *gorm.DB, supplyID int64) error {
	var count int64
	if err := tx.Model(&domain.Supply{}).Where("id_supply = ? AND active = ?", supplyID, true).Count(&count).Error; err != nil {
		return fmt.Errorf("load supply: %w", err)
	}
	if count == 0 {
		return domain.NotFoundf("supply %d not found", supplyID)
	}
	return nil
}
