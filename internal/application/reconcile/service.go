package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"supplies-backend/internal/application/movements"
	"supplies-backend/internal/application/stock"
	"supplies-backend/internal/domain"

	"github.com/bsm/redislock"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	LockKey        = "lock:supplies:reconcile"
	DefaultLockTTL = 5 * time.Minute
)

// Service verifies that every stock projection equals the sum of its ledger entries.
type Service struct {
	DB        *gorm.DB
	Movements *movements.Service
	Stock     *stock.Service
	Locker    *redislock.Client
	LockTTL   time.Duration
}

// Discrepancy is one supply whose projection disagrees with its ledger.
type Discrepancy struct {
	SupplyID   int64           `json:"id_supply"`
	Projection decimal.Decimal `json:"projection"`
	LedgerSum  decimal.Decimal `json:"ledger_sum"`
	Missing    bool            `json:"missing"`
	Repaired   bool            `json:"repaired"`
	Error      string          `json:"error,omitempty"`
}

type Report struct {
	Checked       int           `json:"checked"`
	Discrepancies []Discrepancy `json:"discrepancies"`
	Skipped       bool          `json:"skipped"`
}

// Run compares every supply's projection with its ledger sum. Missing projections are
// always created from the ledger; mismatched ones are rewritten only when repair is set.
func (s *Service) Run(ctx context.Context, repair bool) (*Report, error) {
	var rows []struct {
		SupplyID    int64               `gorm:"column:id_supply"`
		StockActual decimal.NullDecimal `gorm:"column:stock_actual"`
	}
	err := s.DB.WithContext(ctx).Table("supplies AS s").
		Select("s.id_supply, ss.stock_actual").
		Joins("LEFT JOIN supply_stock ss ON s.id_supply = ss.id_supply").
		Order("s.id_supply ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("load projections: %w", err))
	}
	sums, err := s.Movements.Sums(ctx)
	if err != nil {
		return nil, domain.Internal(err)
	}

	report := &Report{Checked: len(rows), Discrepancies: []Discrepancy{}}
	for _, row := range rows {
		sum := sums[row.SupplyID]
		missing := !row.StockActual.Valid
		projection := row.StockActual.Decimal.Round(domain.QuantityScale)
		if !missing && projection.Equal(sum) {
			continue
		}
		d := Discrepancy{SupplyID: row.SupplyID, LedgerSum: sum, Missing: missing}
		if !missing {
			d.Projection = projection
		}
		if missing || repair {
			if err := s.repair(ctx, row.SupplyID); err != nil {
				d.Error = err.Error()
				log.Error().Err(err).Int64("supply_id", row.SupplyID).Msg("stock repair failed")
			} else {
				d.Repaired = true
			}
		}
		log.Warn().Int64("supply_id", row.SupplyID).Str("projection", d.Projection.String()).
			Str("ledger_sum", sum.String()).Bool("missing", missing).Bool("repaired", d.Repaired).
			Msg("stock projection out of sync")
		report.Discrepancies = append(report.Discrepancies, d)
	}

	log.Info().Int("checked", report.Checked).Int("discrepancies", len(report.Discrepancies)).Msg("reconcile finished")
	return report, nil
}

// RunLocked runs Run while holding a Redis lock so that only one process reconciles at
// a time. When another holder has the lock the run is skipped. Without a locker the
// run proceeds unguarded.
func (s *Service) RunLocked(ctx context.Context, repair bool) (*Report, error) {
	if s.Locker == nil {
		log.Warn().Msg("redis lock not configured; reconciling without lock")
		return s.Run(ctx, repair)
	}
	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	lock, err := s.Locker.Obtain(ctx, LockKey, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		log.Info().Msg("reconcile already running elsewhere; skipping")
		return &Report{Skipped: true, Discrepancies: []Discrepancy{}}, nil
	}
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("obtain reconcile lock: %w", err))
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Msg("release reconcile lock")
		}
	}()
	return s.Run(ctx, repair)
}

// repair rewrites the projection to the ledger sum, both read under the row lock.
func (s *Service) repair(ctx context.Context, supplyID int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Stock.LockTx(ctx, tx, supplyID); err != nil {
			return err
		}
		sum, err := s.Movements.SumTx(ctx, tx, supplyID)
		if err != nil {
			return err
		}
		return s.Stock.ResetTx(ctx, tx, supplyID, sum)
	})
}
