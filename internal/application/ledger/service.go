package ledger

import (
	"context"
	"time"

	"supplies-backend/internal/application/movements"
	"supplies-backend/internal/application/stock"
	"supplies-backend/internal/application/supplies"
	"supplies-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service applies stock movements: it validates a movement against the current
// projection, appends it to the ledger and updates the projection in one transaction.
type Service struct {
	DB        *gorm.DB
	Movements *movements.Service
	Stock     *stock.Service
	Now       func() time.Time
}

// Result is the accepted movement together with the projection it produced.
type Result struct {
	Movement *domain.SupplyMovement `json:"movement"`
	Stock    *domain.SupplyStock    `json:"stock"`
}

// ReceiveStock records a purchase of quantity units.
func (s *Service) ReceiveStock(ctx context.Context, supplyID int64, quantity decimal.Decimal, note string) (*Result, error) {
	if err := domain.ValidateAmount("quantity", quantity).Err(); err != nil {
		return nil, err
	}
	return s.Apply(ctx, domain.MovementInput{
		SupplyID: supplyID,
		Kind:     domain.MovementPurchase,
		Quantity: quantity.Abs(),
		Notes:    optional(note),
	})
}

// IssueStock records quantity units consumed by production. It fails with an
// insufficient_stock conflict when the projection holds less than quantity.
func (s *Service) IssueStock(ctx context.Context, supplyID int64, quantity decimal.Decimal, note string) (*Result, error) {
	if err := domain.ValidateAmount("quantity", quantity).Err(); err != nil {
		return nil, err
	}
	in := domain.MovementInput{
		SupplyID: supplyID,
		Kind:     domain.MovementIssueToProduction,
		Quantity: quantity.Abs().Neg(),
		Notes:    optional(note),
	}
	return s.apply(ctx, in, func(st *domain.SupplyStock) error {
		if !st.HasEnough(quantity) {
			return domain.Conflictf(domain.CodeInsufficientStock,
				"insufficient stock: available %s, requested %s", st.StockActual, quantity)
		}
		return nil
	})
}

// ReturnStock records quantity units returned to stock.
func (s *Service) ReturnStock(ctx context.Context, supplyID int64, quantity decimal.Decimal, note string) (*Result, error) {
	if err := domain.ValidateAmount("quantity", quantity).Err(); err != nil {
		return nil, err
	}
	return s.Apply(ctx, domain.MovementInput{
		SupplyID: supplyID,
		Kind:     domain.MovementReturn,
		Quantity: quantity.Abs(),
		Notes:    optional(note),
	})
}

// AdjustStock records a manual correction; the sign of delta selects adjustment+ or adjustment-.
func (s *Service) AdjustStock(ctx context.Context, supplyID int64, delta decimal.Decimal, note string) (*Result, error) {
	if err := domain.ValidateAmount("quantity", delta.Abs()).Err(); err != nil {
		return nil, err
	}
	kind := domain.MovementAdjustmentPositive
	if delta.IsNegative() {
		kind = domain.MovementAdjustmentNegative
	}
	return s.Apply(ctx, domain.MovementInput{
		SupplyID: supplyID,
		Kind:     kind,
		Quantity: delta,
		Notes:    optional(note),
	})
}

// Apply runs the movement protocol for any movement kind.
func (s *Service) Apply(ctx context.Context, in domain.MovementInput) (*Result, error) {
	return s.apply(ctx, in, nil)
}

func (s *Service) apply(ctx context.Context, in domain.MovementInput, check func(*domain.SupplyStock) error) (*Result, error) {
	if err := in.Validate().Err(); err != nil {
		return nil, err
	}
	movement := in.Movement(s.now())

	var updated *domain.SupplyStock
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := supplies.LockActiveTx(ctx, tx, in.SupplyID, supplies.LockShare); err != nil {
			return err
		}
		current, err := s.Stock.LockTx(ctx, tx, in.SupplyID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(current); err != nil {
				return err
			}
		}
		if err := s.Movements.AppendTx(ctx, tx, movement); err != nil {
			return err
		}
		updated, err = s.Stock.ApplyDeltaTx(ctx, tx, in.SupplyID, movement.Quantity)
		return err
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			log.Info().Int64("supply_id", in.SupplyID).Str("movement_type", string(in.Kind)).
				Str("quantity", in.Quantity.String()).Str("code", domain.CodeOf(err)).Msg("movement rejected")
		}
		return nil, domain.Internal(err)
	}

	log.Info().Int64("supply_id", in.SupplyID).Int64("movement_id", movement.ID).
		Str("movement_type", string(movement.Kind)).Str("quantity", movement.Quantity.String()).
		Str("stock", updated.StockActual.String()).Msg("movement applied")
	return &Result{Movement: movement, Stock: updated}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func optional(note string) *string {
	if note == "" {
		return nil
	}
	return &note
}
