package supplies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"supplies-backend/internal/application/stock"
	"supplies-backend/internal/domain"
	"supplies-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the supply registry.
type Service struct {
	DB    *gorm.DB
	Stock *stock.Service
}

// ListFilter narrows List. Filters apply conjunctively; zero values are ignored.
type ListFilter struct {
	Description string
	TypeID      *int64
	ColorID     *int64
}

// Create persists the supply and its zero stock projection in one transaction.
func (s *Service) Create(ctx context.Context, attrs domain.SupplyAttributes) (*domain.Supply, error) {
	if err := attrs.Validate().Err(); err != nil {
		return nil, err
	}
	supply := attrs.NewSupply()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(supply).Error; err != nil {
			return fmt.Errorf("create supply: %w", err)
		}
		projection := &domain.SupplyStock{SupplyID: supply.ID, StockActual: decimal.Zero, UpdatedAt: time.Now()}
		if err := tx.Omit("Supply").Create(projection).Error; err != nil {
			return fmt.Errorf("initialize stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, domain.Internal(err)
	}
	log.Info().Int64("supply_id", supply.ID).Str("description", supply.Description).Msg("supply created")
	return supply, nil
}

// Get returns an active supply with its labels and current stock.
func (s *Service) Get(ctx context.Context, id int64) (*domain.SupplyView, error) {
	var rows []domain.SupplyView
	err := database.SupplyViews(s.DB.WithContext(ctx)).
		Where("s.id_supply = ? AND s.active = ?", id, true).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("get supply: %w", err))
	}
	if len(rows) == 0 {
		return nil, domain.NotFoundf("supply %d not found", id)
	}
	return &rows[0], nil
}

// List returns active supplies ordered by description.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.SupplyView, error) {
	q := database.SupplyViews(s.DB.WithContext(ctx)).Where("s.active = ?", true)
	if d := strings.TrimSpace(f.Description); d != "" {
		q = q.Where("LOWER(s.description) LIKE ?", "%"+strings.ToLower(d)+"%")
	}
	if f.TypeID != nil {
		q = q.Where("s.id_supply_type = ?", *f.TypeID)
	}
	if f.ColorID != nil {
		q = q.Where("s.id_supply_color = ?", *f.ColorID)
	}
	rows := []domain.SupplyView{}
	if err := q.Order("s.description ASC").Order("s.id_supply ASC").Scan(&rows).Error; err != nil {
		return nil, domain.Internal(fmt.Errorf("list supplies: %w", err))
	}
	return rows, nil
}

// Update applies a validated patch to an active supply.
func (s *Service) Update(ctx context.Context, id int64, patch domain.SupplyPatch) (*domain.Supply, error) {
	if err := patch.Validate().Err(); err != nil {
		return nil, err
	}
	var supply *domain.Supply
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		supply, err = LockActiveTx(ctx, tx, id, LockUpdate)
		if err != nil {
			return err
		}
		patch.Apply(supply)
		return tx.Model(supply).Select("description", "id_supply_color", "id_supply_type", "measuring_uom_id", "updated_at").
			Updates(supply).Error
	})
	if err != nil {
		return nil, domain.Internal(err)
	}
	return supply, nil
}

// SoftDelete deactivates a supply whose stock is exactly zero. The row and its history remain.
func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := LockActiveTx(ctx, tx, id, LockUpdate); err != nil {
			return err
		}
		st, err := s.Stock.LockTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !st.StockActual.IsZero() {
			return domain.Conflictf(domain.CodeStockNotEmpty,
				"cannot delete supply %d with stock on hand (%s)", id, st.StockActual)
		}
		return tx.Model(&domain.Supply{}).Where("id_supply = ?", id).
			Updates(map[string]interface{}{"active": false, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return domain.Internal(err)
	}
	log.Info().Int64("supply_id", id).Msg("supply deactivated")
	return nil
}

// Row lock strengths for LockActiveTx. Movements take a shared lock, SoftDelete an
// exclusive one.
const (
	LockShare  = "SHARE"
	LockUpdate = "UPDATE"
)

// LockActiveTx loads an active supply and locks its row with strength until tx ends.
// A supply deactivated by a transaction that committed while this one waited is NotFound.
func LockActiveTx(ctx context.Context, tx *gorm.DB, id int64, strength string) (*domain.Supply, error) {
	var supply domain.Supply
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: strength}).Where("id_supply = ? AND active = ?", id, true).First(&supply).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundf("supply %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load supply: %w", err)
	}
	return &supply, nil
}
