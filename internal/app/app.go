package app

import (
	"supplies-backend/internal/application/ledger"
	"supplies-backend/internal/application/movements"
	"supplies-backend/internal/application/reconcile"
	"supplies-backend/internal/application/stock"
	"supplies-backend/internal/application/supplies"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services wires the stock ledger services over one database. Both binaries build it.
type Services struct {
	Supplies  *supplies.Service
	Stock     *stock.Service
	Movements *movements.Service
	Ledger    *ledger.Service
	Reconcile *reconcile.Service
}

// NewServices builds the services. rdb is optional; without it the reconcile job runs unlocked.
func NewServices(db *gorm.DB, rdb *redis.Client) *Services {
	st := &stock.Service{DB: db}
	mv := &movements.Service{DB: db}
	rec := &reconcile.Service{DB: db, Movements: mv, Stock: st, LockTTL: reconcile.DefaultLockTTL}
	if rdb != nil {
		rec.Locker = redislock.New(rdb)
	}
	return &Services{
		Supplies:  &supplies.Service{DB: db, Stock: st},
		Stock:     st,
		Movements: mv,
		Ledger:    &ledger.Service{DB: db, Movements: mv, Stock: st},
		Reconcile: rec,
	}
}
