package database

import (
	"supplies-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a GORM DB from a Postgres DSN.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// OpenSQLite opens a SQLite store (file path or ":memory:") for local runs and tests.
// SQLite has no row-level locks, so the pool is limited to one connection and every
// transaction runs serialized.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// AutoMigrate creates or updates the supplies, ledger, projection and catalog tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.SupplyCategory{},
		&domain.SupplyType{},
		&domain.SupplyColor{},
		&domain.UnitOfMeasure{},
		&domain.Supply{},
		&domain.SupplyStock{},
		&domain.SupplyMovement{},
	)
}

// SupplyViews selects supplies joined with catalog labels and current stock, aliased "s".
// A supply without a projection row reads as zero stock.
func SupplyViews(db *gorm.DB) *gorm.DB {
	return db.Table("supplies AS s").
		Select(`s.*,
			sc.name AS color_name,
			st.name AS type_name,
			scat.name AS category_name,
			uom.description AS uom_description,
			COALESCE(ss.stock_actual, 0) AS stock_actual`).
		Joins("LEFT JOIN supply_colors sc ON s.id_supply_color = sc.id_supply_color").
		Joins("LEFT JOIN supply_types st ON s.id_supply_type = st.id_supply_type").
		Joins("LEFT JOIN supply_categories scat ON st.id_supply_category = scat.id_supply_category").
		Joins("LEFT JOIN units_of_measure uom ON s.measuring_uom_id = uom.id_uom").
		Joins("LEFT JOIN supply_stock ss ON s.id_supply = ss.id_supply")
}
