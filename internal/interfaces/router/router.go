package router

import (
	"supplies-backend/internal/app"
	"supplies-backend/internal/config"
	healthhandler "supplies-backend/internal/interfaces/handlers/health"
	reporthandler "supplies-backend/internal/interfaces/handlers/reports"
	stockhandler "supplies-backend/internal/interfaces/handlers/stock"
	supplyhandler "supplies-backend/internal/interfaces/handlers/supplies"
	"supplies-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const apiPrefix = "/api/inventory"

// NewApp builds the Fiber app with global middleware and every route. rdb may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svc *app.Services) (*fiber.App, error) {
	fapp := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler(rdb),
		EnableTrustedProxyCheck: true,
	})

	fapp.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix:  cfg.CORSOrigin,
		AllowLocalhost: !cfg.IsProduction(),
	}))
	fapp.Use(middleware.Tracing())
	fapp.Use(middleware.HealthMarker(rdb))
	fapp.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb, HealthAdminKey: cfg.HealthAdminKey}
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		hh.DB = sqlDB
	}
	fapp.Get("/health/json", hh.JSON)
	fapp.Get("/health/errors", hh.Errors)
	fapp.Get("/health/reset", hh.Reset)

	api := fapp.Group(apiPrefix)

	sh := &supplyhandler.Handlers{Service: svc.Supplies}
	sg := api.Group("/supplies")
	sg.Get("/", sh.List)
	sg.Post("/", sh.Create)
	sg.Get("/:id", sh.Get)
	sg.Put("/:id", sh.Update)
	sg.Delete("/:id", sh.Delete)

	kh := &stockhandler.Handlers{Ledger: svc.Ledger, Stock: svc.Stock, Movements: svc.Movements}
	sg.Get("/:id/stock", kh.GetStock)
	sg.Post("/:id/stock/add", kh.AddStock)
	sg.Post("/:id/stock/subtract", kh.SubtractStock)
	sg.Get("/:id/movements", kh.History)
	sg.Post("/:id/movements", kh.CreateMovement)

	rh := &reporthandler.Handlers{Stock: svc.Stock, DefaultThreshold: cfg.LowStockThreshold}
	rg := api.Group("/reports")
	rg.Get("/low-stock", rh.LowStock)
	rg.Get("/low-stock/export", rh.LowStockExport)

	return fapp, nil
}
