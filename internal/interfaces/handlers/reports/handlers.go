package reports

import (
	"time"

	reportsvc "supplies-backend/internal/application/reports"
	stocksvc "supplies-backend/internal/application/stock"
	"supplies-backend/internal/pkg/response"
	"supplies-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Stock            *stocksvc.Service
	DefaultThreshold decimal.Decimal
}

// GET /api/inventory/reports/low-stock?threshold=
func (h *Handlers) LowStock(c *fiber.Ctx) error {
	threshold, err := validation.QueryDecimal(c, "threshold", h.DefaultThreshold)
	if err != nil {
		return response.FromError(c, err)
	}
	rows, err := h.Stock.ListLow(c.Context(), threshold)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Low stock report generated successfully", rows, fiber.Map{
		"count":     len(rows),
		"threshold": threshold,
	})
}

// GET /api/inventory/reports/low-stock/export?threshold=: .xlsx attachment
func (h *Handlers) LowStockExport(c *fiber.Ctx) error {
	threshold, err := validation.QueryDecimal(c, "threshold", h.DefaultThreshold)
	if err != nil {
		return response.FromError(c, err)
	}
	rows, err := h.Stock.ListLow(c.Context(), threshold)
	if err != nil {
		return response.FromError(c, err)
	}
	f, err := reportsvc.LowStockWorkbook(rows, threshold)
	if err != nil {
		return response.FromError(c, err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return response.FromError(c, err)
	}
	c.Attachment(reportsvc.Filename(time.Now().Format("2006-01-02")))
	c.Set(fiber.HeaderContentType, reportsvc.ContentType)
	return c.Send(buf.Bytes())
}
