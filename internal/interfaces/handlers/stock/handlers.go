package stock

import (
	"time"

	"supplies-backend/internal/application/ledger"
	"supplies-backend/internal/application/movements"
	stocksvc "supplies-backend/internal/application/stock"
	"supplies-backend/internal/domain"
	"supplies-backend/internal/pkg/response"
	"supplies-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Ledger    *ledger.Service
	Stock     *stocksvc.Service
	Movements *movements.Service
}

type quantityRequest struct {
	Quantity *decimal.Decimal `json:"quantity" validate:"required"`
	Notes    *string          `json:"notes" validate:"omitempty,max=1000"`
}

type movementRequest struct {
	Kind         string           `json:"movement_type" validate:"required"`
	Quantity     *decimal.Decimal `json:"quantity" validate:"required"`
	MovementDate *time.Time       `json:"movement_date"`
	RefTable     *string          `json:"ref_table"`
	RefID        *int64           `json:"ref_id"`
	Notes        *string          `json:"notes" validate:"omitempty,max=1000"`
}

// GET /api/inventory/supplies/:id/stock
func (h *Handlers) GetStock(c *fiber.Ctx) error {
	id, err := validation.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	st, err := h.Stock.Get(c.Context(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Stock fetched successfully", st, nil)
}

// POST /api/inventory/supplies/:id/stock/add: body { quantity, notes }
func (h *Handlers) AddStock(c *fiber.Ctx) error {
	id, req, err := parseQuantity(c)
	if err != nil {
		return response.FromError(c, err)
	}
	res, err := h.Ledger.ReceiveStock(c.Context(), id, *req.Quantity, deref(req.Notes))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Stock added successfully", res, nil)
}

// POST /api/inventory/supplies/:id/stock/subtract: body { quantity, notes }; 409 when stock is short
func (h *Handlers) SubtractStock(c *fiber.Ctx) error {
	id, req, err := parseQuantity(c)
	if err != nil {
		return response.FromError(c, err)
	}
	res, err := h.Ledger.IssueStock(c.Context(), id, *req.Quantity, deref(req.Notes))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Stock subtracted successfully", res, nil)
}

// GET /api/inventory/supplies/:id/movements?limit=&offset=
func (h *Handlers) History(c *fiber.Ctx) error {
	id, err := validation.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	limit, err := validation.QueryInt(c, "limit")
	if err != nil {
		return response.FromError(c, err)
	}
	offset, err := validation.QueryInt(c, "offset")
	if err != nil {
		return response.FromError(c, err)
	}
	page, err := movements.NewPage(limit, offset)
	if err != nil {
		return response.FromError(c, err)
	}
	entries, err := h.Movements.History(c.Context(), id, page)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Movement history fetched successfully", entries, fiber.Map{
		"count":  len(entries),
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// POST /api/inventory/supplies/:id/movements: any movement kind, signed quantity
func (h *Handlers) CreateMovement(c *fiber.Ctx) error {
	id, err := validation.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req movementRequest
	if err := validation.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	res, err := h.Ledger.Apply(c.Context(), domain.MovementInput{
		SupplyID: id,
		Kind:     domain.MovementKind(req.Kind),
		Quantity: *req.Quantity,
		Date:     req.MovementDate,
		RefTable: req.RefTable,
		RefID:    req.RefID,
		Notes:    req.Notes,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Movement recorded successfully", res, nil)
}

func parseQuantity(c *fiber.Ctx) (int64, quantityRequest, error) {
	var req quantityRequest
	id, err := validation.ParamID(c, "id")
	if err != nil {
		return 0, req, err
	}
	if err := validation.Body(c, &req); err != nil {
		return 0, req, err
	}
	return id, req, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
