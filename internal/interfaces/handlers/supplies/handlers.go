package supplies

import (
	suppliessvc "supplies-backend/internal/application/supplies"
	"supplies-backend/internal/domain"
	"supplies-backend/internal/pkg/response"
	"supplies-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *suppliessvc.Service
}

type createSupplyRequest struct {
	Description *string `json:"description" validate:"required"`
	ColorID     *int64  `json:"id_supply_color" validate:"omitempty,gt=0"`
	TypeID      *int64  `json:"id_supply_type" validate:"omitempty,gt=0"`
	UomID       *int64  `json:"measuring_uom_id" validate:"omitempty,gt=0"`
}

type updateSupplyRequest struct {
	Description *string `json:"description"`
	ColorID     *int64  `json:"id_supply_color" validate:"omitempty,gt=0"`
	TypeID      *int64  `json:"id_supply_type" validate:"omitempty,gt=0"`
	UomID       *int64  `json:"measuring_uom_id" validate:"omitempty,gt=0"`
	Active      *bool   `json:"active"`
}

// GET /api/inventory/supplies?description=&id_supply_type=&id_supply_color=
func (h *Handlers) List(c *fiber.Ctx) error {
	typeID, err := validation.QueryID(c, "id_supply_type")
	if err != nil {
		return response.FromError(c, err)
	}
	colorID, err := validation.QueryID(c, "id_supply_color")
	if err != nil {
		return response.FromError(c, err)
	}
	rows, err := h.Service.List(c.Context(), suppliessvc.ListFilter{
		Description: c.Query("description"),
		TypeID:      typeID,
		ColorID:     colorID,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Supplies fetched successfully", rows, fiber.Map{"count": len(rows)})
}

// POST /api/inventory/supplies: 201
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req createSupplyRequest
	if err := validation.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	attrs, err := domain.NewSupplyAttributes(*req.Description, req.ColorID, req.TypeID, req.UomID)
	if err != nil {
		return response.FromError(c, err)
	}
	supply, err := h.Service.Create(c.Context(), attrs)
	if err != nil {
		return response.FromError(c, err)
	}
	view, err := h.Service.Get(c.Context(), supply.ID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Supply created successfully", view, nil)
}

// GET /api/inventory/supplies/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := validation.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	view, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Supply fetched successfully", view, nil)
}

// PUT /api/inventory/supplies/:id: partial update; active is not patchable
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := validation.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req updateSupplyRequest
	if err := validation.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if req.Active != nil {
		var v domain.Violations
		v.Add("active", "active cannot be updated; delete the supply instead")
		return response.FromError(c, v.Err())
	}
	patch, err := domain.NewSupplyPatch(req.Description, req.ColorID, req.TypeID, req.UomID)
	if err != nil {
		return response.FromError(c, err)
	}
	if _, err := h.Service.Update(c.Context(), id, patch); err != nil {
		return response.FromError(c, err)
	}
	view, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Supply updated successfully", view, nil)
}

// DELETE /api/inventory/supplies/:id: soft delete, only with zero stock
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := validation.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.SoftDelete(c.Context(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Supply deleted successfully", fiber.Map{"id_supply": id}, nil)
}
