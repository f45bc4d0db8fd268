package validation

import (
	"encoding/json"
	"strconv"
	"strings"

	"supplies-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ParamID reads a positive integer path parameter.
func ParamID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid(name, name+" must be a positive integer")
	}
	return id, nil
}

// QueryID reads an optional positive integer query parameter.
func QueryID(c *fiber.Ctx, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, invalid(name, name+" must be a positive integer")
	}
	return &id, nil
}

// QueryInt reads an optional integer query parameter; range checks are left to the caller.
func QueryInt(c *fiber.Ctx, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, invalid(name, name+" must be an integer")
	}
	return &n, nil
}

// QueryDecimal reads an optional decimal query parameter, returning def when absent.
func QueryDecimal(c *fiber.Ctx, name string, def decimal.Decimal) (decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid(name, name+" must be a number")
	}
	return d, nil
}

// Body decodes a JSON request body into req and checks its validate tags.
func Body(c *fiber.Ctx, req interface{}) error {
	if len(c.Body()) == 0 {
		return invalid("", "request body is required")
	}
	if err := json.Unmarshal(c.Body(), req); err != nil {
		return invalid("", "invalid request body")
	}
	return Struct(req)
}

func invalid(field, message string) error {
	var v domain.Violations
	v.Add(field, message)
	return v.Err()
}
