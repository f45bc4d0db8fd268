package supplies

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"supplies-backend/internal/application/stock"
	suppliessvc "supplies-backend/internal/application/supplies"
	"supplies-backend/internal/domain"
	"supplies-backend/internal/infrastructure/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSuppliesTest(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	h := &Handlers{Service: &suppliessvc.Service{DB: db, Stock: &stock.Service{DB: db}}}

	app := fiber.New()
	app.Get("/supplies", h.List)
	app.Post("/supplies", h.Create)
	app.Get("/supplies/:id", h.Get)
	app.Put("/supplies/:id", h.Update)
	app.Delete("/supplies/:id", h.Delete)
	return app, db
}

func call(t *testing.T, app *fiber.App, method, url string, body interface{}) (int, map[string]interface{}) {
	var req = httptest.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestCreateAndGet(t *testing.T) {
	app, _ := setupSuppliesTest(t)

	status, out := call(t, app, "POST", "/supplies", map[string]interface{}{"description": "  Blue Thread "})
	assert.Equal(t, 201, status)
	assert.Equal(t, "success", out["status"])
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "Blue Thread", data["description"])
	assert.Equal(t, "0", data["stock_actual"])
	assert.Equal(t, true, data["active"])

	status, out = call(t, app, "GET", "/supplies/1", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Blue Thread", out["data"].(map[string]interface{})["description"])
}

func TestCreate_Invalid(t *testing.T) {
	app, _ := setupSuppliesTest(t)

	status, out := call(t, app, "POST", "/supplies", map[string]interface{}{"id_supply_color": 0})
	assert.Equal(t, 400, status)
	details := out["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Len(t, details["violations"], 2)

	status, _ = call(t, app, "POST", "/supplies", map[string]interface{}{"description": "   "})
	assert.Equal(t, 400, status)
}

func TestGet_NotFoundAndBadID(t *testing.T) {
	app, _ := setupSuppliesTest(t)
	status, _ := call(t, app, "GET", "/supplies/42", nil)
	assert.Equal(t, 404, status)
	status, _ = call(t, app, "GET", "/supplies/abc", nil)
	assert.Equal(t, 400, status)
}

func TestList_WithFilters(t *testing.T) {
	app, _ := setupSuppliesTest(t)
	call(t, app, "POST", "/supplies", map[string]interface{}{"description": "Red Thread", "id_supply_color": 2})
	call(t, app, "POST", "/supplies", map[string]interface{}{"description": "Blue Thread", "id_supply_color": 1})
	call(t, app, "POST", "/supplies", map[string]interface{}{"description": "Buttons", "id_supply_color": 1})

	status, out := call(t, app, "GET", "/supplies", nil)
	assert.Equal(t, 200, status)
	rows := out["data"].([]interface{})
	require.Len(t, rows, 3)
	assert.Equal(t, "Blue Thread", rows[0].(map[string]interface{})["description"])
	assert.Equal(t, float64(3), out["metadata"].(map[string]interface{})["count"])

	_, out = call(t, app, "GET", "/supplies?description=thread&id_supply_color=1", nil)
	assert.Len(t, out["data"].([]interface{}), 1)

	status, _ = call(t, app, "GET", "/supplies?id_supply_type=x", nil)
	assert.Equal(t, 400, status)
}

func TestUpdate(t *testing.T) {
	app, _ := setupSuppliesTest(t)
	call(t, app, "POST", "/supplies", map[string]interface{}{"description": "Blue Thread"})

	status, out := call(t, app, "PUT", "/supplies/1", map[string]interface{}{"description": "Navy Thread"})
	assert.Equal(t, 200, status)
	assert.Equal(t, "Navy Thread", out["data"].(map[string]interface{})["description"])

	status, _ = call(t, app, "PUT", "/supplies/1", map[string]interface{}{})
	assert.Equal(t, 400, status)

	status, _ = call(t, app, "PUT", "/supplies/1", map[string]interface{}{"active": false})
	assert.Equal(t, 400, status)

	status, _ = call(t, app, "PUT", "/supplies/9", map[string]interface{}{"description": "Ghost"})
	assert.Equal(t, 404, status)
}

func TestDelete(t *testing.T) {
	app, db := setupSuppliesTest(t)
	call(t, app, "POST", "/supplies", map[string]interface{}{"description": "Blue Thread"})
	require.NoError(t, db.Model(&domain.SupplyStock{}).Where("id_supply = ?", 1).Update("stock_actual", 5).Error)

	status, out := call(t, app, "DELETE", "/supplies/1", nil)
	assert.Equal(t, 409, status)
	details := out["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "stock_not_empty", details["code"])

	require.NoError(t, db.Model(&domain.SupplyStock{}).Where("id_supply = ?", 1).Update("stock_actual", 0).Error)
	status, _ = call(t, app, "DELETE", "/supplies/1", nil)
	assert.Equal(t, 200, status)

	status, _ = call(t, app, "GET", "/supplies/1", nil)
	assert.Equal(t, 404, status)
	_, out = call(t, app, "GET", "/supplies", nil)
	assert.Empty(t, out["data"])
}
