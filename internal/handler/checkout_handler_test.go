package handler_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go-storefront-api/internal/handler"
	"go-storefront-api/internal/ledger"
	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.Image{}, &model.User{}))
	return db
}

func newCheckoutApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	app := fiber.New()
	app.Post("/api/actualizar-stock", handler.NewCheckoutHandler(ledger.New(db, repository.NewProductRepo(db), nil)).UpdateStock)
	return app, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: decimal.NewFromFloat(19.90), Stock: stock}
	require.NoError(t, db.Create(p).Error)
	return p
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	return resp.StatusCode, payload
}

func TestUpdateStockLegacyNameForm(t *testing.T) {
	app, db := newCheckoutApp(t)
	p := seedProduct(t, db, "navaja clasica", 5)

	status, payload := postJSON(t, app, "/api/actualizar-stock", `[{"nombre":"navaja clasica","cantidad":3}]`)
	assert.Equal(t, 200, status)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "Stock actualizado correctamente.", payload["message"])

	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, 2, got.Stock)
}

func TestUpdateStockIDForm(t *testing.T) {
	app, db := newCheckoutApp(t)
	p := seedProduct(t, db, "navaja clasica", 5)

	status, payload := postJSON(t, app, "/api/actualizar-stock", `[{"producto_id":1,"cantidad":2}]`)
	assert.Equal(t, 200, status)
	assert.Equal(t, true, payload["success"])

	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, 3, got.Stock)
}

func TestUpdateStockInsufficient(t *testing.T) {
	app, db := newCheckoutApp(t)
	seedProduct(t, db, "navaja clasica", 2)

	status, payload := postJSON(t, app, "/api/actualizar-stock", `[{"nombre":"navaja clasica","cantidad":3}]`)
	assert.Equal(t, 400, status)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Stock insuficiente para navaja clasica", payload["error"])
}

func TestUpdateStockUnknownProduct(t *testing.T) {
	app, _ := newCheckoutApp(t)

	status, payload := postJSON(t, app, "/api/actualizar-stock", `[{"nombre":"no existe","cantidad":1}]`)
	assert.Equal(t, 404, status)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Producto no encontrado: no existe", payload["error"])
}

func TestUpdateStockEmptyCart(t *testing.T) {
	app, _ := newCheckoutApp(t)

	status, payload := postJSON(t, app, "/api/actualizar-stock", `[]`)
	assert.Equal(t, 400, status)
	assert.Equal(t, "No se recibió el carrito.", payload["error"])

	status, payload = postJSON(t, app, "/api/actualizar-stock", `{"nombre":"x"}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, false, payload["success"])
}

func TestUpdateStockMixedCartIsAtomic(t *testing.T) {
	app, db := newCheckoutApp(t)
	p1 := seedProduct(t, db, "navaja clasica", 5)
	seedProduct(t, db, "cuchillo de caza", 1)

	status, _ := postJSON(t, app, "/api/actualizar-stock",
		`[{"nombre":"navaja clasica","cantidad":2},{"nombre":"cuchillo de caza","cantidad":4}]`)
	assert.Equal(t, 400, status)

	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", p1.ID).Error)
	assert.Equal(t, 5, got.Stock, "failed cart must not touch any stock")
}
