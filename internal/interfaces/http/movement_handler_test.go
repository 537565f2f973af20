package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labquim/labstock-api/internal/application/catalog"
	"github.com/labquim/labstock-api/internal/application/dto"
	"github.com/labquim/labstock-api/internal/application/ledger"
	"github.com/labquim/labstock-api/internal/application/report"
	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/testutil"
)

// newTestApp arma la app completa sobre el libro en memoria, con el catálogo
// precargado (un producto, dos laboratorios).
func newTestApp() *fiber.App {
	app, _ := newTestAppStore()
	return app
}

// newTestAppStore expone además el libro, para inyectar fallas.
func newTestAppStore() (*fiber.App, *testutil.LedgerStore) {
	store := testutil.NewLedgerStore()
	productRepo := testutil.NewMemProductRepo(&entity.Product{ID: "ACID-01", Name: "Ácido Sulfúrico", Unit: "kg"})
	labRepo := testutil.NewMemLaboratoryRepo(
		&entity.Laboratory{ID: "LAB1", Name: "Laboratorio Central"},
		&entity.Laboratory{ID: "LAB2", Name: "Laboratorio Anexo"},
	)

	app := fiber.New()
	Router(app, RouterDeps{
		RegisterMovement: ledger.NewRegisterMovementUseCase(store, productRepo, labRepo),
		ReverseMovement:  ledger.NewReverseMovementUseCase(store),
		StockQuery:       ledger.NewStockQueryUseCase(store.StockRepo(), store.MovementRepo()),
		Kardex:           report.NewKardexUseCase(store.MovementRepo(), store.StockRepo()),
		ProductUC:        catalog.NewProductUseCase(productRepo, store.MovementRepo()),
		LaboratoryUC:     catalog.NewLaboratoryUseCase(labRepo, store.MovementRepo()),
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", "tester")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type itemsResponse struct {
	Items []dto.MovementResponse `json:"items"`
}

func registerMovement(t *testing.T, app *fiber.App, body dto.RegisterMovementRequest) []dto.MovementResponse {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/api/movements", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decodeJSON[itemsResponse](t, resp).Items
}

func TestMovementEndpointsDeriveStock(t *testing.T) {
	app := newTestApp()

	items := registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "RECEIPT", Quantity: decimal.NewFromInt(100), Unit: "kg",
	})
	require.Len(t, items, 1)
	assert.Equal(t, "RECEIPT", items[0].Kind)
	assert.Equal(t, "tester", items[0].CreatedBy)

	registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "CONSUMPTION", Quantity: decimal.NewFromInt(30), Unit: "kg",
	})

	resp := doJSON(t, app, fiber.MethodGet, "/api/stock?product_id=ACID-01&laboratory_id=LAB1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stock := decodeJSON[dto.StockResponse](t, resp)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(70)), "stock: %s", stock.Quantity)
}

func TestMovementEndpointInsufficientStock(t *testing.T) {
	app := newTestApp()
	registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "RECEIPT", Quantity: decimal.NewFromInt(50), Unit: "kg",
	})

	resp := doJSON(t, app, fiber.MethodPost, "/api/movements", dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "CONSUMPTION", Quantity: decimal.NewFromInt(200), Unit: "kg",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body := decodeJSON[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, "50", body.Available, "la respuesta lleva el stock disponible")
	assert.Equal(t, "200", body.Requested)
}

func TestMovementEndpointValidation(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, fiber.MethodPost, "/api/movements", dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "AJUSTE", Quantity: decimal.NewFromInt(1), Unit: "kg",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/movements", dto.RegisterMovementRequest{
		ProductID: "NOPE-99", LaboratoryID: "LAB1",
		Kind: "RECEIPT", Quantity: decimal.NewFromInt(1), Unit: "kg",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTransferAndReverseEndpoints(t *testing.T) {
	app := newTestApp()
	registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "RECEIPT", Quantity: decimal.NewFromInt(90), Unit: "kg",
	})

	legs := registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1", DestinationLabID: "LAB2",
		Kind: "TRANSFER", Quantity: decimal.NewFromInt(40), Unit: "kg",
	})
	require.Len(t, legs, 2)
	assert.Equal(t, "LAB1", legs[1].OriginLabID)

	resp := doJSON(t, app, fiber.MethodGet, "/api/stock/global", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	global := decodeJSON[dto.StockMapResponse](t, resp)
	assert.True(t, global.Stock["ACID-01"].Equal(decimal.NewFromInt(90)),
		"el traslado no cambia el stock global")

	resp = doJSON(t, app, fiber.MethodGet, "/api/laboratories/LAB2/stock", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	lab2 := decodeJSON[dto.StockMapResponse](t, resp)
	assert.True(t, lab2.Stock["ACID-01"].Equal(decimal.NewFromInt(40)))

	// revertir el traslado desde su pata de salida
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/movements/%s/reverse", legs[0].ID), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	reversed := decodeJSON[itemsResponse](t, resp)
	require.Len(t, reversed.Items, 2)

	// segunda reversa: conflicto
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/movements/%s/reverse", legs[0].ID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// la pata de entrada tampoco se revierte suelta
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/movements/%s/reverse", legs[1].ID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestMovementEndpointConcurrencyConflict(t *testing.T) {
	app, store := newTestAppStore()
	registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "RECEIPT", Quantity: decimal.NewFromInt(50), Unit: "kg",
	})

	// conflictos de serialización en los tres intentos: 503, reintentable
	store.ConflictRuns = 3
	resp := doJSON(t, app, fiber.MethodPost, "/api/movements", dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "CONSUMPTION", Quantity: decimal.NewFromInt(10), Unit: "kg",
	})
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	body := decodeJSON[dto.ErrorResponse](t, resp)
	assert.Equal(t, "CONCURRENCY", body.Code)
	assert.Equal(t, 1, store.Len(), "el consumo en conflicto no tocó el libro")
}

func TestStockEndpointUnknownPairIsZero(t *testing.T) {
	app := newTestApp()

	// par sin filas: agregación vacía, no chequeo de catálogo
	resp := doJSON(t, app, fiber.MethodGet, "/api/stock?product_id=NOPE-99&laboratory_id=LAB9", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stock := decodeJSON[dto.StockResponse](t, resp)
	assert.True(t, stock.Quantity.Equal(decimal.Zero))
}

func TestMovementListAndGet(t *testing.T) {
	app := newTestApp()
	items := registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "RECEIPT", Quantity: decimal.NewFromInt(10), Unit: "kg",
	})
	registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "CONSUMPTION", Quantity: decimal.NewFromInt(3), Unit: "kg",
	})

	resp := doJSON(t, app, fiber.MethodGet, "/api/movements?product_id=ACID-01&kind=CONSUMPTION", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decodeJSON[dto.MovementListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "CONSUMPTION", list.Items[0].Kind)

	// kind acepta un conjunto separado por comas
	registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1", DestinationLabID: "LAB2",
		Kind: "TRANSFER", Quantity: decimal.NewFromInt(2), Unit: "kg",
	})
	resp = doJSON(t, app, fiber.MethodGet, "/api/movements?laboratory_id=LAB1&kind=RECEIPT,CONSUMPTION", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list = decodeJSON[dto.MovementListResponse](t, resp)
	require.Len(t, list.Items, 2, "el conjunto trae recepciones y consumos pero no el traslado")
	assert.Equal(t, "RECEIPT", list.Items[0].Kind)
	assert.Equal(t, "CONSUMPTION", list.Items[1].Kind)

	resp = doJSON(t, app, fiber.MethodGet, "/api/movements?kind=ajuste", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/api/movements?kind=RECEIPT,ajuste", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "un elemento inválido invalida el conjunto")

	resp = doJSON(t, app, fiber.MethodGet, "/api/movements/"+items[0].ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decodeJSON[dto.MovementResponse](t, resp)
	assert.Equal(t, items[0].ID, got.ID)

	resp = doJSON(t, app, fiber.MethodGet, "/api/movements/no-such-id", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestKardexEndpoint(t *testing.T) {
	app := newTestApp()
	registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "RECEIPT", Quantity: decimal.NewFromInt(25), Unit: "kg",
	})

	resp := doJSON(t, app, fiber.MethodGet,
		"/api/reports/kardex?product_id=ACID-01&laboratory_id=LAB1&from=2000-01-01T00:00:00Z&to=2100-01-01T00:00:00Z", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	kardex := decodeJSON[dto.KardexResponse](t, resp)
	require.Len(t, kardex.Entries, 1)
	assert.True(t, kardex.ClosingBalance.Equal(decimal.NewFromInt(25)))

	resp = doJSON(t, app, fiber.MethodGet, "/api/reports/kardex?product_id=ACID-01&laboratory_id=LAB1&from=ayer&to=hoy", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProductEndpoints(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, fiber.MethodPost, "/api/products", dto.CreateProductRequest{
		ID: "etoh-96", Name: "Etanol 96", Unit: "l",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decodeJSON[dto.ProductResponse](t, resp)
	assert.Equal(t, "ETOH-96", created.ID)

	resp = doJSON(t, app, fiber.MethodPost, "/api/products", dto.CreateProductRequest{ID: "ETOH-96", Name: "Otro"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/api/products?q=etanol", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decodeJSON[dto.ProductListResponse](t, resp)
	require.Len(t, list.Items, 1)

	// ACID-01 queda referenciado por el libro: su borrado se rechaza
	registerMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "ACID-01", LaboratoryID: "LAB1",
		Kind: "RECEIPT", Quantity: decimal.NewFromInt(1), Unit: "kg",
	})
	resp = doJSON(t, app, fiber.MethodDelete, "/api/products/ACID-01", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodDelete, "/api/products/ETOH-96", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
