package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimal-bp/DPR/internal/application/dto"
	"github.com/bimal-bp/DPR/internal/application/inventory"
	"github.com/bimal-bp/DPR/internal/application/usecase"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/infrastructure/memory"
	"github.com/bimal-bp/DPR/internal/infrastructure/pdf"
	apphttp "github.com/bimal-bp/DPR/internal/interfaces/http"
	pkgjwt "github.com/bimal-bp/DPR/pkg/jwt"
	"github.com/bimal-bp/DPR/pkg/logger"
)

// buildLedgerApp monta el router completo sobre un store en memoria.
func buildLedgerApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore(0)
	require.NoError(t, store.Seed(
		entity.Product{ID: "p-ms", Name: "MS-AMS", Category: entity.CategoryFinished, Unit: entity.UnitMass},
		entity.Product{ID: "p-coal", Name: "Coal", Category: entity.CategoryRaw, Unit: entity.UnitMass},
		entity.Product{ID: "p-bag", Name: "HDPE Bag", Category: entity.CategoryBag, Unit: entity.UnitCount},
	))
	log := logger.Nop()
	history := inventory.NewHistoryUseCase(store)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC: usecase.NewProductUseCase(store.Products(), 0),
		Resolver:  inventory.NewResolver(store),
		SaveDay:   inventory.NewSaveDayUseCase(store, log),
		DailyView: inventory.NewDailyViewUseCase(store),
		History:   history,
		Report:    inventory.NewReportUseCase(history, pdf.NewMarotoReportGenerator("test"), "Reporte"),
		JWTSecret: testJWTSecret,
		Logger:    log,
	})
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func saveBody(edits map[string]map[string]string) map[string]any {
	return map[string]any{"edits": edits}
}

func TestLedgerAPI_GuardarYConsultarApertura(t *testing.T) {
	app, _ := buildLedgerApp(t)

	resp := call(t, app, http.MethodPut, "/api/ledger/daily/2025-06-20", pkgjwt.RoleOperator,
		saveBody(map[string]map[string]string{"p-ms": {"production": "42.55"}}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	saved := decode[dto.SaveDayResponse](t, resp)
	require.Len(t, saved.Entries, 1)
	assert.Equal(t, "42.55", saved.Entries[0].Closing.String())

	resp = call(t, app, http.MethodGet, "/api/ledger/opening?product_id=p-ms&date=2025-06-21", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	opening := decode[dto.OpeningResponse](t, resp)
	assert.Equal(t, "42.55", opening.Opening.String())
	assert.Equal(t, "2025-06-21", opening.Date)
}

func TestLedgerAPI_GuardarRequiereRolDeEscritura(t *testing.T) {
	app, store := buildLedgerApp(t)

	resp := call(t, app, http.MethodPut, "/api/ledger/daily/2025-06-20", pkgjwt.RoleViewer,
		saveBody(map[string]map[string]string{"p-ms": {"production": "1"}}))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, store.EntryCount())
}

func TestLedgerAPI_ValidacionDevuelve400ConCampo(t *testing.T) {
	app, store := buildLedgerApp(t)

	resp := call(t, app, http.MethodPut, "/api/ledger/daily/2025-06-20", pkgjwt.RoleAdmin,
		saveBody(map[string]map[string]string{
			"p-ms":   {"production": "5"},
			"p-coal": {"used": "-2"},
		}))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "p-coal", body.ProductID)
	assert.Equal(t, "used", body.Field)
	assert.Equal(t, 0, store.EntryCount(), "el lote no se escribe parcialmente")
}

func TestLedgerAPI_FallaDePersistenciaDevuelve503(t *testing.T) {
	app, store := buildLedgerApp(t)
	store.FailUpsertOn("p-ms", io.ErrUnexpectedEOF)

	resp := call(t, app, http.MethodPut, "/api/ledger/daily/2025-06-20", pkgjwt.RoleOperator,
		saveBody(map[string]map[string]string{"p-ms": {"production": "5"}}))
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "PERSISTENCE", body.Code)
}

func TestLedgerAPI_FechaMalFormada(t *testing.T) {
	app, _ := buildLedgerApp(t)

	resp := call(t, app, http.MethodGet, "/api/ledger/daily?date=20-06-2025", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "date", body.Field)
}

func TestLedgerAPI_VistaDiaria(t *testing.T) {
	app, _ := buildLedgerApp(t)

	resp := call(t, app, http.MethodPut, "/api/ledger/daily/2025-06-20", pkgjwt.RoleOperator,
		saveBody(map[string]map[string]string{"p-bag": {"purchase": "250"}}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/ledger/daily?date=2025-06-21&category=bag", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[dto.DailyViewResponse](t, resp)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "HDPE Bag", view.Items[0].ProductName)
	assert.Equal(t, "250", view.Items[0].Opening.String())
	assert.Equal(t, "250", view.Items[0].Total.String())
}

func TestLedgerAPI_HistoriaYPivote(t *testing.T) {
	app, _ := buildLedgerApp(t)
	for _, d := range []string{"2025-06-20", "2025-06-21"} {
		resp := call(t, app, http.MethodPut, "/api/ledger/daily/"+d, pkgjwt.RoleOperator,
			saveBody(map[string]map[string]string{"p-ms": {"production": "10"}}))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := call(t, app, http.MethodGet, "/api/ledger/history?category=finished&start=2025-06-20&end=2025-06-21", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decode[dto.HistoryResponse](t, resp)
	require.Len(t, hist.Rows, 2)
	assert.Equal(t, "2025-06-20", hist.Rows[0].Date)
	assert.Equal(t, "20", hist.Rows[1].Closing.String())

	resp = call(t, app, http.MethodGet, "/api/ledger/history/pivot?category=finished&start=2025-06-20&end=2025-06-21", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pivot := decode[dto.PivotResponse](t, resp)
	assert.Equal(t, []string{"2025-06-20", "2025-06-21"}, pivot.Dates)
	require.Len(t, pivot.Lines, 1)
	assert.Equal(t, "20", pivot.Lines[0].Totals.Production.String())
}

func TestLedgerAPI_RangoInvertidoEs400(t *testing.T) {
	app, _ := buildLedgerApp(t)

	resp := call(t, app, http.MethodGet, "/api/ledger/history?category=raw&start=2025-06-22&end=2025-06-20", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_RANGE", body.Code)
}

func TestLedgerAPI_HistoriaSinCategoriaEs400(t *testing.T) {
	app, _ := buildLedgerApp(t)

	resp := call(t, app, http.MethodGet, "/api/ledger/history?start=2025-06-20&end=2025-06-21", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "category", body.Field)
}

func TestLedgerAPI_ReportePDF(t *testing.T) {
	app, _ := buildLedgerApp(t)

	resp := call(t, app, http.MethodGet, "/api/ledger/history/pdf?category=raw&start=2025-06-20&end=2025-06-21", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, strings.Contains(resp.Header.Get("Content-Disposition"), "stock_raw_2025-06-20_2025-06-21.pdf"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestProductAPI_ListarYObtener(t *testing.T) {
	app, _ := buildLedgerApp(t)

	resp := call(t, app, http.MethodGet, "/api/products?category=raw", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ProductListResponse](t, resp)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Coal", list.Items[0].Name)

	resp = call(t, app, http.MethodGet, "/api/products/no-existe", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_SinTokenEs401(t *testing.T) {
	app, _ := buildLedgerApp(t)

	resp := call(t, app, http.MethodGet, "/api/products", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
