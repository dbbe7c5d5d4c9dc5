package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/bimal-bp/DPR/internal/interfaces/http"
)

const swaggerFile = "../../../docs/swagger.json"

type swaggerDoc struct {
	Paths map[string]map[string]json.RawMessage `json:"paths"`
}

func loadSwagger(t *testing.T) swaggerDoc {
	t.Helper()
	raw, err := os.ReadFile(swaggerFile)
	require.NoError(t, err)
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestMountDocs_SirveDocumento(t *testing.T) {
	app := fiber.New()
	require.NoError(t, apphttp.MountDocs(app, swaggerFile, "DPR API"))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/swagger.json", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "/api/ledger/daily/{date}")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "las demás rutas siguen su curso")
}

func TestMountDocs_ArchivoInexistente(t *testing.T) {
	err := apphttp.MountDocs(fiber.New(), "no-existe/swagger.json", "DPR API")
	assert.Error(t, err)
}

func TestSwagger_CubreTodasLasRutas(t *testing.T) {
	doc := loadSwagger(t)
	app, _ := buildLedgerApp(t)
	param := regexp.MustCompile(`:(\w+)`)

	for _, r := range app.GetRoutes(true) {
		if r.Method != http.MethodGet && r.Method != http.MethodPut {
			continue
		}
		if !strings.HasPrefix(r.Path, "/api") {
			continue
		}
		p := param.ReplaceAllString(strings.TrimRight(r.Path, "/"), "{$1}")
		ops, ok := doc.Paths[p]
		if assert.True(t, ok, "ruta %s sin documentar", p) {
			_, ok = ops[strings.ToLower(r.Method)]
			assert.True(t, ok, "%s %s sin documentar", r.Method, p)
		}
	}
}
