package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salidas-api/internal/application/salidas"
	apphttp "github.com/jhoicas/salidas-api/internal/interfaces/http"
)

// Las rutas heredadas del CRUD genérico deben fallar explícito con 501, nunca
// fingir éxito. Los stubs no tocan repos, así que basta un use case vacío.
func TestRutasNoSoportadas_Retornan501(t *testing.T) {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SalidasUC: &salidas.UseCase{},
		JWTSecret: testJWTSecret,
	})

	auth := tokenForRole(t, "admin")
	casos := []struct {
		metodo string
		ruta   string
	}{
		{http.MethodPut, "/api/salidas/abc"},
		{http.MethodPatch, "/api/salidas/abc/completar"},
		{http.MethodDelete, "/api/salidas/abc"},
		{http.MethodPost, "/api/salidas/abc/duplicar"},
		{http.MethodGet, "/api/salidas/reporte"},
	}
	for _, c := range casos {
		req := httptest.NewRequest(c.metodo, c.ruta, nil)
		req.Header.Set("Authorization", auth)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotImplemented, resp.StatusCode,
			"%s %s debe responder 501", c.metodo, c.ruta)
		resp.Body.Close()
	}
}

// Sin token, toda ruta de salidas responde 401 antes de llegar al handler.
func TestRutasSalidas_SinToken_Retornan401(t *testing.T) {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SalidasUC: &salidas.UseCase{},
		JWTSecret: testJWTSecret,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/salidas/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
