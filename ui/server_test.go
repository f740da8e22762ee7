package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"chicuadrado/internal"
	"chicuadrado/internal/config"
	"chicuadrado/internal/container"
	"chicuadrado/internal/testkit"
	"chicuadrado/ui/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// surveyCSV crosses Sexo and Color into [[10,10,20],[20,20,20]]
func surveyCSV() []byte {
	rows := testkit.Concat(
		testkit.Repeat(10, "F", "Azul", "21"),
		testkit.Repeat(10, "F", "Rojo", "34"),
		testkit.Repeat(20, "F", "Verde", "45"),
		testkit.Repeat(20, "M", "Azul", "23"),
		testkit.Repeat(20, "M", "Rojo", "51"),
		testkit.Repeat(20, "M", "Verde", "38"),
	)
	return testkit.CSV([]string{"Sexo", "Color", "Edad"}, rows)
}

const surveyReport = "Resultados de la Prueba Chi-Cuadrado (Independencia)\n" +
	"Variables analizadas: Sexo y Color\n" +
	"Chi-cuadrado: 2.7778\n" +
	"p-valor: 0.2494\n" +
	"Grados de libertad: 2\n" +
	"Nivel de significancia (alpha): 0.05\n" +
	"Interpretación: No podemos rechazar la hipótesis nula. No existe evidencia suficiente para afirmar una relación significativa entre las variables.\n"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, err := container.New(config.Default(), internal.NewNopLogger())
	require.NoError(t, err)
	s, err := NewServer(c, Assets)
	require.NoError(t, err)
	return s
}

// browser replays the session cookie the way a real one would
type browser struct {
	t      *testing.T
	server *Server
	cookie *http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.server.Handler().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CookieName {
			b.cookie = c
		}
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) upload(filename string, content []byte) *httptest.ResponseRecorder {
	body, contentType := multipartBody(b.t, filename, content, nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	return b.do(req)
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile(uploadField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestIndex_EmptyState(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t)}
	rec := b.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Aplicación de Pruebas de Chi-Cuadrado")
	assert.Contains(t, body, "Por favor, carga un archivo de datos para comenzar.")
	assert.Contains(t, body, "Cargar archivo CSV o Excel")
	assert.NotContains(t, body, "Descargar Reporte (Texto)")
	assert.NotNil(t, b.cookie)
}

func TestUpload_ShowsTableResultAndCharts(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t)}

	rec := b.upload("encuesta.csv", surveyCSV())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	page := b.get("/")
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()

	assert.Contains(t, body, "encuesta.csv (100 filas)")
	assert.Contains(t, body, "Tabla de Contingencia")
	assert.Contains(t, body, "<strong>2.7778</strong>")
	assert.Contains(t, body, "<strong>0.2494</strong>")
	assert.Contains(t, body, "No podemos rechazar la hipótesis nula.")
	assert.Contains(t, body, "Distribución de Sexo")
	assert.Contains(t, body, "Distribución de Color")
	assert.Contains(t, body, "data:image/svg+xml;base64,")
	assert.Contains(t, body, "Descargar Reporte (Texto)")
	// numeric columns are not offered as variables
	assert.NotContains(t, body, `<option value="Edad"`)
}

func TestReport_DownloadIsExact(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t)}
	b.upload("encuesta.csv", surveyCSV())

	rec := b.get("/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="reporte_chi_cuadrado.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, surveyReport, rec.Body.String())
}

func TestReport_WithoutDatasetIsNotFound(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t)}
	rec := b.get("/report")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTheme_ChangesStylingOnly(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t)}
	b.upload("encuesta.csv", surveyCSV())
	before := b.get("/report").Body.String()

	rec := b.postForm("/theme", url.Values{"theme": {"Oscuro"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page := b.get("/").Body.String()
	assert.Contains(t, page, `<body class="theme-dark">`)
	assert.Equal(t, before, b.get("/report").Body.String())
}

func TestSelect_InvalidAlphaKeepsStatistic(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t)}
	b.upload("encuesta.csv", surveyCSV())

	rec := b.postForm("/select", url.Values{
		"kind": {"independencia"}, "var1": {"Sexo"}, "var2": {"Color"}, "alpha": {"abc"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body := b.get("/").Body.String()
	assert.Contains(t, body, "<strong>2.7778</strong>")
	assert.Contains(t, body, "El nivel de significancia (alpha) debe ser un número mayor que 0 y menor que 1.")
	assert.NotContains(t, body, "Descargar Reporte (Texto)")

	assert.Equal(t, http.StatusBadRequest, b.get("/report").Code)
}

func TestSelect_GoodnessOfFit(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t)}
	b.upload("encuesta.csv", surveyCSV())

	b.postForm("/select", url.Values{
		"kind": {"bondad_de_ajuste"}, "var1": {"Color"}, "expected": {"25, 25, 50"}, "alpha": {"0.05"},
	})

	body := b.get("/").Body.String()
	assert.Contains(t, body, "Prueba de Bondad de Ajuste")
	assert.Contains(t, body, "Frecuencias observadas:")
	// Color is 30/30/40 against 25/25/50
	assert.Contains(t, body, "<strong>4.0000</strong>")
	assert.NotContains(t, body, "Distribución de Color")

	report := b.get("/report").Body.String()
	assert.Contains(t, report, "Variables analizadas: Color y N/A\n")
	assert.Contains(t, report, "Grados de libertad: N/A\n")
}

func TestUpload_BadFileShowsFlashOnce(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t)}

	rec := b.upload("notas.txt", []byte("a,b\n1,2\n"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	first := b.get("/").Body.String()
	assert.Contains(t, first, "Formato no soportado")
	assert.Contains(t, first, "Por favor, carga un archivo de datos para comenzar.")

	second := b.get("/").Body.String()
	assert.NotContains(t, second, "Formato no soportado")
}

func TestReset_ForgetsDatasetKeepsTheme(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t)}
	b.upload("encuesta.csv", surveyCSV())
	b.postForm("/theme", url.Values{"theme": {"Oscuro"}})

	rec := b.postForm("/reset", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body := b.get("/").Body.String()
	assert.Contains(t, body, "Por favor, carga un archivo de datos para comenzar.")
	assert.Contains(t, body, `<body class="theme-dark">`)
}

func TestSessions_AreIsolated(t *testing.T) {
	s := newTestServer(t)
	alice := &browser{t: t, server: s}
	bob := &browser{t: t, server: s}

	alice.upload("encuesta.csv", surveyCSV())
	bob.get("/")

	assert.Contains(t, alice.get("/").Body.String(), "Tabla de Contingencia")
	assert.Contains(t, bob.get("/").Body.String(), "Por favor, carga un archivo de datos para comenzar.")
}

func postAPI(t *testing.T, s *Server, filename string, content []byte, fields map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	body, contentType := multipartBody(t, filename, content, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/tests", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func TestAPI_Independence(t *testing.T) {
	s := newTestServer(t)
	rec, resp := postAPI(t, s, "encuesta.csv", surveyCSV(), map[string]string{
		"kind": "independencia", "var1": "Sexo", "var2": "Color",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, surveyReport, resp["report"])
	outcome := resp["outcome"].(map[string]interface{})
	result := outcome["result"].(map[string]interface{})
	assert.InDelta(t, 2.7777777777777777, result["statistic"], 1e-9)
	assert.InDelta(t, 2, result["degrees_of_freedom"], 0)
	assert.Nil(t, resp["error"])
	// no cookie for the stateless endpoint
	assert.Empty(t, rec.Result().Cookies())
}

func TestAPI_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		filename string
		fields   map[string]string
		status   int
		code     string
	}{
		{"missing file", "", map[string]string{"kind": "independencia"}, http.StatusBadRequest, "FILE_PARSE_ERROR"},
		{"unknown kind", "encuesta.csv", map[string]string{"kind": "anova"}, http.StatusBadRequest, "SELECTION_ERROR"},
		{"same column twice", "encuesta.csv", map[string]string{"kind": "independencia", "var1": "Sexo", "var2": "Sexo"}, http.StatusBadRequest, "SELECTION_ERROR"},
		{"expected length mismatch", "encuesta.csv", map[string]string{"kind": "bondad_de_ajuste", "var1": "Color", "expected": "1,2"}, http.StatusBadRequest, "INPUT_FORMAT_ERROR"},
		{"expected sum mismatch", "encuesta.csv", map[string]string{"kind": "bondad_de_ajuste", "var1": "Color", "expected": "1,2,3"}, http.StatusUnprocessableEntity, "STATISTICAL_COMPUTATION_ERROR"},
		{"bad alpha", "encuesta.csv", map[string]string{"kind": "independencia", "var1": "Sexo", "var2": "Color", "alpha": "2"}, http.StatusBadRequest, "INPUT_FORMAT_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var content []byte
			if tt.filename != "" {
				content = surveyCSV()
			}
			rec, resp := postAPI(t, s, tt.filename, content, tt.fields)
			assert.Equal(t, tt.status, rec.Code)
			apiErr := resp["error"].(map[string]interface{})
			assert.Equal(t, tt.code, apiErr["code"])
			assert.NotEmpty(t, apiErr["message"])
		})
	}
}

func TestEscapeMarkdown_KeepsColumnNamesLiteral(t *testing.T) {
	html := string(renderMarkdown("Variables: " + escapeMarkdown("*Sexo*_[x]")))
	assert.Contains(t, html, "*Sexo*_[x]")
	assert.NotContains(t, html, "<em>")
}
