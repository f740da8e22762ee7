package ui

import (
	"net/http"

	"chicuadrado/app"
	"chicuadrado/domain/stats"
	"chicuadrado/internal/errors"
	"chicuadrado/internal/report"

	"github.com/gin-gonic/gin"
)

// apiError is the error body of the JSON API
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// apiResponse is the body of POST /api/tests. Outcome is present whenever a
// file was parsed, even if a later step failed.
type apiResponse struct {
	Outcome *app.Outcome `json:"outcome,omitempty"`
	Report  string       `json:"report,omitempty"`
	Error   *apiError    `json:"error,omitempty"`
}

func (s *Server) respondAPIError(c *gin.Context, err error, outcome *app.Outcome) {
	c.JSON(errors.HTTPStatus(err), apiResponse{
		Outcome: outcome,
		Error:   &apiError{Code: errors.GetCode(err), Message: errors.UserMessage(err)},
	})
}

// handleAPITest runs one test against an uploaded file without touching any session
func (s *Server) handleAPITest(c *gin.Context) {
	var form selectionForm
	if err := c.ShouldBind(&form); err != nil {
		s.respondAPIError(c, errors.InputFormatError("No se pudieron leer los campos enviados."), nil)
		return
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		s.respondAPIError(c, errors.FileParseError("Falta el archivo de datos (campo \"dataset\").", err), nil)
		return
	}
	file, err := header.Open()
	if err != nil {
		s.respondAPIError(c, errors.FileParseError("No se pudo leer el archivo cargado.", err), nil)
		return
	}
	defer file.Close()

	ds, err := s.loader.Load(c.Request.Context(), header.Filename, file)
	if err != nil {
		s.respondAPIError(c, err, nil)
		return
	}

	kind, err := stats.ParseTestKind(form.Kind)
	if err != nil {
		s.respondAPIError(c, errors.SelectionError("Tipo de prueba desconocido: use independencia, bondad_de_ajuste u homogeneidad."), nil)
		return
	}

	alpha := s.config.Analysis.DefaultAlpha
	if form.Alpha != "" {
		alpha = app.ParseAlpha(form.Alpha)
	}

	req := app.TestRequest{Kind: kind, Var1: form.Var1, Var2: form.Var2, Expected: form.Expected, Alpha: alpha}
	outcome, err := s.service.Run(c.Request.Context(), ds, req)
	if err != nil {
		s.respondAPIError(c, err, outcome)
		return
	}

	data, _ := outcome.ReportData()
	c.JSON(http.StatusOK, apiResponse{Outcome: outcome, Report: report.Build(data)})
}
