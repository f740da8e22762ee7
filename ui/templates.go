package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"chicuadrado/internal/charts"

	"github.com/gin-gonic/gin"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// md renders a fixed heading or sentence of the page as markdown
		"md": renderMarkdown,
		// chartSrc marks a rendered chart's data URI as a safe image source
		"chartSrc": func(p *charts.Pie) template.URL {
			return template.URL(p.DataURI)
		},
		"fixed2": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
		"pct": func(part, total int) string {
			if total == 0 {
				return "0.0"
			}
			return strconv.FormatFloat(100*float64(part)/float64(total), 'f', 1, 64)
		},
	}
}

// parseTemplates loads every templates/*.html file from assets
func parseTemplates(assets fs.FS) (*template.Template, error) {
	templatesFS, err := fs.Sub(assets, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// renderTemplate executes into a buffer first so a template error never
// leaves a half-written page
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("[Templates] Rendering %s failed: %v", name, err)
		c.String(http.StatusInternalServerError, "Error al generar la página.")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
