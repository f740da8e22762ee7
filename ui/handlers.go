package ui

import (
	"fmt"
	"net/http"
	"strings"

	"chicuadrado/domain/core"
	"chicuadrado/domain/stats"
	"chicuadrado/internal/errors"
	"chicuadrado/internal/report"
	"chicuadrado/internal/session"
	"chicuadrado/ui/middleware"

	"github.com/gin-gonic/gin"
)

const uploadField = "dataset"

// selectionForm is what the test-selection form posts
type selectionForm struct {
	Kind     string `form:"kind"`
	Var1     string `form:"var1"`
	Var2     string `form:"var2"`
	Expected string `form:"expected"`
	Alpha    string `form:"alpha"`
}

// currentSession returns the request's session, or a blank one when it
// expired between the middleware and the handler
func (s *Server) currentSession(c *gin.Context) (core.SessionID, session.Session) {
	id, ok := middleware.SessionID(c)
	if !ok {
		return "", session.Session{Selection: s.sessions.DefaultSelection(), Theme: session.ThemeLight}
	}
	sess, found := s.sessions.Get(id)
	if !found {
		return id, session.Session{ID: id, Selection: s.sessions.DefaultSelection(), Theme: session.ThemeLight}
	}
	return id, sess
}

func (s *Server) redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleIndex(c *gin.Context) {
	id, _ := middleware.SessionID(c)
	flash := s.sessions.TakeFlash(id)
	_, sess := s.currentSession(c)

	page := s.present.build(c.Request.Context(), sess, flash)
	s.renderTemplate(c, http.StatusOK, "index.html", page)
}

func (s *Server) handleUpload(c *gin.Context) {
	id, _ := s.currentSession(c)

	header, err := c.FormFile(uploadField)
	if err != nil {
		s.flash(id, "Seleccione un archivo CSV o Excel para cargar.")
		s.redirectHome(c)
		return
	}

	file, err := header.Open()
	if err != nil {
		s.logger.Error("[Upload] Opening %s failed: %v", header.Filename, err)
		s.flash(id, "No se pudo leer el archivo cargado.")
		s.redirectHome(c)
		return
	}
	defer file.Close()

	ds, err := s.loader.Load(c.Request.Context(), header.Filename, file)
	if err != nil {
		s.logger.Warn("[Upload] %s rejected: %v", header.Filename, err)
		s.flash(id, errors.UserMessage(err))
		s.redirectHome(c)
		return
	}

	_, err = s.sessions.Update(id, func(sess *session.Session) {
		sess.Dataset = ds
		sess.FileName = header.Filename
		// the old columns mean nothing for the new file
		kind, alpha := sess.Selection.Kind, sess.Selection.AlphaText
		sess.Selection = s.sessions.DefaultSelection()
		sess.Selection.Kind = kind
		sess.Selection.AlphaText = alpha
	})
	if err != nil {
		s.logger.Warn("[Upload] Session %s vanished during upload: %v", id, err)
	}
	s.redirectHome(c)
}

func (s *Server) handleSelect(c *gin.Context) {
	id, _ := s.currentSession(c)

	var form selectionForm
	if err := c.ShouldBind(&form); err != nil {
		s.flash(id, "No se pudo leer la selección enviada.")
		s.redirectHome(c)
		return
	}

	kind, err := stats.ParseTestKind(form.Kind)
	if err != nil {
		kind = stats.TestKind(strings.TrimSpace(form.Kind))
	}

	_, _ = s.sessions.Update(id, func(sess *session.Session) {
		sess.Selection = session.Selection{
			Kind:      kind,
			Var1:      form.Var1,
			Var2:      form.Var2,
			Expected:  form.Expected,
			AlphaText: strings.TrimSpace(form.Alpha),
		}
	})
	s.redirectHome(c)
}

func (s *Server) handleTheme(c *gin.Context) {
	id, _ := s.currentSession(c)
	theme := session.ParseTheme(c.PostForm("theme"))
	_, _ = s.sessions.Update(id, func(sess *session.Session) {
		sess.Theme = theme
	})
	s.redirectHome(c)
}

func (s *Server) handleReset(c *gin.Context) {
	id, _ := s.currentSession(c)
	if _, err := s.sessions.Reset(id); err != nil {
		s.logger.Debug("[Reset] %v", err)
	}
	s.redirectHome(c)
}

// handleReport recomputes the current test and serves the text report
func (s *Server) handleReport(c *gin.Context) {
	_, sess := s.currentSession(c)
	if !sess.HasDataset() {
		c.String(http.StatusNotFound, "No hay un reporte disponible: primero cargue un archivo de datos.")
		return
	}

	req := requestFromSelection(sess.Dataset, sess.Selection)
	outcome, err := s.service.Run(c.Request.Context(), sess.Dataset, req)
	data, ok := outcome.ReportData()
	if err != nil || !ok {
		msg := "No hay un reporte disponible para la selección actual."
		if err != nil {
			msg = errors.UserMessage(err)
		}
		c.String(http.StatusBadRequest, msg)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(http.StatusOK, report.ContentType, []byte(report.Build(data)))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) flash(id core.SessionID, msg string) {
	if id.IsEmpty() {
		return
	}
	_, _ = s.sessions.Update(id, func(sess *session.Session) {
		sess.Flash = msg
	})
}
