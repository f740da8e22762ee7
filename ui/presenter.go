package ui

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"chicuadrado/app"
	"chicuadrado/domain/dataset"
	"chicuadrado/domain/stats"
	"chicuadrado/internal/charts"
	"chicuadrado/internal/errors"
	"chicuadrado/internal/profiling"
	"chicuadrado/internal/session"
)

const introMarkdown = `Esta aplicación permite realizar diferentes pruebas de Chi-Cuadrado, incluyendo independencia, bondad de ajuste, y homogeneidad.
Puedes cargar tus datos, seleccionar las variables y realizar la prueba de forma interactiva.`

// TableView is a header row plus body rows, with optional row labels
type TableView struct {
	Corner    string
	Headers   []string
	RowLabels []string
	Rows      [][]string
}

// Option is one entry of a select or radio control
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// PageData is everything index.html renders
type PageData struct {
	Title      string
	Intro      template.HTML
	ThemeClass string
	Themes     []Option

	Flash string

	HasDataset bool
	FileName   string
	RowCount   int
	Preview    *TableView
	Summaries  []profiling.ColumnSummary

	Kinds         []Option
	Kind          stats.TestKind
	KindHeading   string
	Columns       []Option
	SecondColumns []Option
	FirstLabel    string
	SecondLabel   string
	TwoWay        bool
	Expected      string
	AlphaText     string

	Observed       *TableView
	ExpectedTable  *TableView
	Result         template.HTML
	Interpretation string
	Error          string
	Charts         []*charts.Pie
	ReportReady    bool
}

// presenter turns a session into page data
type presenter struct {
	service     *app.TestService
	profiler    *profiling.DataProfiler
	previewRows int
}

func (p *presenter) build(ctx context.Context, sess session.Session, flash string) *PageData {
	page := &PageData{
		Title:      "Aplicación de Pruebas de Chi-Cuadrado",
		Intro:      renderMarkdown(introMarkdown),
		ThemeClass: sess.Theme.CSSClass(),
		Themes: []Option{
			{Value: string(session.ThemeLight), Label: string(session.ThemeLight), Selected: sess.Theme != session.ThemeDark},
			{Value: string(session.ThemeDark), Label: string(session.ThemeDark), Selected: sess.Theme == session.ThemeDark},
		},
		Flash: flash,
	}
	if !sess.HasDataset() {
		return page
	}

	ds := sess.Dataset
	page.HasDataset = true
	page.FileName = sess.FileName
	page.RowCount = ds.RowCount
	page.Preview = &TableView{Headers: ds.Headers(), Rows: ds.Head(p.previewRows)}
	page.Summaries = p.profiler.Summarize(ds)

	req := requestFromSelection(ds, sess.Selection)
	p.fillSelectors(page, ds, req, sess.Selection)

	outcome, err := p.service.Run(ctx, ds, req)
	p.fillOutcome(page, outcome)
	if err != nil {
		page.Error = errors.UserMessage(err)
	}
	return page
}

// requestFromSelection turns the stored form values into a test request
func requestFromSelection(ds *dataset.Dataset, sel session.Selection) app.TestRequest {
	kind := sel.Kind
	if kind == "" {
		kind = stats.KindIndependence
	}
	return app.FillDefaults(ds, app.TestRequest{
		Kind:     kind,
		Var1:     sel.Var1,
		Var2:     sel.Var2,
		Expected: sel.Expected,
		Alpha:    app.ParseAlpha(sel.AlphaText),
	})
}

func (p *presenter) fillSelectors(page *PageData, ds *dataset.Dataset, req app.TestRequest, sel session.Selection) {
	page.Kind = req.Kind
	for _, k := range stats.AllKinds() {
		page.Kinds = append(page.Kinds, Option{Value: string(k), Label: k.Label(), Selected: k == req.Kind})
	}
	page.KindHeading = "Prueba de " + req.Kind.Label()
	page.TwoWay = req.Kind != stats.KindGoodnessOfFit
	page.Expected = sel.Expected
	page.AlphaText = sel.AlphaText

	switch req.Kind {
	case stats.KindIndependence:
		page.FirstLabel = "Selecciona la primera variable categórica"
		page.SecondLabel = "Selecciona la segunda variable categórica"
	case stats.KindHomogeneity:
		page.FirstLabel = "Selecciona la variable categórica"
		page.SecondLabel = "Selecciona la variable de grupo"
	default:
		page.FirstLabel = "Selecciona la variable categórica"
	}

	for _, name := range dataset.CategoricalColumns(ds) {
		page.Columns = append(page.Columns, Option{Value: name, Label: name, Selected: name == req.Var1})
		// the second selector never offers the first variable
		if page.TwoWay && name != req.Var1 {
			page.SecondColumns = append(page.SecondColumns, Option{Value: name, Label: name, Selected: name == req.Var2})
		}
	}
}

func (p *presenter) fillOutcome(page *PageData, o *app.Outcome) {
	if o == nil {
		return
	}

	if t := o.Frequencies.Table; t != nil {
		page.Observed = contingencyView(t)
	}
	if v := o.Frequencies.Vector; v != nil {
		page.Observed = frequencyView(v)
	}

	if o.Result != nil {
		page.Result = renderMarkdown(resultMarkdown(o))
		if o.Result.Expected != nil && o.Frequencies.Table != nil {
			page.ExpectedTable = expectedView(o.Frequencies.Table, o.Result.Expected)
		}
	}
	if o.Interpretation != nil {
		page.Interpretation = o.Interpretation.Text
	}
	page.ReportReady = o.Complete()

	for _, d := range o.Charts {
		pie, err := charts.RenderPie(d.Variable, d.Counts)
		if err != nil {
			continue
		}
		page.Charts = append(page.Charts, pie)
	}
}

func resultMarkdown(o *app.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chi-cuadrado: **%.4f**\n\n", o.Result.Statistic)
	fmt.Fprintf(&b, "p-valor: **%.4f**\n\n", o.Result.PValue)
	if o.Result.DegreesOfFreedom != nil {
		fmt.Fprintf(&b, "Grados de libertad: **%d**\n\n", *o.Result.DegreesOfFreedom)
	}
	if o.Result.YatesCorrected {
		b.WriteString("_Con corrección de continuidad de Yates._\n\n")
	}
	vars := escapeMarkdown(o.Var1)
	if o.Var2 != "" {
		vars += " y " + escapeMarkdown(o.Var2)
	}
	fmt.Fprintf(&b, "Variables analizadas: %s\n", vars)
	return b.String()
}

func contingencyView(t *stats.ContingencyTable) *TableView {
	view := &TableView{
		Corner:    t.RowVariable + " \\ " + t.ColVariable,
		Headers:   append(append([]string(nil), t.ColLabels...), "Total"),
		RowLabels: append(append([]string(nil), t.RowLabels...), "Total"),
	}
	rowTotals := t.RowTotals()
	for i, row := range t.Counts {
		cells := make([]string, 0, len(row)+1)
		for _, c := range row {
			cells = append(cells, strconv.Itoa(c))
		}
		view.Rows = append(view.Rows, append(cells, strconv.Itoa(rowTotals[i])))
	}
	footer := make([]string, 0, len(t.ColLabels)+1)
	for _, c := range t.ColTotals() {
		footer = append(footer, strconv.Itoa(c))
	}
	view.Rows = append(view.Rows, append(footer, strconv.Itoa(t.Total())))
	return view
}

func expectedView(t *stats.ContingencyTable, expected [][]float64) *TableView {
	view := &TableView{
		Corner:    t.RowVariable + " \\ " + t.ColVariable,
		Headers:   t.ColLabels,
		RowLabels: t.RowLabels,
	}
	for _, row := range expected {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strconv.FormatFloat(v, 'f', 2, 64)
		}
		view.Rows = append(view.Rows, cells)
	}
	return view
}

func frequencyView(v *stats.FrequencyVector) *TableView {
	view := &TableView{Corner: v.Variable, Headers: []string{"Observadas"}, RowLabels: v.Categories}
	if len(v.Expected) == len(v.Observed) {
		view.Headers = append(view.Headers, "Esperadas")
	}
	for i, c := range v.Observed {
		row := []string{strconv.Itoa(c)}
		if len(v.Expected) == len(v.Observed) {
			row = append(row, strconv.FormatFloat(v.Expected[i], 'f', -1, 64))
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}
