// Package charts draws the marginal-distribution pie charts.
package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"chicuadrado/internal/analysis"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	pieWidth  = 480
	pieHeight = 480
)

// Pie is a rendered chart ready to embed in the page
type Pie struct {
	Title   string
	SVG     []byte
	DataURI string
}

// Title returns the heading used for variable's chart
func Title(variable string) string {
	return fmt.Sprintf("Distribución de %s", variable)
}

// RenderPie draws one slice per category of variable
func RenderPie(variable string, counts []analysis.CategoryCount) (*Pie, error) {
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		values = append(values, chart.Value{Value: float64(c.Count), Label: c.Label})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no values to chart for %q", variable)
	}

	pie := chart.PieChart{
		Title:  Title(variable),
		Width:  pieWidth,
		Height: pieHeight,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render pie chart for %q: %w", variable, err)
	}

	return &Pie{
		Title:   pie.Title,
		SVG:     buf.Bytes(),
		DataURI: DataURI(buf.Bytes()),
	}, nil
}

// DataURI encodes an SVG document for use as an <img> source
func DataURI(svg []byte) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
}
