package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/stockfolio/internal/models"
)

var slicePalette = []drawing.Color{
	drawing.ColorFromHex("2563eb"), // blue-600
	drawing.ColorFromHex("16a34a"), // green-600
	drawing.ColorFromHex("f59e0b"), // amber-500
	drawing.ColorFromHex("dc2626"), // red-600
	drawing.ColorFromHex("7c3aed"), // violet-600
	drawing.ColorFromHex("0891b2"), // cyan-600
	drawing.ColorFromHex("9ca3af"), // gray-400
}

// RenderAllocationChart renders a PNG pie chart of market value per priced
// holding. Unpriced holdings are left out. Returns raw PNG bytes.
func RenderAllocationChart(holdings []models.Holding) ([]byte, error) {
	var total float64
	values := make([]chart.Value, 0, len(holdings))
	for _, h := range holdings {
		if h.MarketValue == nil || *h.MarketValue <= 0 {
			continue
		}
		total += *h.MarketValue
		values = append(values, chart.Value{Label: h.Symbol, Value: *h.MarketValue})
	}
	if len(values) == 0 {
		return nil, ErrNoPricedHoldings
	}

	for i := range values {
		values[i].Label = fmt.Sprintf("%s %.1f%%", values[i].Label, values[i].Value/total*100)
		values[i].Style = chart.Style{
			FillColor:   slicePalette[i%len(slicePalette)],
			StrokeColor: drawing.ColorWhite,
			StrokeWidth: 1.5,
		}
	}

	pie := chart.PieChart{
		Title:  "Allocation by Market Value",
		Width:  512,
		Height: 512,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
