package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"covidtracker/internal/aggregator"
	"covidtracker/internal/config"
	"covidtracker/internal/errors"
	"covidtracker/pkg/contracts/domain"
)

const (
	panelWidth  = 1280
	panelHeight = 400

	colorCases        = "1f77b4"
	colorDeaths       = "d62728"
	colorVaccinations = "2ca02c"
)

// Renderer draws the chart artifacts from aggregated tables. It never
// mutates its inputs.
type Renderer struct {
	logger        *slog.Logger
	paths         *config.Paths
	topN          int
	rollingWindow int
}

// New creates a renderer.
func New(logger *slog.Logger, paths *config.Paths, cfg config.ChartsConfig) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}

	topN := cfg.TopN
	if topN <= 0 {
		topN = 15
	}
	window := cfg.RollingWindow
	if window <= 0 {
		window = 7
	}

	return &Renderer{
		logger:        logger,
		paths:         paths,
		topN:          topN,
		rollingWindow: window,
	}
}

// GlobalTrends renders the multi-panel global trends figure: rolling means of
// daily new cases, new deaths, and new vaccinations, stacked into a single
// global_trends.png. The vaccination panel is omitted when the series carries
// no vaccination data at all.
func (r *Renderer) GlobalTrends(ctx context.Context, series []domain.GlobalDatapoint) (string, error) {
	if len(series) < 2 {
		return "", errors.NewRenderError("global series too short to chart", nil).
			WithContext("points", len(series))
	}

	dates := make([]time.Time, len(series))
	newCases := make([]float64, len(series))
	newDeaths := make([]float64, len(series))
	newVaccinations := make([]float64, len(series))
	hasVaccinations := false
	for i, p := range series {
		dates[i] = p.Date
		newCases[i] = p.NewCases
		newDeaths[i] = p.NewDeaths
		newVaccinations[i] = p.NewVaccinations
		if p.NewVaccinations > 0 {
			hasVaccinations = true
		}
	}

	panels := []struct {
		title  string
		yName  string
		color  string
		values []float64
	}{
		{fmt.Sprintf("Global Daily New Cases (%d-day average)", r.rollingWindow), "Cases", colorCases, newCases},
		{fmt.Sprintf("Global Daily New Deaths (%d-day average)", r.rollingWindow), "Deaths", colorDeaths, newDeaths},
		{fmt.Sprintf("Global Daily Vaccinations (%d-day average)", r.rollingWindow), "Vaccinations", colorVaccinations, newVaccinations},
	}
	if !hasVaccinations {
		panels = panels[:2]
		r.logger.InfoContext(ctx, "no vaccination data, omitting panel")
	}

	images := make([]image.Image, 0, len(panels))
	for _, panel := range panels {
		img, err := renderLinePanel(panel.title, panel.yName, panel.color, dates,
			aggregator.RollingMean(panel.values, r.rollingWindow))
		if err != nil {
			return "", errors.NewRenderError(
				fmt.Sprintf("failed to render panel %q", panel.title), err)
		}
		images = append(images, img)
	}

	outPath := r.paths.GetOutputPath("global_trends.png")
	if err := writeStacked(outPath, images); err != nil {
		return "", errors.NewRenderError("failed to write global trends figure", err)
	}

	r.logger.InfoContext(ctx, "rendered global trends",
		slog.String("path", outPath),
		slog.Int("panels", len(images)))

	return outPath, nil
}

// CountryComparison renders a bar chart of the top-N countries by the given
// derived metric and returns the written path. Snapshots where the metric is
// undefined are excluded. An unknown metric is a RENDER error; a metric with
// no data at all skips the chart and returns an empty path.
func (r *Renderer) CountryComparison(ctx context.Context, snapshots []domain.CountrySnapshot, metric string) (string, error) {
	if !domain.IsComparisonMetric(metric) {
		return "", errors.NewRenderError(
			fmt.Sprintf("unknown comparison metric %q", metric), nil)
	}

	type entry struct {
		location string
		value    float64
	}
	entries := make([]entry, 0, len(snapshots))
	for _, s := range snapshots {
		if v, ok := s.Metric(metric); ok {
			entries = append(entries, entry{location: s.Location, value: v})
		}
	}

	if len(entries) == 0 {
		r.logger.WarnContext(ctx, "no data for metric, skipping chart",
			slog.String("metric", metric))
		return "", nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value > entries[j].value
	})
	if len(entries) > r.topN {
		entries = entries[:r.topN]
	}

	bars := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		bars = append(bars, chart.Value{Label: e.location, Value: e.value})
	}

	bc := chart.BarChart{
		Title:    fmt.Sprintf("Top %d Countries by %s (%s)", len(bars), metricTitle(metric), metricUnit(metric)),
		Width:    panelWidth,
		Height:   720,
		BarWidth: (panelWidth - 200) / len(bars),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.Style{TextRotationDegrees: 45},
		Bars:  bars,
	}

	outPath := r.paths.GetOutputPath(fmt.Sprintf("country_comparison_%s.png", metric))
	f, err := os.Create(outPath)
	if err != nil {
		return "", errors.NewRenderError("failed to create chart file", err)
	}
	defer f.Close()

	if err := bc.Render(chart.PNG, f); err != nil {
		return "", errors.NewRenderError(
			fmt.Sprintf("failed to render comparison chart for %s", metric), err)
	}

	r.logger.InfoContext(ctx, "rendered country comparison",
		slog.String("metric", metric),
		slog.String("path", outPath),
		slog.Int("countries", len(bars)))

	return outPath, nil
}

// renderLinePanel draws one time-series panel into an image.
func renderLinePanel(title, yName, hexColor string, dates []time.Time, values []float64) (image.Image, error) {
	graph := chart.Chart{
		Title:  title,
		Width:  panelWidth,
		Height: panelHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{Name: yName},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: title,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex(hexColor),
					StrokeWidth: 2.0,
				},
				XValues: dates,
				YValues: values,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// writeStacked composes the panel images vertically into one PNG file.
func writeStacked(path string, images []image.Image) error {
	width, height := 0, 0
	for _, img := range images {
		b := img.Bounds()
		if b.Dx() > width {
			width = b.Dx()
		}
		height += b.Dy()
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	y := 0
	for _, img := range images {
		b := img.Bounds()
		dst := image.Rect(0, y, b.Dx(), y+b.Dy())
		draw.Draw(canvas, dst, img, b.Min, draw.Src)
		y += b.Dy()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, canvas)
}

// metricTitle turns a metric column name into a chart title fragment.
func metricTitle(metric string) string {
	words := strings.Split(metric, "_")
	for i, w := range words {
		if w == "pct" {
			words[i] = "Percent"
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// metricUnit returns the display unit for a metric.
func metricUnit(metric string) string {
	switch {
	case strings.Contains(metric, "per_million"):
		return "per million"
	case strings.HasPrefix(metric, "pct"), strings.Contains(metric, "rate"):
		return "%"
	default:
		return "count"
	}
}
