package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ZhiWang-UIUC/Life-Expectancy/cmd/lifeviewer/uihelpers"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/dataset"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/views"
)

const (
	minChartHeight   = 220
	maxAnnotationLen = 40
)

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    2.5,
		DotColor:    col.WithAlpha(160),
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
		DotWidth:    3,
		DotColor:    col,
	}
}

// renderScene draws a view model into a w x h image: the chart on top and the
// narrative, annotations and correlation as a caption underneath.
func renderScene(vm views.ViewModel, w, h int) image.Image {
	img, _ := renderSceneHits(vm, w, h)
	return img
}

// renderSceneHits is renderScene plus the pixel position of every plotted point.
func renderSceneHits(vm views.ViewModel, w, h int) (image.Image, []hitPoint) {
	lines := captionLines(vm, w)
	chartH := h - captionHeight(len(lines))
	if chartH < minChartHeight {
		chartH = minChartHeight
	}
	if !vm.Ready() {
		img := blank(w, chartH)
		drawCentered(img, vm.Message, captionColor)
		if vm.Title != "" {
			return drawCaption(drawHint(img, vm.Title), lines), nil
		}
		return drawCaption(img, lines), nil
	}

	ch := buildChart(vm)
	ch.Width = w
	ch.Height = chartH
	geo := trackGeometry(&ch)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		dataset.Warnf("scene %s: chart render error: %v; showing blank fallback", vm.SceneID, err)
		return drawCaption(drawHint(blank(w, chartH), "chart unavailable: "+err.Error()), lines), nil
	}
	img, err := png.Decode(&buf)
	if err != nil {
		dataset.Warnf("scene %s: chart decode error: %v; showing blank fallback", vm.SceneID, err)
		return drawCaption(blank(w, chartH), lines), nil
	}
	return drawCaption(img, lines), hitPoints(vm, geo)
}

// useLogX reports whether the x axis is drawn in log10 space.
func useLogX(vm views.ViewModel) bool {
	return vm.Kind == views.KindScatter && vm.XLog && vm.X.Min > 0
}

// buildChart maps the view model onto a go-chart chart; size is left to the caller.
func buildChart(vm views.ViewModel) chart.Chart {
	ch := chart.Chart{
		Title:      vm.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
	}

	xLog := useLogX(vm)
	switch {
	case vm.XYears:
		r, ticks := buildYearAxis(vm.X, 12)
		ch.XAxis = chart.XAxis{Name: vm.XLabel, Range: r, Ticks: ticks}
	case xLog:
		r, ticks := buildLogAxis(vm.X)
		ch.XAxis = chart.XAxis{Name: vm.XLabel + " (log scale)", Range: r, Ticks: ticks}
	default:
		r, ticks := buildRangeAndTicks(vm.X, 8)
		ch.XAxis = chart.XAxis{Name: vm.XLabel, Range: r, Ticks: ticks}
	}
	yr, yTicks := buildRangeAndTicks(vm.Y, 7)
	ch.YAxis = chart.YAxis{Name: vm.YLabel, Range: yr, Ticks: yTicks}
	if vm.Y2 != nil {
		r2, t2 := buildRangeAndTicks(*vm.Y2, 7)
		ch.YAxisSecondary = chart.YAxis{Name: vm.Y2Label, Range: r2, Ticks: t2}
	}

	for i, s := range vm.Series {
		col := chart.GetDefaultColor(i)
		xs := s.X
		if xLog {
			xs = log10All(xs)
		}
		yAxis := chart.YAxisPrimary
		if s.Axis == views.AxisSecondary {
			yAxis = chart.YAxisSecondary
		}
		if s.Points {
			// scatter X values are finite by construction; log10 of a non-positive value is
			// dropped by splitSegments
			for _, seg := range splitSegments(xs, s.Y) {
				ch.Series = append(ch.Series, chart.ContinuousSeries{
					Name: s.Name, XValues: seg.xs, YValues: seg.ys, Style: pointStyle(col), YAxis: yAxis,
				})
			}
			continue
		}
		for j, seg := range splitSegments(xs, s.Y) {
			name := s.Name
			if j > 0 {
				name = ""
			}
			ch.Series = append(ch.Series, chart.ContinuousSeries{
				Name: name, XValues: seg.xs, YValues: seg.ys, Style: lineStyle(col), YAxis: yAxis,
			})
		}
	}
	ch.Series = append(ch.Series, annotationSeries(vm, xLog)...)
	if len(vm.Series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch
}

// annotationSeries groups callouts per y axis. Chart labels are shortened; the full
// text goes to the caption.
func annotationSeries(vm views.ViewModel, xLog bool) []chart.Series {
	var primary, secondary []chart.Value2
	for _, a := range vm.Annotations {
		x := a.X
		if xLog {
			if x <= 0 {
				continue
			}
			x = math.Log10(x)
		}
		if math.IsNaN(x) || math.IsNaN(a.Y) {
			continue
		}
		v := chart.Value2{XValue: x, YValue: a.Y, Label: chartLabel(a)}
		if a.Axis == views.AxisSecondary {
			secondary = append(secondary, v)
		} else {
			primary = append(primary, v)
		}
	}
	var out []chart.Series
	if len(primary) > 0 {
		out = append(out, chart.AnnotationSeries{Annotations: primary})
	}
	if len(secondary) > 0 {
		out = append(out, chart.AnnotationSeries{Annotations: secondary, YAxis: chart.YAxisSecondary})
	}
	return out
}

// chartLabel is the short on-chart form of an annotation.
func chartLabel(a views.Annotation) string {
	if a.HasDelta {
		return fmt.Sprintf("%s: %s (%s)", a.Title, views.FormatValue(a.Y), views.FormatSigned(a.Delta))
	}
	return truncate(a.Label, maxAnnotationLen)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// captionLines lays out the narrative, annotation texts and correlation below the chart.
func captionLines(vm views.ViewModel, w int) []string {
	width := uihelpers.ComputeNarrativeWidth(w)
	lines := uihelpers.WrapText(vm.Narrative, width)
	if vm.Status != views.StatusReady {
		return lines
	}
	for _, a := range vm.Annotations {
		for _, l := range uihelpers.WrapText(a.Label, width-4) {
			lines = append(lines, "  "+l)
		}
	}
	if !math.IsNaN(vm.Correlation) {
		lines = append(lines, fmt.Sprintf("  Pearson r = %.2f over %d points", vm.Correlation, len(vm.Rows)))
	}
	return lines
}
