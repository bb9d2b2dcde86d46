package main

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/ZhiWang-UIUC/Life-Expectancy/cmd/lifeviewer/uihelpers"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/views"
)

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// 5% margin on both sides
	pad := span * 0.05
	a := min - pad
	b := max + pad
	// round to nearest "nice" increments based on span order of magnitude
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates up to n desired tick marks between [min, max] using nice increments.
func niceTicks(min, max float64, n int) []chart.Tick {
	vals := uihelpers.BuildNumericTicks(min, max, n)
	ticks := make([]chart.Tick, 0, len(vals))
	for _, v := range vals {
		ticks = append(ticks, chart.Tick{Value: v, Label: uihelpers.FormatNumericTick(v)})
	}
	return ticks
}

// buildRangeAndTicks turns a view domain into an axis range whose ends sit on the
// outermost ticks, so the domain is always fully visible.
func buildRangeAndTicks(d views.Domain, n int) (*chart.ContinuousRange, []chart.Tick) {
	min, max := d.Min, d.Max
	if d.Span() <= 0 {
		min, max = niceAxisBounds(min, max)
	}
	ticks := niceTicks(min, max, n)
	if len(ticks) < 2 {
		return &chart.ContinuousRange{Min: min, Max: max}, nil
	}
	return &chart.ContinuousRange{Min: ticks[0].Value, Max: ticks[len(ticks)-1].Value}, ticks
}

// buildYearAxis draws whole years only; a single-year domain is widened by half a year.
func buildYearAxis(d views.Domain, n int) (*chart.ContinuousRange, []chart.Tick) {
	lo, hi := int(math.Floor(d.Min)), int(math.Ceil(d.Max))
	r := &chart.ContinuousRange{Min: float64(lo), Max: float64(hi)}
	if hi <= lo {
		r.Min, r.Max = float64(lo)-0.5, float64(lo)+0.5
	}
	var ticks []chart.Tick
	for _, y := range uihelpers.BuildYearTicks(lo, hi, n) {
		ticks = append(ticks, chart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return r, ticks
}

// buildLogAxis returns a range in log10 space with one tick per decade. Series X values
// must be passed through log10 as well.
func buildLogAxis(d views.Domain) (*chart.ContinuousRange, []chart.Tick) {
	exps := uihelpers.BuildLogTicks(d.Min, d.Max)
	if len(exps) < 2 {
		return nil, nil
	}
	ticks := make([]chart.Tick, 0, len(exps))
	for _, e := range exps {
		ticks = append(ticks, chart.Tick{Value: e, Label: uihelpers.FormatLogTick(e)})
	}
	return &chart.ContinuousRange{Min: exps[0], Max: exps[len(exps)-1]}, ticks
}

// segment is a run of consecutive finite points.
type segment struct {
	xs, ys []float64
}

// splitSegments breaks a series at NaN values so gaps render as gaps.
func splitSegments(xs, ys []float64) []segment {
	var out []segment
	var cur segment
	for i := range xs {
		if i >= len(ys) || math.IsNaN(ys[i]) || math.IsNaN(xs[i]) {
			if len(cur.xs) > 0 {
				out = append(out, cur)
				cur = segment{}
			}
			continue
		}
		cur.xs = append(cur.xs, xs[i])
		cur.ys = append(cur.ys, ys[i])
	}
	if len(cur.xs) > 0 {
		out = append(out, cur)
	}
	return out
}

func log10All(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		if v > 0 {
			out[i] = math.Log10(v)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
