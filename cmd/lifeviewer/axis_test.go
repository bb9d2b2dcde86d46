package main

import (
	"math"
	"testing"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/views"
)

func must(t *testing.T, cond bool, msg string) {
	t.Helper()
	if !cond {
		t.Fatalf("%s", msg)
	}
}

func TestNiceAxisBoundsBrackets(t *testing.T) {
	cases := [][2]float64{{68, 82}, {0, 42000}, {41.3, 89.9}, {5, 5}, {-3, 12}}
	for _, c := range cases {
		lo, hi := niceAxisBounds(c[0], c[1])
		must(t, lo <= c[0], "lower bound above data min")
		must(t, hi >= c[1], "upper bound below data max")
		must(t, hi > lo, "empty axis")
	}
	lo, hi := niceAxisBounds(math.NaN(), 1)
	must(t, math.IsNaN(lo) && hi == 1, "NaN input should pass through")
}

func TestBuildRangeAndTicksCoversDomain(t *testing.T) {
	for _, d := range []views.Domain{{Min: 68, Max: 82}, {Min: 0, Max: 42000}, {Min: 40, Max: 90}, {Min: 70, Max: 70}} {
		r, ticks := buildRangeAndTicks(d, 7)
		must(t, r.Min <= d.Min && r.Max >= d.Max, "range does not cover domain")
		must(t, len(ticks) >= 2, "expected ticks")
		must(t, ticks[0].Value == r.Min && ticks[len(ticks)-1].Value == r.Max, "range should end on ticks")
		for _, tk := range ticks {
			must(t, tk.Label != "", "empty tick label")
		}
	}
}

func TestBuildYearAxis(t *testing.T) {
	r, ticks := buildYearAxis(views.Domain{Min: 2000, Max: 2015}, 12)
	must(t, r.Min == 2000 && r.Max == 2015, "year range should equal domain")
	must(t, ticks[0].Label == "2000", "first year label")
	must(t, ticks[len(ticks)-1].Label == "2015", "last year label")

	r, ticks = buildYearAxis(views.Domain{Min: 2010, Max: 2010}, 12)
	must(t, r.Max-r.Min == 1, "single year should be widened")
	must(t, len(ticks) == 1 && ticks[0].Value == 2010, "single year tick")
}

func TestBuildLogAxis(t *testing.T) {
	r, ticks := buildLogAxis(views.Domain{Min: 150, Max: 42000})
	must(t, r != nil, "expected range")
	must(t, r.Min == 2 && r.Max == 5, "decade range")
	labels := []string{"100", "1000", "10k", "100k"}
	for i, tk := range ticks {
		must(t, tk.Label == labels[i], "log tick label "+tk.Label)
	}
	r, _ = buildLogAxis(views.Domain{Min: 0, Max: 10})
	must(t, r == nil, "non-positive domain has no log axis")
}

func TestSplitSegments(t *testing.T) {
	nan := math.NaN()
	segs := splitSegments([]float64{1, 2, 3, 4, 5, 6}, []float64{10, nan, 30, 40, nan, nan})
	must(t, len(segs) == 2, "expected two segments")
	must(t, len(segs[0].xs) == 1 && segs[0].xs[0] == 1, "first segment")
	must(t, len(segs[1].xs) == 2 && segs[1].ys[1] == 40, "second segment")
	must(t, splitSegments([]float64{1}, []float64{nan}) == nil, "all-NaN series has no segments")
}

func TestLog10All(t *testing.T) {
	out := log10All([]float64{100, 0, -5, 1})
	must(t, math.Abs(out[0]-2) < 1e-12 && out[3] == 0, "log10 values")
	must(t, math.IsNaN(out[1]) && math.IsNaN(out[2]), "non-positive values become NaN")
}

func TestNiceTicksLabels(t *testing.T) {
	ticks := niceTicks(0, 42000, 6)
	var found bool
	for _, tk := range ticks {
		if tk.Value == 20000 {
			found = tk.Label == "20k"
		}
	}
	must(t, found, "expected 20k tick")
	must(t, len(niceTicks(0, 1, 1)) == 0, "n<2 yields no ticks")
}
