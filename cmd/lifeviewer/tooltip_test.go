package main

import (
	"math"
	"strings"
	"testing"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/types"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/views"
)

func finitePoints(vm views.ViewModel) int {
	n := 0
	for _, s := range vm.Series {
		for i := range s.X {
			if !math.IsNaN(s.X[i]) && !math.IsNaN(s.Y[i]) {
				n++
			}
		}
	}
	return n
}

func TestHitPointsScatterLogAxis(t *testing.T) {
	vm, err := views.Scatter(sampleRows(), views.Params{Metric: types.MetricGDP, LogX: true})
	if err != nil {
		t.Fatalf("scatter: %v", err)
	}
	img, hits := renderSceneHits(vm, 900, 450)
	if len(hits) != finitePoints(vm) || len(hits) == 0 {
		t.Fatalf("got %d hits for %d points", len(hits), finitePoints(vm))
	}
	b := img.Bounds()
	var right hitPoint
	for _, h := range hits {
		if h.X < 0 || h.X > float32(b.Dx()) || h.Y < 0 || h.Y > float32(b.Dy()) {
			t.Fatalf("hit %+v outside image %v", h, b)
		}
		if h.X > right.X {
			right = h
		}
	}
	// A in 2015 has the largest gdp and must sit furthest right
	if !strings.HasPrefix(right.Text, "A (2015)") || !strings.Contains(right.Text, "40000.0") {
		t.Fatalf("rightmost point text = %q", right.Text)
	}
	if !strings.Contains(right.Text, types.MetricLifeExpectancy.Label()+": 80.0") {
		t.Fatalf("tooltip should carry life expectancy: %q", right.Text)
	}
}

func TestHitPointsTrendSkipsGaps(t *testing.T) {
	vm, err := views.Trend(sampleRows(), views.Params{Status: types.StatusDeveloped, Years: types.YearRange{Min: 2000, Max: 2015}})
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	_, hits := renderSceneHits(vm, 900, 450)
	// A has a NaN in 2005: 3 points for A, 2 for B
	if len(hits) != 5 {
		t.Fatalf("expected 5 hits, got %d", len(hits))
	}
	for i := 1; i < 3; i++ {
		if hits[i].X <= hits[i-1].X {
			t.Fatalf("years must map left to right: %+v", hits[:3])
		}
	}
	// 80 is above 70 on screen, so a smaller pixel y
	if hits[2].Y >= hits[0].Y {
		t.Fatalf("higher values should be drawn higher: %+v vs %+v", hits[2], hits[0])
	}
}

func TestHitPointsSecondaryAxis(t *testing.T) {
	vm, err := views.CountryFocus(sampleRows(), views.Params{Years: types.YearRange{Min: 2000, Max: 2015}, Country: "A", Metric: types.MetricGDP})
	if err != nil {
		t.Fatalf("country: %v", err)
	}
	_, hits := renderSceneHits(vm, 900, 450)
	if len(hits) != finitePoints(vm) {
		t.Fatalf("got %d hits for %d points", len(hits), finitePoints(vm))
	}
	var gdp int
	for _, h := range hits {
		if strings.Contains(h.Text, vm.Y2Label+":") {
			gdp++
		}
	}
	if gdp != 4 {
		t.Fatalf("expected 4 secondary-axis tooltips, got %d", gdp)
	}
}

func TestHitPointsPlaceholder(t *testing.T) {
	if _, hits := renderSceneHits(views.NotLoaded(), 800, 400); hits != nil {
		t.Fatalf("placeholder should not have hits")
	}
	if hitPoints(views.NoData(), &plotGeometry{}) != nil {
		t.Fatalf("no-data view should not have hits")
	}
}

func TestNearestHit(t *testing.T) {
	hits := []hitPoint{{X: 10, Y: 10, Text: "a"}, {X: 30, Y: 10, Text: "b"}}
	if h, ok := nearestHit(hits, 27, 12, 12); !ok || h.Text != "b" {
		t.Fatalf("nearest = %+v %v", h, ok)
	}
	if _, ok := nearestHit(hits, 100, 100, 12); ok {
		t.Fatalf("far cursor should not match")
	}
	if _, ok := nearestHit(nil, 0, 0, 12); ok {
		t.Fatalf("empty hits should not match")
	}
}

func TestContainRect(t *testing.T) {
	x, y, s := containRect(200, 100, 400, 400)
	if s != 2 || x != 0 || y != 100 {
		t.Fatalf("containRect = %v %v %v", x, y, s)
	}
	x, y, s = containRect(200, 100, 100, 100)
	if s != 0.5 || x != 0 || y != 25 {
		t.Fatalf("containRect shrink = %v %v %v", x, y, s)
	}
	if _, _, s = containRect(0, 0, 10, 10); s != 1 {
		t.Fatalf("empty image scale = %v", s)
	}
}
