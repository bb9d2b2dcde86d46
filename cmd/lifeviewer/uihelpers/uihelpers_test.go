package uihelpers

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 720},
		{719, 720},
		{720, 720},
		{1600, 1600},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 360 || h > 600 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestComputeNarrativeWidth(t *testing.T) {
	if got := ComputeNarrativeWidth(100); got != 40 {
		t.Fatalf("narrow width => %d want 40", got)
	}
	if got := ComputeNarrativeWidth(1000); got != 138 {
		t.Fatalf("1000px => %d want 138", got)
	}
}

func TestBuildNumericTicksAndFormat(t *testing.T) {
	cases := []struct {
		min, max float64
		n        int
	}{
		{0, 100, 6},
		{0, 1, 5},
		{5, 5.2, 4},
		{-10, 10, 7},
		{68, 82, 6},
	}
	for _, c := range cases {
		vals := BuildNumericTicks(c.min, c.max, c.n)
		if len(vals) < 2 {
			t.Fatalf("expected >=2 ticks for %#v got %v", c, vals)
		}
		if vals[0] > c.min && math.Abs(vals[0]-c.min) > 1e-6 { // allow start below min but not above
			t.Fatalf("first tick %v should not exceed min %v", vals[0], c.min)
		}
		if last := vals[len(vals)-1]; last < c.max && math.Abs(last-c.max) > 1e-6 { // allow end above max but not below
			t.Fatalf("last tick %v should not be below max %v (vals=%v)", last, c.max, vals)
		}
	}
	if BuildNumericTicks(0, 1, 1) != nil {
		t.Fatalf("n<2 should yield no ticks")
	}

	formats := map[float64]string{
		0:        "0",
		123.4:    "123",
		12.34:    "12.3",
		1.234:    "1.23",
		0.1234:   "0.123",
		0.001234: "0.0012",
		20000:    "20k",
		42500:    "42.5k",
		1.3e6:    "1.3M",
		2e9:      "2B",
	}
	for in, want := range formats {
		if got := FormatNumericTick(in); got != want {
			t.Fatalf("format %v => %q want %q", in, got, want)
		}
	}
}

func TestBuildYearTicks(t *testing.T) {
	got := BuildYearTicks(2000, 2015, 20)
	if len(got) != 16 || got[0] != 2000 || got[15] != 2015 {
		t.Fatalf("yearly ticks wrong: %v", got)
	}
	got = BuildYearTicks(2000, 2015, 8)
	if got[0] != 2000 || got[len(got)-1] != 2015 || len(got) > 8 {
		t.Fatalf("stepped ticks wrong: %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("ticks not increasing: %v", got)
		}
	}
	if got := BuildYearTicks(2010, 2010, 5); !reflect.DeepEqual(got, []int{2010}) {
		t.Fatalf("single year => %v", got)
	}
	if got := BuildYearTicks(2015, 2000, 20); got[0] != 2000 {
		t.Fatalf("reversed bounds not normalised: %v", got)
	}
}

func TestBuildLogTicks(t *testing.T) {
	if got := BuildLogTicks(150, 42000); !reflect.DeepEqual(got, []float64{2, 3, 4, 5}) {
		t.Fatalf("log ticks => %v", got)
	}
	if got := BuildLogTicks(100, 100); !reflect.DeepEqual(got, []float64{2, 3}) {
		t.Fatalf("degenerate log ticks => %v", got)
	}
	if BuildLogTicks(0, 10) != nil {
		t.Fatalf("non-positive min should yield nil")
	}
	if got := FormatLogTick(4); got != "10k" {
		t.Fatalf("FormatLogTick(4) => %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := WrapText("the quick brown fox jumps over the lazy dog", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Fatalf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "the quick brown fox jumps over the lazy dog" {
		t.Fatalf("wrap lost words: %v", lines)
	}
	if got := WrapText("supercalifragilistic ok", 5); got[0] != "supercalifragilistic" || got[1] != "ok" {
		t.Fatalf("long word handling: %v", got)
	}
	if WrapText("   ", 10) != nil {
		t.Fatalf("blank text should wrap to nil")
	}
}
