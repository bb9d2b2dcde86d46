package views

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/types"
)

// trendPad keeps points off the plot edge.
const trendPad = 2.0

// Fixed life expectancy axis for dual-metric charts.
var lifeExpectancyBounds = Domain{Min: 40, Max: 90}

// secondaryHeadroom scales the secondary axis maximum.
const secondaryHeadroom = 1.05

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func finiteOnly(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if finite(v) {
			out = append(out, v)
		}
	}
	return out
}

// Extent returns the tight [min,max] over finite values, ErrNoData when there are none.
func Extent(vs []float64) (Domain, error) {
	f := finiteOnly(vs)
	if len(f) == 0 {
		return Domain{}, ErrNoData
	}
	return Domain{Min: floats.Min(f), Max: floats.Max(f)}, nil
}

// PaddedExtent widens Extent by pad on both sides.
func PaddedExtent(vs []float64, pad float64) (Domain, error) {
	d, err := Extent(vs)
	if err != nil {
		return d, err
	}
	return Domain{Min: d.Min - pad, Max: d.Max + pad}, nil
}

// Mean is the arithmetic mean of finite values, ErrNoData when there are none.
func Mean(vs []float64) (float64, error) {
	f := finiteOnly(vs)
	if len(f) == 0 {
		return math.NaN(), ErrNoData
	}
	return stat.Mean(f, nil), nil
}

// YearMean is one point of the global aggregate series.
type YearMean struct {
	Year  int
	Mean  float64
	Count int
}

// YearlyMeans groups rows by year and averages the metric over non-missing values.
// Years without any finite value are omitted. Output is sorted by year.
func YearlyMeans(rows []types.Record, m types.Metric) []YearMean {
	byYear := map[int][]float64{}
	for _, r := range rows {
		v := r.Value(m)
		if !finite(v) {
			continue
		}
		byYear[r.Year] = append(byYear[r.Year], v)
	}
	keys := make([]int, 0, len(byYear))
	for y := range byYear {
		keys = append(keys, y)
	}
	sort.Ints(keys)
	out := make([]YearMean, 0, len(keys))
	for _, y := range keys {
		vs := byYear[y]
		mean, _ := Mean(vs) // vs holds at least one finite value
		out = append(out, YearMean{Year: y, Mean: mean, Count: len(vs)})
	}
	return out
}

// Change is the first-to-last comparison over a chronologically sorted series.
type Change struct {
	First, Last         float64
	FirstIdx, LastIdx   int
	FirstYear, LastYear int
	Delta               float64 // rounded to one decimal
}

// ChangeOver finds the first and last finite values of ys. rows must already be sorted by year
// and parallel to ys.
func ChangeOver(rows []types.Record, ys []float64) (Change, error) {
	c := Change{FirstIdx: -1, LastIdx: -1}
	for i, v := range ys {
		if !finite(v) {
			continue
		}
		if c.FirstIdx < 0 {
			c.FirstIdx = i
		}
		c.LastIdx = i
	}
	if c.FirstIdx < 0 {
		return c, ErrNoData
	}
	c.First, c.Last = ys[c.FirstIdx], ys[c.LastIdx]
	c.FirstYear, c.LastYear = rows[c.FirstIdx].Year, rows[c.LastIdx].Year
	c.Delta = round1(c.Last - c.First)
	return c, nil
}

// Direction picks the verb for a rounded delta.
func Direction(delta float64, up, down string) string {
	switch {
	case delta > 0:
		return up
	case delta < 0:
		return down
	}
	return "unchanged"
}

func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}

// FormatValue renders a value with one decimal.
func FormatValue(v float64) string {
	if !finite(v) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(1)
}

// FormatSigned renders a delta with an explicit sign, e.g. "+10.0".
func FormatSigned(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(1)
	if s[0] == '-' {
		return s
	}
	return "+" + s
}

func withUnit(s string, m types.Metric) string {
	if u := m.Unit(); u != "" {
		return s + " " + u
	}
	return s
}

// sortByYear returns a year-sorted copy; ties keep input order.
func sortByYear(rows []types.Record) []types.Record {
	out := append([]types.Record(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func column(rows []types.Record, m types.Metric) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Value(m)
	}
	return out
}

func years(rows []types.Record) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = float64(r.Year)
	}
	return out
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func nan() float64 { return math.NaN() }
