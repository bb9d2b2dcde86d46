package uihelpers

import (
	"math"
	"strconv"
	"strings"
)

// ComputeChartDimensions applies width/height clamp rules used for scene charts.
// Input: desired raw width (e.g., canvas width). Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 720 {
		w = 720
	}
	h := int(float32(w) * 0.5)
	if h < 360 {
		h = 360
	}
	if h > 600 {
		h = 600
	}
	return w, h
}

// ComputeNarrativeWidth returns how many characters of narrative fit on one line
// under a chart of width w, using the 7px wide basic font plus margins.
func ComputeNarrativeWidth(w int) int {
	n := (w - 32) / 7
	if n < 40 {
		n = 40
	}
	return n
}

// pow10Floor returns 10^floor(log10(x)) safeguarding tiny values.
func pow10Floor(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Pow(10, math.Floor(math.Log10(x)))
}

// round6 rounds to 6 decimal places to stabilize test comparisons / labels prep.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// BuildNumericTicks generates up to n tick marks spanning [min,max] using the 1,2,2.5,5 pattern.
// Returns slice of raw numeric positions (label formatting left to caller for domain specific units).
func BuildNumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := pow10Floor(span / float64(n-1))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		diff := math.Abs(count - float64(n))
		if diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var out []float64
	for v := start; v <= end+bestStep*0.5; v += bestStep {
		out = append(out, round6(v))
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

// BuildYearTicks returns whole-year ticks inside [min,max] with a step of 1, 2, 5 or 10
// years so that at most n labels are drawn. The last year is always included.
func BuildYearTicks(min, max, n int) []int {
	if max < min {
		min, max = max, min
	}
	if n < 2 {
		n = 2
	}
	step := 1
	for _, s := range []int{1, 2, 5, 10, 20, 50} {
		step = s
		if (max-min)/s+1 <= n {
			break
		}
	}
	var out []int
	for y := min; y <= max; y += step {
		out = append(out, y)
	}
	if out[len(out)-1] != max {
		if len(out) > 1 {
			out[len(out)-1] = max
		} else {
			out = append(out, max)
		}
	}
	return out
}

// BuildLogTicks returns the decade exponents covering [min,max] (both > 0), e.g. 150..42000
// yields 2,3,4,5. Callers place ticks at the exponent and label them 10^e.
func BuildLogTicks(min, max float64) []float64 {
	if min <= 0 || max <= 0 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max < min {
		min, max = max, min
	}
	lo := math.Floor(math.Log10(min))
	hi := math.Ceil(math.Log10(max))
	if hi == lo {
		hi = lo + 1
	}
	var out []float64
	for e := lo; e <= hi; e++ {
		out = append(out, e)
	}
	return out
}

// FormatNumericTick provides a compact label; thousands and millions are abbreviated.
func FormatNumericTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1e9:
		return trimZero(strconv.FormatFloat(v/1e9, 'f', 1, 64)) + "B"
	case av >= 1e6:
		return trimZero(strconv.FormatFloat(v/1e6, 'f', 1, 64)) + "M"
	case av >= 1e4:
		return trimZero(strconv.FormatFloat(v/1e3, 'f', 1, 64)) + "k"
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	case av == 0:
		return "0"
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}

// FormatLogTick labels a decade exponent with its value.
func FormatLogTick(e float64) string { return FormatNumericTick(math.Pow(10, e)) }

func trimZero(s string) string { return strings.TrimSuffix(s, ".0") }

// WrapText splits text into lines of at most width runes, breaking on spaces.
// Words longer than width get a line of their own.
func WrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && len([]rune(cur.String()))+1+len([]rune(w)) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
