// Package views derives render-ready view models from the loaded records.
//
// Every function here is pure: same records and parameters in, same ViewModel out.
// Nothing is cached between calls; a ViewModel is built per render and thrown away.
//
// Ordering rules
//   - "first N countries" means first-seen order in the record slice, never sorted.
//   - series are emitted in selection order and each series is sorted by year before any
//     first/last comparison, so deltas do not depend on file order.
//
// Missing values (NaN) are kept in time series (the renderer draws a gap) and dropped from
// scatter views. Empty selections surface as ErrNoData, never as NaN domains.
package views

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/types"
)

// ErrNoData is returned when a filter or grouping leaves nothing to draw.
var ErrNoData = errors.New("no data for this selection")

// Messages shown in place of a chart.
const (
	MessageLoading = "loading data..."
	MessageNoData  = "no data for this selection"
)

// DefaultTopN is how many countries the trend view picks.
const DefaultTopN = 5

// Kind selects the derivation for a scene.
type Kind int

const (
	KindTrend Kind = iota
	KindCountry
	KindScatter
	KindGlobal
	kindCount
)

var kindNames = [kindCount]string{
	KindTrend:   "trend",
	KindCountry: "country",
	KindScatter: "scatter",
	KindGlobal:  "global",
}

// Kinds lists every scene kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a configuration name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, n := range kindNames {
		if n == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Status tells the renderer whether it has a chart to draw.
type Status int

const (
	StatusReady Status = iota
	StatusNotLoaded
	StatusNoData
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusNotLoaded:
		return "not_loaded"
	case StatusNoData:
		return "no_data"
	}
	return "unknown"
}

// Domain is a closed numeric interval for one axis.
type Domain struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Span is Max-Min.
func (d Domain) Span() float64 { return d.Max - d.Min }

// Axis binds a series or annotation to the primary or secondary y-axis.
type Axis int

const (
	AxisPrimary Axis = iota
	AxisSecondary
)

// Series is one drawable group. X and Y are parallel to Rows; Y may hold NaN gaps.
type Series struct {
	Name   string
	Axis   Axis
	Points bool // point cloud instead of a connected line
	Rows   []types.Record
	X      []float64
	Y      []float64
}

// Annotation is a callout anchored at data coordinates (X,Y).
type Annotation struct {
	Title     string
	Label     string
	X, Y      float64
	Axis      Axis
	Target    *types.Record // nil for static notes
	HasDelta  bool
	Delta     float64 // rounded to one decimal
	Direction string
}

// ViewModel is everything the renderer needs for one scene.
type ViewModel struct {
	SceneID   string
	Kind      Kind
	Title     string
	Narrative string

	Status  Status
	Message string

	// Metric is the metric the view plots besides the year or life expectancy axis.
	Metric types.Metric

	Rows   []types.Record
	Series []Series

	X      Domain
	XLabel string
	XYears bool // integer year ticks
	XLog   bool // logarithmic x (values stay in data space)

	Y      Domain
	YLabel string

	Y2      *Domain
	Y2Label string

	Annotations []Annotation

	// Correlation is the Pearson coefficient of a scatter view, NaN elsewhere.
	Correlation float64
}

// Ready reports whether the view carries a chart.
func (v ViewModel) Ready() bool { return v.Status == StatusReady }

// NotLoaded is the placeholder returned before the dataset is available.
func NotLoaded() ViewModel {
	return ViewModel{Status: StatusNotLoaded, Message: MessageLoading, Correlation: math.NaN()}
}

// NoData is the placeholder for an empty selection.
func NoData() ViewModel {
	return ViewModel{Status: StatusNoData, Message: MessageNoData, Correlation: math.NaN()}
}

// Note is a static annotation at a fixed data-space anchor.
type Note struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Label string  `yaml:"label"`
}

// Params is the subset of viewer state a derivation reads.
type Params struct {
	Status  types.Status
	Years   types.YearRange
	Metric  types.Metric
	Country string

	// Countries is the trend selection; nil selects the first TopN countries of Status.
	Countries []string
	// TopN caps the trend selection when Countries is nil; <=0 means DefaultTopN.
	TopN int
	// AllowNegative disables the metric >= 0 support filter on scatter views.
	AllowNegative bool
	// LogX requests a logarithmic x axis on scatter views.
	LogX bool
	Note *Note
}

func (p Params) topN() int {
	if p.TopN <= 0 {
		return DefaultTopN
	}
	return p.TopN
}
