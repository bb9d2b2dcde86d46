package views

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/types"
)

// SelectCountries returns up to n distinct countries matching status, in first-seen order.
func SelectCountries(rows []types.Record, status types.Status, n int) []string {
	if n <= 0 {
		return nil
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, n)
	for _, r := range rows {
		if !status.Matches(r.Status) {
			continue
		}
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
		if len(out) == n {
			break
		}
	}
	return out
}

// SecondaryFor resolves the metric paired with life expectancy on a dual-axis chart:
// m when it is one of types.SecondaryMetrics, GDP otherwise.
func SecondaryFor(m types.Metric) types.Metric {
	if m.Secondary() {
		return m
	}
	return types.MetricGDP
}

// ScatterFor resolves the x metric of a scatter view; life expectancy against itself
// falls back to GDP.
func ScatterFor(m types.Metric) types.Metric {
	if m == "" || m == types.MetricLifeExpectancy {
		return types.MetricGDP
	}
	return m
}

// Trend derives the multi-country line chart for p.Countries (or the first N countries
// of the status), restricted to the year range, one series per country.
func Trend(rows []types.Record, p Params) (ViewModel, error) {
	metric := p.Metric
	if metric == "" {
		metric = types.MetricLifeExpectancy
	}
	countries := p.Countries
	if countries == nil {
		countries = SelectCountries(rows, p.Status, p.topN())
	}
	selected := make(map[string]int, len(countries))
	for i, c := range countries {
		selected[c] = i
	}
	groups := make([][]types.Record, len(countries))
	var filtered []types.Record
	for _, r := range rows {
		i, ok := selected[r.Country]
		if !ok || !p.Years.Contains(r.Year) {
			continue
		}
		filtered = append(filtered, r)
		groups[i] = append(groups[i], r)
	}
	if len(filtered) == 0 {
		return NoData(), errors.Wrapf(ErrNoData, "trend %s %d-%d", p.Status, p.Years.Min, p.Years.Max)
	}
	y, err := PaddedExtent(column(filtered, metric), trendPad)
	if err != nil {
		return NoData(), errors.Wrapf(err, "trend %s has no %s values", p.Status, metric)
	}

	vm := ViewModel{
		Kind:        KindTrend,
		Status:      StatusReady,
		Metric:      metric,
		Rows:        filtered,
		X:           Domain{Min: float64(p.Years.Min), Max: float64(p.Years.Max)},
		XLabel:      "Year",
		XYears:      true,
		Y:           y,
		YLabel:      metric.Label(),
		Correlation: nan(),
	}
	for i, c := range countries {
		g := sortByYear(groups[i])
		if len(g) == 0 {
			continue
		}
		s := Series{Name: c, Rows: g, X: years(g), Y: column(g, metric)}
		vm.Series = append(vm.Series, s)
		ch, err := ChangeOver(g, s.Y)
		if err != nil {
			continue // all values missing; line renders as a gap
		}
		last := g[ch.LastIdx]
		dir := Direction(ch.Delta, "increased", "decreased")
		vm.Annotations = append(vm.Annotations, Annotation{
			Title: c,
			Label: fmt.Sprintf("%s in %d: %s (%s since %d, %s)",
				metric.Label(), last.Year, FormatValue(ch.Last),
				withUnit(FormatSigned(ch.Delta), metric), ch.FirstYear, dir),
			X:         float64(last.Year),
			Y:         ch.Last,
			Target:    &last,
			HasDelta:  true,
			Delta:     ch.Delta,
			Direction: dir,
		})
	}
	return vm, nil
}

// CountryFocus derives the dual-axis chart for one country: life expectancy on the
// primary axis (fixed bounds) and a second metric whose axis spans the whole dataset
// so scenes stay comparable when the country changes.
func CountryFocus(rows []types.Record, p Params) (ViewModel, error) {
	if p.Country == "" {
		return NoData(), errors.Wrap(ErrNoData, "no country selected")
	}
	metric := SecondaryFor(p.Metric)
	var filtered []types.Record
	for _, r := range rows {
		if r.Country == p.Country && p.Years.Contains(r.Year) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return NoData(), errors.Wrapf(ErrNoData, "country %q %d-%d", p.Country, p.Years.Min, p.Years.Max)
	}
	filtered = sortByYear(filtered)

	all, err := Extent(column(rows, metric))
	if err != nil {
		return NoData(), errors.Wrapf(err, "dataset has no %s values", metric)
	}
	y2 := Domain{Min: all.Min, Max: all.Max * secondaryHeadroom}
	if y2.Min > 0 {
		y2.Min = 0
	}
	if y2.Max <= y2.Min {
		y2.Max = y2.Min + 1
	}

	le := column(filtered, types.MetricLifeExpectancy)
	y := lifeExpectancyBounds
	if ext, err := Extent(le); err == nil {
		if ext.Min < y.Min {
			y.Min = ext.Min
		}
		if ext.Max > y.Max {
			y.Max = ext.Max
		}
	}

	xs := years(filtered)
	mv := column(filtered, metric)
	vm := ViewModel{
		Kind:   KindCountry,
		Status: StatusReady,
		Metric: metric,
		Rows:   filtered,
		Series: []Series{
			{Name: types.MetricLifeExpectancy.Label(), Axis: AxisPrimary, Rows: filtered, X: xs, Y: le},
			{Name: metric.Label(), Axis: AxisSecondary, Rows: filtered, X: xs, Y: mv},
		},
		X:           Domain{Min: float64(p.Years.Min), Max: float64(p.Years.Max)},
		XLabel:      "Year",
		XYears:      true,
		Y:           y,
		YLabel:      types.MetricLifeExpectancy.Label(),
		Y2:          &y2,
		Y2Label:     metric.Label(),
		Correlation: nan(),
	}

	leChange, leErr := ChangeOver(filtered, le)
	if leErr == nil {
		vm.Annotations = append(vm.Annotations, changeNote(p.Country, types.MetricLifeExpectancy, filtered, leChange, AxisPrimary, "rose", "fell"))
	}
	mChange, mErr := ChangeOver(filtered, mv)
	if mErr == nil {
		vm.Annotations = append(vm.Annotations, changeNote(p.Country, metric, filtered, mChange, AxisSecondary, "increased", "decreased"))
	}
	if leErr != nil && mErr != nil {
		return NoData(), errors.Wrapf(ErrNoData, "country %q has no values", p.Country)
	}
	return vm, nil
}

func changeNote(country string, m types.Metric, rows []types.Record, c Change, axis Axis, up, down string) Annotation {
	last := rows[c.LastIdx]
	dir := Direction(c.Delta, up, down)
	return Annotation{
		Title: country,
		Label: fmt.Sprintf("%s %s from %s (%d) to %s (%d), %s",
			m.Label(), dir, FormatValue(c.First), c.FirstYear, FormatValue(c.Last), c.LastYear,
			withUnit(FormatSigned(c.Delta), m)),
		X:         float64(last.Year),
		Y:         c.Last,
		Axis:      axis,
		Target:    &last,
		HasDelta:  true,
		Delta:     c.Delta,
		Direction: dir,
	}
}

// Scatter derives the metric-vs-life-expectancy point cloud over every country and year.
func Scatter(rows []types.Record, p Params) (ViewModel, error) {
	metric := ScatterFor(p.Metric)
	var filtered []types.Record
	for _, r := range rows {
		x, le := r.Value(metric), r.LifeExpectancy
		if !finite(x) || !finite(le) || le <= 0 {
			continue
		}
		if !p.AllowNegative && x < 0 {
			continue
		}
		if p.LogX && x <= 0 {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) == 0 {
		return NoData(), errors.Wrapf(ErrNoData, "scatter %s", metric)
	}
	xs := column(filtered, metric)
	ys := column(filtered, types.MetricLifeExpectancy)
	xd, _ := Extent(xs)
	yd, _ := Extent(ys)

	vm := ViewModel{
		Kind:        KindScatter,
		Status:      StatusReady,
		Metric:      metric,
		Rows:        filtered,
		Series:      []Series{{Name: metric.Label(), Points: true, Rows: filtered, X: xs, Y: ys}},
		X:           xd,
		XLabel:      metric.Label(),
		XLog:        p.LogX,
		Y:           yd,
		YLabel:      types.MetricLifeExpectancy.Label(),
		Correlation: nan(),
	}
	if len(filtered) >= 2 && xd.Span() > 0 && yd.Span() > 0 {
		vm.Correlation = round2(stat.Correlation(xs, ys, nil))
	}
	if p.Note != nil && p.Note.Label != "" {
		vm.Annotations = []Annotation{{Label: p.Note.Label, X: p.Note.X, Y: p.Note.Y}}
	}
	return vm, nil
}

// GlobalTrend derives the mean life expectancy per year across every country.
func GlobalTrend(rows []types.Record) (ViewModel, error) {
	means := YearlyMeans(rows, types.MetricLifeExpectancy)
	if len(means) == 0 {
		return NoData(), errors.Wrap(ErrNoData, "global trend")
	}
	xs := make([]float64, len(means))
	ys := make([]float64, len(means))
	for i, m := range means {
		xs[i] = float64(m.Year)
		ys[i] = m.Mean
	}
	y, _ := PaddedExtent(ys, trendPad)
	first, last := means[0], means[len(means)-1]
	delta := round1(last.Mean - first.Mean)
	dir := Direction(delta, "rose", "fell")
	return ViewModel{
		Kind:   KindGlobal,
		Status: StatusReady,
		Metric: types.MetricLifeExpectancy,
		Rows:   rows,
		Series: []Series{{Name: "Global average", X: xs, Y: ys}},
		X:      Domain{Min: xs[0], Max: xs[len(xs)-1]},
		XLabel: "Year",
		XYears: true,
		Y:      y,
		YLabel: "Average " + types.MetricLifeExpectancy.Label(),
		Annotations: []Annotation{{
			Title: "Global average",
			Label: fmt.Sprintf("Average life expectancy %s from %s in %d to %s in %d (%s), %d countries reporting in %d",
				dir, FormatValue(first.Mean), first.Year, FormatValue(last.Mean), last.Year,
				withUnit(FormatSigned(delta), types.MetricLifeExpectancy), last.Count, last.Year),
			X:         float64(last.Year),
			Y:         last.Mean,
			HasDelta:  true,
			Delta:     delta,
			Direction: dir,
		}},
		Correlation: nan(),
	}, nil
}
