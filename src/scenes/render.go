package scenes

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/dataset"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/types"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/views"
)

type deriveFunc func(rows []types.Record, p views.Params) (views.ViewModel, error)

// derivers maps every scene kind to its derivation; indexed by views.Kind.
var derivers = [...]deriveFunc{
	views.KindTrend:   views.Trend,
	views.KindCountry: views.CountryFocus,
	views.KindScatter: views.Scatter,
	views.KindGlobal: func(rows []types.Record, _ views.Params) (views.ViewModel, error) {
		return views.GlobalTrend(rows)
	},
}

// Render derives the current scene. It never fails: before load it returns the
// NotLoaded placeholder and empty selections come back as NoData.
func (s *Store) Render() views.ViewModel {
	return s.RenderScene(s.Scene())
}

// RenderScene derives scene i (clamped) against the current parameters without navigating.
func (s *Store) RenderScene(i int) views.ViewModel {
	s.mu.RLock()
	ds := s.ds
	snap := s.snapshotLocked()
	s.mu.RUnlock()

	i = clampScene(i, len(s.cfg.Scenes))
	sc := &s.cfg.Scenes[i]
	if ds == nil {
		vm := views.NotLoaded()
		vm.SceneID = sc.ID
		vm.Kind = sc.Kind
		return vm
	}

	p := paramsFor(sc, snap)
	vm, err := derivers[sc.Kind](ds.Rows(), p)
	if err != nil {
		if errors.Is(err, views.ErrNoData) {
			dataset.Debugf("scene %s: %v", sc.ID, err)
		} else {
			dataset.Warnf("scene %s: derivation failed: %v", sc.ID, err)
		}
		vm = views.NoData()
	}
	data := narrativeData{
		Status:      string(snap.SelectedStatus),
		StatusLower: strings.ToLower(string(snap.SelectedStatus)),
		Years:       snap.YearRange,
		Metric:      p.Metric.Label(),
		Country:     snap.SelectedCountry,
		Countries:   snap.SelectedCountries,
	}
	vm.SceneID = sc.ID
	vm.Kind = sc.Kind
	vm.Title = execute(sc.titleTmpl, sc.Title, data)
	vm.Narrative = execute(sc.narrativeTmpl, sc.Narrative, data)
	return vm
}

// paramsFor resolves the scene's derivation inputs from the snapshot.
func paramsFor(sc *Scene, snap Snapshot) views.Params {
	m := sc.metricFor(snap.SelectedMetric)
	switch sc.Kind {
	case views.KindCountry:
		m = views.SecondaryFor(m)
	case views.KindScatter:
		m = views.ScatterFor(m)
	}
	return views.Params{
		Status:        snap.SelectedStatus,
		Years:         snap.YearRange,
		Metric:        m,
		Country:       snap.SelectedCountry,
		Countries:     snap.SelectedCountries,
		AllowNegative: sc.AllowNegative,
		LogX:          sc.logX(m),
		Note:          sc.note(m),
	}
}
