// Package scenes owns the viewer state: the scene index, the filter parameters and the
// loaded dataset. Widgets mutate it through SetParameter and the navigation methods;
// renderers subscribe to change events and call Render to get a fresh view model.
package scenes

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/dataset"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/types"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/views"
)

var (
	// ErrNotLoaded is returned by operations that need the dataset before it arrived.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrInvalidParameter rejects unknown keys and out-of-domain values.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Recognized parameter keys.
const (
	KeySelectedStatus    = "selectedStatus"
	KeyYearRange         = "yearRange"
	KeySelectedMetric    = "selectedMetric"
	KeySelectedCountry   = "selectedCountry"
	KeySelectedCountries = "selectedCountries"
)

// Defaults applied by NewStore.
var (
	DefaultStatus = types.StatusDeveloped
	DefaultYears  = types.YearRange{Min: 2000, Max: 2015}
	DefaultMetric = types.MetricLifeExpectancy
)

// Parameters is the filter/selection state. SelectedCountries is derived from the dataset
// and SelectedStatus and cannot be set directly.
type Parameters struct {
	SelectedStatus    types.Status
	YearRange         types.YearRange
	SelectedCountries []string
	SelectedMetric    types.Metric
	SelectedCountry   string
}

// Snapshot is an immutable copy of the store handed to readers.
type Snapshot struct {
	Scene      int
	SceneCount int
	SceneID    string
	Loaded     bool
	Parameters
}

// EventType identifies store changes.
type EventType int

const (
	EventDatasetLoaded EventType = iota
	EventSceneChanged
	EventParameterChanged
)

func (e EventType) String() string {
	switch e {
	case EventDatasetLoaded:
		return "dataset_loaded"
	case EventSceneChanged:
		return "scene_changed"
	case EventParameterChanged:
		return "parameter_changed"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Event is delivered to subscribers after a mutation.
type Event struct {
	Type EventType
	Key  string // parameter key for EventParameterChanged
	Snapshot
}

// Listener is called after each change, outside the store lock.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Store is the single owner of viewer state.
type Store struct {
	mu      sync.RWMutex
	cfg     *Config
	ds      *dataset.Dataset
	scene   int
	params  Parameters
	subs    []subscription
	nextSub int
}

// NewStore builds a store over a scene configuration (nil means DefaultConfig).
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Store{
		cfg: cfg,
		params: Parameters{
			SelectedStatus: DefaultStatus,
			YearRange:      DefaultYears,
			SelectedMetric: DefaultMetric,
		},
	}
}

// Config returns the scene configuration.
func (s *Store) Config() *Config { return s.cfg }

// Subscribe registers fn for change events and returns its cancel function.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) emit(t EventType, key string) {
	s.mu.RLock()
	subs := append([]subscription(nil), s.subs...)
	ev := Event{Type: t, Key: key, Snapshot: s.snapshotLocked()}
	s.mu.RUnlock()
	for _, sub := range subs {
		sub.fn(ev)
	}
}

// SetDataset installs the loaded dataset, recomputes derived parameters and notifies.
func (s *Store) SetDataset(ds *dataset.Dataset) {
	if ds == nil {
		return
	}
	s.mu.Lock()
	s.ds = ds
	s.recomputeCountriesLocked()
	if !ds.HasCountry(s.params.SelectedCountry) {
		s.params.SelectedCountry = ""
		if len(s.params.SelectedCountries) > 0 {
			s.params.SelectedCountry = s.params.SelectedCountries[0]
		} else if cs := ds.Countries(); len(cs) > 0 {
			s.params.SelectedCountry = cs[0]
		}
	}
	s.mu.Unlock()
	dataset.Debugf("store: dataset installed %s", ds)
	s.emit(EventDatasetLoaded, "")
}

// Loaded reports whether a dataset is installed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds != nil
}

// Dataset returns the installed dataset, nil before load.
func (s *Store) Dataset() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

func (s *Store) recomputeCountriesLocked() {
	s.params.SelectedCountries = views.SelectCountries(s.ds.Rows(), s.params.SelectedStatus, s.cfg.topN())
}

// Snapshot returns a copy safe to hold across mutations.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	p := s.params
	p.SelectedCountries = append([]string(nil), s.params.SelectedCountries...)
	return Snapshot{
		Scene:      s.scene,
		SceneCount: len(s.cfg.Scenes),
		SceneID:    s.cfg.Scenes[s.scene].ID,
		Loaded:     s.ds != nil,
		Parameters: p,
	}
}

// SetParameter is the single mutation entry point for controls. On error the prior
// state is kept.
func (s *Store) SetParameter(key string, value interface{}) error {
	s.mu.Lock()
	changed, err := s.setLocked(key, value)
	s.mu.Unlock()
	if err != nil {
		dataset.Debugf("store: rejected %s=%v: %v", key, value, err)
		return err
	}
	if changed {
		s.emit(EventParameterChanged, key)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidParameter, format, args...)
}

func (s *Store) setLocked(key string, value interface{}) (bool, error) {
	switch key {
	case KeySelectedStatus:
		st, ok := asStatus(value)
		if !ok {
			return false, invalid("%s: %v", key, value)
		}
		if st == s.params.SelectedStatus {
			return false, nil
		}
		s.params.SelectedStatus = st
		if s.ds != nil {
			s.recomputeCountriesLocked()
		}
		return true, nil
	case KeyYearRange:
		yr, ok := asYearRange(value)
		if !ok || !yr.Valid() {
			return false, invalid("%s: %v", key, value)
		}
		if yr == s.params.YearRange {
			return false, nil
		}
		s.params.YearRange = yr
		return true, nil
	case KeySelectedMetric:
		m, ok := asMetric(value)
		if !ok {
			return false, invalid("%s: %v", key, value)
		}
		if m == s.params.SelectedMetric {
			return false, nil
		}
		s.params.SelectedMetric = m
		return true, nil
	case KeySelectedCountry:
		c, ok := value.(string)
		if !ok || c == "" {
			return false, invalid("%s: %v", key, value)
		}
		if s.ds == nil {
			return false, errors.Wrapf(ErrNotLoaded, "%s", key)
		}
		if !s.ds.HasCountry(c) {
			return false, invalid("%s: unknown country %q", key, c)
		}
		if c == s.params.SelectedCountry {
			return false, nil
		}
		s.params.SelectedCountry = c
		return true, nil
	case KeySelectedCountries:
		return false, invalid("%s is derived from %s", key, KeySelectedStatus)
	}
	return false, invalid("unknown key %q", key)
}

func asStatus(v interface{}) (types.Status, bool) {
	switch t := v.(type) {
	case types.Status:
		return types.ParseStatus(string(t))
	case string:
		return types.ParseStatus(t)
	}
	return "", false
}

func asMetric(v interface{}) (types.Metric, bool) {
	switch t := v.(type) {
	case types.Metric:
		return types.ParseMetric(string(t))
	case string:
		return types.ParseMetric(t)
	}
	return "", false
}

func asYearRange(v interface{}) (types.YearRange, bool) {
	switch t := v.(type) {
	case types.YearRange:
		return t, true
	case [2]int:
		return types.YearRange{Min: t[0], Max: t[1]}, true
	case []int:
		if len(t) == 2 {
			return types.YearRange{Min: t[0], Max: t[1]}, true
		}
	}
	return types.YearRange{}, false
}
