package scenes

import (
	_ "embed"
	"os"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/types"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/views"
)

//go:embed scenes.yaml
var defaultScenesYAML []byte

// Scene is one entry of the scene sequence.
type Scene struct {
	ID        string `yaml:"id"`
	KindName  string `yaml:"kind"`
	Title     string `yaml:"title"`
	Narrative string `yaml:"narrative"`

	// Metric pins the metric for this scene; empty follows selectedMetric.
	Metric        types.Metric                `yaml:"metric,omitempty"`
	Notes         map[types.Metric]views.Note `yaml:"notes,omitempty"`
	LogX          []types.Metric              `yaml:"log_x,omitempty"`
	AllowNegative bool                        `yaml:"allow_negative,omitempty"`

	Kind views.Kind `yaml:"-"`

	titleTmpl     *template.Template
	narrativeTmpl *template.Template
}

// Config is the scene sequence; its length is the number of states of the scene machine.
type Config struct {
	// TopN is how many countries the status selection holds; 0 means views.DefaultTopN.
	TopN   int     `yaml:"top_n,omitempty"`
	Scenes []Scene `yaml:"scenes"`
}

func (c *Config) topN() int {
	if c.TopN <= 0 {
		return views.DefaultTopN
	}
	return c.TopN
}

// DefaultConfig returns the embedded four-scene sequence.
func DefaultConfig() *Config {
	cfg, err := ParseConfig(defaultScenesYAML)
	if err != nil {
		panic(errors.Wrap(err, "embedded scenes.yaml"))
	}
	return cfg
}

// LoadConfig reads a scene file; an empty path yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene config")
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes and validates YAML scene configuration.
func ParseConfig(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var tmplFuncs = template.FuncMap{
	"lower": strings.ToLower,
	"join":  strings.Join,
}

func (c *Config) validate() error {
	if len(c.Scenes) == 0 {
		return errors.New("no scenes configured")
	}
	if c.TopN < 0 {
		return errors.Errorf("top_n %d is negative", c.TopN)
	}
	seen := map[string]bool{}
	for i := range c.Scenes {
		s := &c.Scenes[i]
		if s.ID == "" {
			return errors.Errorf("scene %d: missing id", i)
		}
		if seen[s.ID] {
			return errors.Errorf("scene %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
		k, ok := views.ParseKind(s.KindName)
		if !ok {
			return errors.Errorf("scene %q: unknown kind %q", s.ID, s.KindName)
		}
		s.Kind = k
		if s.Metric != "" {
			m, ok := types.ParseMetric(string(s.Metric))
			if !ok {
				return errors.Errorf("scene %q: unknown metric %q", s.ID, s.Metric)
			}
			s.Metric = m
		}
		if len(s.Notes) > 0 {
			notes := make(map[types.Metric]views.Note, len(s.Notes))
			for name, n := range s.Notes {
				m, ok := types.ParseMetric(string(name))
				if !ok {
					return errors.Errorf("scene %q: note for unknown metric %q", s.ID, name)
				}
				if _, dup := notes[m]; dup {
					return errors.Errorf("scene %q: two notes for metric %q", s.ID, m)
				}
				notes[m] = n
			}
			s.Notes = notes
		}
		for j, name := range s.LogX {
			m, ok := types.ParseMetric(string(name))
			if !ok {
				return errors.Errorf("scene %q: log_x names unknown metric %q", s.ID, name)
			}
			s.LogX[j] = m
		}
		var err error
		if s.titleTmpl, err = template.New(s.ID + ".title").Funcs(tmplFuncs).Parse(s.Title); err != nil {
			return errors.Wrapf(err, "scene %q title", s.ID)
		}
		if s.narrativeTmpl, err = template.New(s.ID + ".narrative").Funcs(tmplFuncs).Parse(s.Narrative); err != nil {
			return errors.Wrapf(err, "scene %q narrative", s.ID)
		}
	}
	return nil
}

// metricFor resolves the metric a scene derives with.
func (s *Scene) metricFor(selected types.Metric) types.Metric {
	if s.Metric != "" {
		return s.Metric
	}
	return selected
}

func (s *Scene) logX(m types.Metric) bool {
	for _, l := range s.LogX {
		if l == m {
			return true
		}
	}
	return false
}

func (s *Scene) note(m types.Metric) *views.Note {
	n, ok := s.Notes[m]
	if !ok {
		return nil
	}
	return &n
}

// narrativeData is what title/narrative templates see.
type narrativeData struct {
	Status      string
	StatusLower string
	Years       types.YearRange
	Metric      string
	Country     string
	Countries   []string
}

func execute(t *template.Template, fallback string, data narrativeData) string {
	if t == nil {
		return fallback
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return fallback
	}
	return sb.String()
}
