package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/dataset"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/scenes"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/views"
)

var (
	cli        = kingpin.New("lifereader", "Print a summary of every scene without opening a window.")
	dataFlag   = cli.Flag("data", "Path to the life expectancy CSV.").Short('d').Envar("LIFEVIEW_DATA").Default("data/life_expectancy_cleaned.csv").String()
	scenesFlag = cli.Flag("scenes", "YAML scene sequence (empty uses the built-in one).").Envar("LIFEVIEW_SCENES").String()
	logLevel   = cli.Flag("log-level", "debug, info, warn or error.").Envar("LIFEVIEW_LOG").Default("warn").Enum("debug", "info", "warn", "warning", "error")
	format     = cli.Flag("format", "Output format.").Short('o').Default("text").Enum("text", "yaml")
	status     = cli.Flag("status", "Developed, Developing or All.").String()
	metric     = cli.Flag("metric", "Metric for metric-driven scenes.").String()
	country    = cli.Flag("country", "Country for the country scene.").String()
	years      = cli.Flag("years", "Inclusive year range, e.g. 2000-2015.").String()
	only       = cli.Flag("scene", "Only print the scene with this id.").String()
)

// sceneSummary is the printable digest of one rendered scene.
type sceneSummary struct {
	Index       int           `yaml:"index"`
	ID          string        `yaml:"id"`
	Kind        string        `yaml:"kind"`
	Status      string        `yaml:"status"`
	Title       string        `yaml:"title"`
	Narrative   string        `yaml:"narrative,omitempty"`
	Message     string        `yaml:"message,omitempty"`
	Metric      string        `yaml:"metric,omitempty"`
	Rows        int           `yaml:"rows"`
	Series      []seriesInfo  `yaml:"series,omitempty"`
	X           *views.Domain `yaml:"x,omitempty"`
	Y           *views.Domain `yaml:"y,omitempty"`
	Y2          *views.Domain `yaml:"y2,omitempty"`
	Annotations []string      `yaml:"annotations,omitempty"`
	Correlation *float64      `yaml:"correlation,omitempty"`
}

type seriesInfo struct {
	Name   string `yaml:"name"`
	Points int    `yaml:"points"`
	Axis   string `yaml:"axis"`
}

func main() {
	kingpin.MustParse(cli.Parse(os.Args[1:]))
	dataset.SetLogLevel(*logLevel)
	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer) error {
	cfg, err := scenes.LoadConfig(*scenesFlag)
	if err != nil {
		return err
	}
	ds, err := dataset.LoadFile(*dataFlag)
	if err != nil {
		return err
	}
	store := scenes.NewStore(cfg)
	store.SetDataset(ds)
	if err := applyParameters(store, *status, *metric, *country, *years); err != nil {
		return err
	}
	var out []sceneSummary
	for i := 0; i < store.SceneCount(); i++ {
		if *only != "" && cfg.Scenes[i].ID != *only {
			continue
		}
		out = append(out, summarize(i, store.RenderScene(i)))
	}
	if *only != "" && len(out) == 0 {
		return errors.Wrapf(scenes.ErrInvalidParameter, "unknown scene %q", *only)
	}
	if *format == "yaml" {
		return writeYAML(w, out)
	}
	writeText(w, store.Snapshot(), out)
	return nil
}

// applyParameters pushes the CLI selections through the store in the same order the
// viewer controls would.
func applyParameters(store *scenes.Store, status, metric, country, years string) error {
	if status != "" {
		if err := store.SetParameter(scenes.KeySelectedStatus, status); err != nil {
			return err
		}
	}
	if metric != "" {
		if err := store.SetParameter(scenes.KeySelectedMetric, metric); err != nil {
			return err
		}
	}
	if country != "" {
		if err := store.SetParameter(scenes.KeySelectedCountry, country); err != nil {
			return err
		}
	}
	if years != "" {
		yr, err := parseYears(years)
		if err != nil {
			return err
		}
		if err := store.SetParameter(scenes.KeyYearRange, yr); err != nil {
			return err
		}
	}
	return nil
}

// parseYears accepts "2000-2015" or a single year.
func parseYears(s string) ([2]int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return [2]int{}, errors.Wrapf(scenes.ErrInvalidParameter, "years %q", s)
	}
	hi := lo
	if len(parts) == 2 {
		if hi, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return [2]int{}, errors.Wrapf(scenes.ErrInvalidParameter, "years %q", s)
		}
	}
	return [2]int{lo, hi}, nil
}

func summarize(i int, vm views.ViewModel) sceneSummary {
	s := sceneSummary{
		Index:     i,
		ID:        vm.SceneID,
		Kind:      vm.Kind.String(),
		Status:    vm.Status.String(),
		Title:     vm.Title,
		Narrative: vm.Narrative,
		Message:   vm.Message,
		Metric:    string(vm.Metric),
		Rows:      len(vm.Rows),
	}
	if !vm.Ready() {
		return s
	}
	for _, sr := range vm.Series {
		axis := "primary"
		if sr.Axis == views.AxisSecondary {
			axis = "secondary"
		}
		s.Series = append(s.Series, seriesInfo{Name: sr.Name, Points: len(sr.X), Axis: axis})
	}
	x, y := vm.X, vm.Y
	s.X, s.Y, s.Y2 = &x, &y, vm.Y2
	for _, a := range vm.Annotations {
		s.Annotations = append(s.Annotations, a.Label)
	}
	if !math.IsNaN(vm.Correlation) {
		c := vm.Correlation
		s.Correlation = &c
	}
	return s
}

func writeYAML(w io.Writer, out []sceneSummary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]interface{}{"scenes": out}); err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	return enc.Close()
}

func writeText(w io.Writer, snap scenes.Snapshot, out []sceneSummary) {
	fmt.Fprintf(w, "Status: %s  Years: %d-%d  Metric: %s  Country: %s\n",
		snap.SelectedStatus, snap.YearRange.Min, snap.YearRange.Max, snap.SelectedMetric, snap.SelectedCountry)
	fmt.Fprintf(w, "Selected countries: %s\n", strings.Join(snap.SelectedCountries, ", "))
	for _, s := range out {
		fmt.Fprintf(w, "\n[%d] %s (%s) %s\n", s.Index+1, s.ID, s.Kind, s.Title)
		if s.Status != views.StatusReady.String() {
			fmt.Fprintf(w, "    %s: %s\n", s.Status, s.Message)
			continue
		}
		fmt.Fprintf(w, "    metric=%s rows=%d x=[%g,%g] y=[%.1f,%.1f]", s.Metric, s.Rows, s.X.Min, s.X.Max, s.Y.Min, s.Y.Max)
		if s.Y2 != nil {
			fmt.Fprintf(w, " y2=[%.1f,%.1f]", s.Y2.Min, s.Y2.Max)
		}
		if s.Correlation != nil {
			fmt.Fprintf(w, " r=%.2f", *s.Correlation)
		}
		fmt.Fprintln(w)
		for _, sr := range s.Series {
			fmt.Fprintf(w, "    series %-28s %4d points (%s)\n", sr.Name, sr.Points, sr.Axis)
		}
		for _, a := range s.Annotations {
			fmt.Fprintf(w, "    - %s\n", a)
		}
	}
}
