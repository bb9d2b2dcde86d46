// Package dataset loads the per-country, per-year indicator table.
//
// Ingestion contract:
//   - CSV with a header row; columns are located by normalized name (trimmed, lowercased,
//     spaces and slashes folded to "_"), so both "life_expectancy" and "Life expectancy " work.
//   - country, status and year are required columns; numeric columns that are absent load as NaN.
//   - numeric cells that fail to parse become NaN; rows with an unparsable year or unknown status
//     are skipped with a warning.
//
// A Dataset is immutable once returned; Rows exposes the backing slice read-only by convention.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/types"
)

// Dataset is the loaded, read-only table.
type Dataset struct {
	Source    string
	rows      []types.Record
	countries []string
	known     map[string]struct{}
	years     types.YearRange
}

// New builds a Dataset from already-typed records (copied).
func New(rows []types.Record) *Dataset {
	d := &Dataset{
		rows:  append([]types.Record(nil), rows...),
		known: map[string]struct{}{},
	}
	for i, r := range d.rows {
		if _, ok := d.known[r.Country]; !ok {
			d.known[r.Country] = struct{}{}
			d.countries = append(d.countries, r.Country)
		}
		if i == 0 || r.Year < d.years.Min {
			d.years.Min = r.Year
		}
		if i == 0 || r.Year > d.years.Max {
			d.years.Max = r.Year
		}
	}
	return d
}

// Rows returns the records in file order. Callers must not modify the slice.
func (d *Dataset) Rows() []types.Record {
	if d == nil {
		return nil
	}
	return d.rows
}

// Len is the number of loaded records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Countries returns distinct countries in first-seen order.
func (d *Dataset) Countries() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.countries...)
}

// HasCountry reports whether any record carries the country name.
func (d *Dataset) HasCountry(c string) bool {
	if d == nil {
		return false
	}
	_, ok := d.known[c]
	return ok
}

// YearDomain returns the [min,max] year span; false when empty.
func (d *Dataset) YearDomain() (types.YearRange, bool) {
	if d == nil || len(d.rows) == 0 {
		return types.YearRange{}, false
	}
	return d.years, true
}

// LoadFile opens and parses a CSV file.
func LoadFile(path string) (*Dataset, error) {
	defer TimeTrack(time.Now(), "dataset.LoadFile")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()
	ds, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	ds.Source = path
	return ds, nil
}

// Load parses CSV rows from r.
func Load(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty input: missing header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	cols := map[string]int{}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[normalizeHeader(h)] = i
	}
	for _, req := range []string{"country", "status", "year"} {
		if _, ok := cols[req]; !ok {
			return nil, errors.Errorf("missing required column %q", req)
		}
	}

	var rows []types.Record
	skipped := 0
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "read line %d", line)
		}
		row, ok := parseRow(rec, cols, line)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	ds := New(rows)
	WithFields(logrus.Fields{"rows": len(rows), "skipped": skipped, "countries": len(ds.countries)}).Info("dataset loaded")
	return ds, nil
}

func parseRow(rec []string, cols map[string]int, line int) (types.Record, bool) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	country := cell("country")
	if country == "" {
		Warnf("line %d: empty country, skipped", line)
		return types.Record{}, false
	}
	status, ok := types.ParseStatus(cell("status"))
	if !ok || status == types.StatusAll {
		Warnf("line %d: unknown status %q, skipped", line, cell("status"))
		return types.Record{}, false
	}
	year, ok := parseYear(cell("year"))
	if !ok {
		Warnf("line %d: unparsable year %q, skipped", line, cell("year"))
		return types.Record{}, false
	}
	return types.Record{
		Country:        country,
		Status:         status,
		Year:           year,
		LifeExpectancy: parseNumber(cell("life_expectancy")),
		GDP:            parseNumber(cell("gdp")),
		Alcohol:        parseNumber(cell("alcohol")),
		HIVAIDS:        parseNumber(cell("hiv_aids")),
		Population:     parseNumber(cell("population")),
		Schooling:      parseNumber(cell("schooling")),
	}, true
}

// normalizeHeader folds "Life expectancy ", "HIV/AIDS" etc. to snake case.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "_", "/", "_", "-", "_").Replace(h)
	for strings.Contains(h, "__") {
		h = strings.ReplaceAll(h, "__", "_")
	}
	return strings.Trim(h, "_")
}

// parseNumber coerces a cell; blanks and garbage become NaN.
func parseNumber(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseYear accepts "2015" and "2015.0".
func parseYear(s string) (int, bool) {
	v := parseNumber(s)
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// String is a one-line description used in logs and the reader CLI.
func (d *Dataset) String() string {
	if d == nil {
		return "dataset(<nil>)"
	}
	return fmt.Sprintf("dataset(%s rows=%d countries=%d years=%d-%d)", d.Source, len(d.rows), len(d.countries), d.years.Min, d.years.Max)
}
