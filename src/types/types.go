// Package types holds the record and enum types shared by the loader, the view
// derivation engine and the viewer.
package types

import (
	"math"
	"strings"
)

// Status is the development classification of a country.
type Status string

const (
	StatusDeveloped  Status = "Developed"
	StatusDeveloping Status = "Developing"
	// StatusAll matches every record; only valid as a filter value.
	StatusAll Status = "All"
)

// ParseStatus normalizes user/CSV input into a Status. The second return is false
// for unrecognized values.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "developed":
		return StatusDeveloped, true
	case "developing":
		return StatusDeveloping, true
	case "all":
		return StatusAll, true
	}
	return "", false
}

// Matches reports whether a record status passes this filter value.
func (s Status) Matches(recordStatus Status) bool {
	return s == StatusAll || s == recordStatus
}

// Metric names a numeric column of the dataset.
type Metric string

const (
	MetricLifeExpectancy Metric = "life_expectancy"
	MetricGDP            Metric = "gdp"
	MetricAlcohol        Metric = "alcohol"
	MetricHIVAIDS        Metric = "hiv_aids"
	MetricPopulation     Metric = "population"
	MetricSchooling      Metric = "schooling"
)

// Metrics lists every numeric column in CSV order.
var Metrics = []Metric{MetricLifeExpectancy, MetricGDP, MetricAlcohol, MetricHIVAIDS, MetricPopulation, MetricSchooling}

// SecondaryMetrics are the metrics that may be paired with life expectancy on a dual-axis chart.
var SecondaryMetrics = []Metric{MetricGDP, MetricAlcohol, MetricHIVAIDS, MetricSchooling}

// Secondary reports whether m is one of SecondaryMetrics.
func (m Metric) Secondary() bool {
	for _, s := range SecondaryMetrics {
		if s == m {
			return true
		}
	}
	return false
}

// ParseMetric accepts the column name or its label ("HIV/AIDS", "Life Expectancy").
func ParseMetric(s string) (Metric, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer(" ", "_", "/", "_", "-", "_").Replace(k)
	for _, m := range Metrics {
		if string(m) == k {
			return m, true
		}
	}
	return "", false
}

// Label returns the axis label used on charts.
func (m Metric) Label() string {
	switch m {
	case MetricLifeExpectancy:
		return "Life Expectancy"
	case MetricGDP:
		return "GDP per capita (USD)"
	case MetricAlcohol:
		return "Alcohol Consumption (liters per capita)"
	case MetricHIVAIDS:
		return "HIV/AIDS prevalence"
	case MetricPopulation:
		return "Population"
	case MetricSchooling:
		return "Schooling (years)"
	}
	return string(m)
}

// Unit is the short unit suffix used in annotation text.
func (m Metric) Unit() string {
	switch m {
	case MetricLifeExpectancy, MetricSchooling:
		return "yrs"
	case MetricGDP:
		return "USD"
	case MetricAlcohol:
		return "L"
	}
	return ""
}

// Record is one (country, year) observation. Missing numeric values are NaN.
type Record struct {
	Country        string  `json:"country" yaml:"country"`
	Status         Status  `json:"status" yaml:"status"`
	Year           int     `json:"year" yaml:"year"`
	LifeExpectancy float64 `json:"life_expectancy" yaml:"life_expectancy"`
	GDP            float64 `json:"gdp" yaml:"gdp"`
	Alcohol        float64 `json:"alcohol" yaml:"alcohol"`
	HIVAIDS        float64 `json:"hiv_aids" yaml:"hiv_aids"`
	Population     float64 `json:"population" yaml:"population"`
	Schooling      float64 `json:"schooling" yaml:"schooling"`
}

// Value returns the metric's value, NaN for an unknown metric.
func (r Record) Value(m Metric) float64 {
	switch m {
	case MetricLifeExpectancy:
		return r.LifeExpectancy
	case MetricGDP:
		return r.GDP
	case MetricAlcohol:
		return r.Alcohol
	case MetricHIVAIDS:
		return r.HIVAIDS
	case MetricPopulation:
		return r.Population
	case MetricSchooling:
		return r.Schooling
	}
	return math.NaN()
}

// YearRange is an inclusive [Min, Max] year interval.
type YearRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether y lies inside the range.
func (r YearRange) Contains(y int) bool { return y >= r.Min && y <= r.Max }

// Valid reports whether Min <= Max.
func (r YearRange) Valid() bool { return r.Min <= r.Max }
