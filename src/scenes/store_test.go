package scenes

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/dataset"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/types"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/views"
)

func row(country string, st types.Status, year int, le, gdp float64) types.Record {
	nan := math.NaN()
	return types.Record{Country: country, Status: st, Year: year, LifeExpectancy: le, GDP: gdp, Alcohol: nan, HIVAIDS: nan, Population: nan, Schooling: nan}
}

func fixture() *dataset.Dataset {
	dev, ing := types.StatusDeveloped, types.StatusDeveloping
	return dataset.New([]types.Record{
		row("A", dev, 2000, 70, 30000), row("A", dev, 2015, 80, 40000),
		row("Kenya", ing, 2000, 50, 400), row("Kenya", ing, 2015, 62, 1300),
		row("B", dev, 2000, 75, 35000), row("C", dev, 2000, 76, 36000),
		row("D", dev, 2000, 77, 37000), row("E", dev, 2000, 78, 38000),
		row("F", dev, 2000, 79, 39000), row("Peru", ing, 2010, 73, 5000),
	})
}

func TestStoreBeforeLoad(t *testing.T) {
	Convey("Given a store without a dataset", t, func() {
		s := NewStore(nil)

		Convey("Render returns the NotLoaded placeholder", func() {
			vm := s.Render()
			So(vm.Status, ShouldEqual, views.StatusNotLoaded)
			So(vm.Message, ShouldEqual, views.MessageLoading)
			So(vm.SceneID, ShouldEqual, "overview")
		})

		Convey("SetScene is a no-op", func() {
			s.SetScene(2)
			s.Next()
			So(s.Scene(), ShouldEqual, 0)
			So(errors.Is(s.JumpTo(1), ErrNotLoaded), ShouldBeTrue)
		})

		Convey("Country selection needs the dataset", func() {
			So(errors.Is(s.SetParameter(KeySelectedCountry, "A"), ErrNotLoaded), ShouldBeTrue)
		})

		Convey("Status can change and the snapshot has no countries yet", func() {
			So(s.SetParameter(KeySelectedStatus, "Developing"), ShouldBeNil)
			snap := s.Snapshot()
			So(snap.Loaded, ShouldBeFalse)
			So(snap.SelectedCountries, ShouldBeEmpty)
		})
	})
}

func TestStoreNavigation(t *testing.T) {
	Convey("Given a loaded store with the default scenes", t, func() {
		s := NewStore(nil)
		s.SetDataset(fixture())
		last := s.SceneCount() - 1
		So(s.SceneCount(), ShouldEqual, 4)

		Convey("Prev at 0 stays at 0", func() {
			s.Prev()
			So(s.Scene(), ShouldEqual, 0)
		})

		Convey("Next saturates at the last scene", func() {
			for i := 0; i < 10; i++ {
				s.Next()
			}
			So(s.Scene(), ShouldEqual, last)
			s.Next()
			So(s.Scene(), ShouldEqual, last)
			s.Prev()
			So(s.Scene(), ShouldEqual, last-1)
		})

		Convey("SetScene clamps", func() {
			s.SetScene(99)
			So(s.Scene(), ShouldEqual, last)
			s.SetScene(-3)
			So(s.Scene(), ShouldEqual, 0)
		})

		Convey("JumpTo rejects invalid indexes and accepts ids", func() {
			So(errors.Is(s.JumpTo(last+1), ErrInvalidParameter), ShouldBeTrue)
			So(s.JumpToID("explore"), ShouldBeNil)
			So(s.Scene(), ShouldEqual, 3)
			So(errors.Is(s.JumpToID("nope"), ErrInvalidParameter), ShouldBeTrue)
			So(s.Scene(), ShouldEqual, 3)
		})
	})
}

func TestStoreParameters(t *testing.T) {
	Convey("Given a loaded store", t, func() {
		s := NewStore(nil)
		s.SetDataset(fixture())

		Convey("selectedCountries is the first five matching countries", func() {
			snap := s.Snapshot()
			So(snap.SelectedCountries, ShouldResemble, []string{"A", "B", "C", "D", "E"})
			So(snap.SelectedCountry, ShouldEqual, "A")
		})

		Convey("a status round trip restores the same selection", func() {
			before := s.Snapshot().SelectedCountries
			So(s.SetParameter(KeySelectedStatus, types.StatusDeveloping), ShouldBeNil)
			So(s.Snapshot().SelectedCountries, ShouldResemble, []string{"Kenya", "Peru"})
			So(s.SetParameter(KeySelectedStatus, "developed"), ShouldBeNil)
			So(s.Snapshot().SelectedCountries, ShouldResemble, before)
		})

		Convey("invalid values keep the prior state", func() {
			before := s.Snapshot()
			So(errors.Is(s.SetParameter("colour", "red"), ErrInvalidParameter), ShouldBeTrue)
			So(errors.Is(s.SetParameter(KeySelectedStatus, "Emerging"), ErrInvalidParameter), ShouldBeTrue)
			So(errors.Is(s.SetParameter(KeyYearRange, [2]int{2015, 2000}), ErrInvalidParameter), ShouldBeTrue)
			So(errors.Is(s.SetParameter(KeyYearRange, "2000-2015"), ErrInvalidParameter), ShouldBeTrue)
			So(errors.Is(s.SetParameter(KeySelectedMetric, "happiness"), ErrInvalidParameter), ShouldBeTrue)
			So(errors.Is(s.SetParameter(KeySelectedCountry, "Atlantis"), ErrInvalidParameter), ShouldBeTrue)
			So(errors.Is(s.SetParameter(KeySelectedCountries, []string{"A"}), ErrInvalidParameter), ShouldBeTrue)
			So(s.Snapshot(), ShouldResemble, before)
		})

		Convey("snapshots are copies", func() {
			snap := s.Snapshot()
			snap.SelectedCountries[0] = "Mutated"
			So(s.Snapshot().SelectedCountries[0], ShouldEqual, "A")
		})

		Convey("accepted values are visible in the snapshot", func() {
			So(s.SetParameter(KeyYearRange, types.YearRange{Min: 2005, Max: 2010}), ShouldBeNil)
			So(s.SetParameter(KeySelectedMetric, "HIV/AIDS"), ShouldBeNil)
			So(s.SetParameter(KeySelectedCountry, "Kenya"), ShouldBeNil)
			snap := s.Snapshot()
			So(snap.YearRange, ShouldResemble, types.YearRange{Min: 2005, Max: 2010})
			So(snap.SelectedMetric, ShouldEqual, types.MetricHIVAIDS)
			So(snap.SelectedCountry, ShouldEqual, "Kenya")
		})
	})
}

func TestStoreSubscriptions(t *testing.T) {
	Convey("Given a subscriber", t, func() {
		s := NewStore(nil)
		var events []Event
		cancel := s.Subscribe(func(e Event) { events = append(events, e) })

		s.SetDataset(fixture())
		s.Next()
		So(s.SetParameter(KeySelectedStatus, "Developing"), ShouldBeNil)
		So(s.SetParameter(KeySelectedStatus, "Developing"), ShouldBeNil) // unchanged, no event

		So(len(events), ShouldEqual, 3)
		So(events[0].Type, ShouldEqual, EventDatasetLoaded)
		So(events[1].Type, ShouldEqual, EventSceneChanged)
		So(events[1].Scene, ShouldEqual, 1)
		So(events[2].Type, ShouldEqual, EventParameterChanged)
		So(events[2].Key, ShouldEqual, KeySelectedStatus)
		So(events[2].SelectedCountries, ShouldResemble, []string{"Kenya", "Peru"})

		Convey("cancel stops delivery", func() {
			cancel()
			s.Prev()
			So(len(events), ShouldEqual, 3)
		})
	})
}

func TestStoreRender(t *testing.T) {
	Convey("Given the end-to-end dataset", t, func() {
		s := NewStore(nil)
		s.SetDataset(dataset.New([]types.Record{
			row("A", types.StatusDeveloped, 2000, 70, math.NaN()),
			row("A", types.StatusDeveloped, 2015, 80, math.NaN()),
		}))

		Convey("the overview has one series with a +10.0 delta", func() {
			vm := s.Render()
			So(vm.Status, ShouldEqual, views.StatusReady)
			So(vm.Title, ShouldEqual, "Life Expectancy Trends: Developed Countries")
			So(vm.Narrative, ShouldContainSubstring, "from 2000 to 2015 in developed countries (A)")
			So(len(vm.Series), ShouldEqual, 1)
			So(len(vm.Series[0].Rows), ShouldEqual, 2)
			So(vm.Annotations[0].Delta, ShouldEqual, 10.0)
			So(vm.Annotations[0].Direction, ShouldEqual, "increased")
			So(vm.Y.Min, ShouldAlmostEqual, 68)
			So(vm.Y.Max, ShouldAlmostEqual, 82)
		})

		Convey("a year range without rows renders NoData, not a crash", func() {
			So(s.SetParameter(KeyYearRange, []int{1980, 1990}), ShouldBeNil)
			vm := s.Render()
			So(vm.Status, ShouldEqual, views.StatusNoData)
			So(vm.Message, ShouldEqual, views.MessageNoData)
			So(vm.Title, ShouldNotBeEmpty)
		})

		Convey("the scatter scene with no gdp values is NoData", func() {
			So(s.JumpToID("explore"), ShouldBeNil)
			So(s.Render().Status, ShouldEqual, views.StatusNoData)
		})
	})

	Convey("Given the fixture dataset", t, func() {
		s := NewStore(nil)
		s.SetDataset(fixture())

		Convey("the country scene defaults to gdp as the second axis", func() {
			So(s.JumpToID("country"), ShouldBeNil)
			vm := s.Render()
			So(vm.Status, ShouldEqual, views.StatusReady)
			So(vm.Title, ShouldEqual, "A: Life Expectancy vs GDP per capita (USD)")
			So(vm.Y2, ShouldNotBeNil)
			So(vm.Y2.Max, ShouldAlmostEqual, 40000*1.05)
			So(vm.Metric, ShouldEqual, types.MetricGDP)
		})

		Convey("the country scene never pairs population with life expectancy", func() {
			So(s.SetParameter(KeySelectedMetric, types.MetricPopulation), ShouldBeNil)
			vm := s.RenderScene(2)
			So(vm.Metric, ShouldEqual, types.MetricGDP)
			So(vm.Y2Label, ShouldEqual, types.MetricGDP.Label())
		})

		Convey("the scatter scene picks the note and log axis for the metric", func() {
			So(s.SetParameter(KeySelectedMetric, types.MetricGDP), ShouldBeNil)
			vm := s.RenderScene(3)
			So(vm.XLog, ShouldBeTrue)
			So(len(vm.Annotations), ShouldEqual, 1)
			So(vm.Annotations[0].Label, ShouldStartWith, "Wealthier countries")
			So(s.Scene(), ShouldEqual, 0)
		})

		Convey("the global scene averages every country", func() {
			vm := s.RenderScene(1)
			So(vm.Status, ShouldEqual, views.StatusReady)
			So(vm.Series[0].X[0], ShouldEqual, 2000)
		})
	})
}

func TestDeriversCoverEveryKind(t *testing.T) {
	if len(derivers) != len(views.Kinds()) {
		t.Fatalf("derivers has %d entries for %d kinds", len(derivers), len(views.Kinds()))
	}
	for _, k := range views.Kinds() {
		if derivers[k] == nil {
			t.Fatalf("no derivation for kind %s", k)
		}
	}
}
