package main

import (
	"fmt"
	"image"
	"image/color"
	png "image/png"
	"os"
	"strconv"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/ZhiWang-UIUC/Life-Expectancy/cmd/lifeviewer/uihelpers"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/dataset"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/scenes"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/types"
)

var (
	cli            = kingpin.New("lifeviewer", "Narrative life expectancy viewer.")
	dataFlag       = cli.Flag("data", "Path to the life expectancy CSV (default: last opened file, then "+defaultDataPath+").").Short('d').Envar("LIFEVIEW_DATA").String()
	scenesFlag     = cli.Flag("scenes", "YAML scene sequence (empty uses the built-in one).").Envar("LIFEVIEW_SCENES").String()
	logLevelFlag   = cli.Flag("log-level", "debug, info, warn or error.").Envar("LIFEVIEW_LOG").Default("info").Enum("debug", "info", "warn", "warning", "error")
	screenshotsDir = cli.Flag("screenshots", "Render every scene to PNGs in this directory and exit.").Envar("LIFEVIEW_SCREENSHOTS").String()
	sceneFlag      = cli.Flag("scene", "Scene id to open first.").Envar("LIFEVIEW_SCENE").String()
	widthFlag      = cli.Flag("width", "Image width in screenshots mode.").Default("1100").Int()
)

const defaultDataPath = "data/life_expectancy_cleaned.csv"

// preference keys
const (
	prefDataPath = "dataPath"
	prefScene    = "lastScene"
	prefStatus   = "status"
	prefMetric   = "metric"
	prefCountry  = "country"
	prefYearMin  = "yearMin"
	prefYearMax  = "yearMax"
)

type uiState struct {
	app      fyne.App
	window   fyne.Window
	store    *scenes.Store
	dataPath string

	// widgets
	sceneLabel    *widget.Label
	fileLabel     *widget.Label
	prevBtn       *widget.Button
	nextBtn       *widget.Button
	statusSelect  *widget.Select
	metricSelect  *widget.Select
	countrySelect *widget.Select
	fromSelect    *widget.Select
	toSelect      *widget.Select
	imgCanvas     *canvas.Image
	tooltip       *pointTooltip

	// set while preferences are replayed so intermediate events are not persisted
	restoring bool
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	kingpin.MustParse(cli.Parse(os.Args[1:]))
	dataset.SetLogLevel(*logLevelFlag)

	cfg, err := scenes.LoadConfig(*scenesFlag)
	if err != nil {
		dataset.Errorf("scene config: %v", err)
		os.Exit(2)
	}
	store := scenes.NewStore(cfg)

	if *screenshotsDir != "" {
		if err := runHeadless(store, *dataFlag, *screenshotsDir, *widthFlag); err != nil {
			dataset.Errorf("screenshots: %v", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.lifeexpectancy.viewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Life Expectancy")
	w.Resize(fyne.NewSize(1200, 860))

	state := &uiState{app: a, window: w, store: store, dataPath: *dataFlag}
	if state.dataPath == "" {
		state.dataPath = a.Preferences().StringWithFallback(prefDataPath, defaultDataPath)
	}
	buildUI(state)
	buildMenus(state)
	store.Subscribe(func(e scenes.Event) { onStoreEvent(state, e) })
	syncControls(state)
	redraw(state)

	// Redraw on window resize so the chart scales with width
	done := make(chan struct{})
	w.SetOnClosed(func() {
		savePrefs(state)
		close(done)
	})
	go func() {
		prevW := 0
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				c := w.Canvas()
				if c == nil {
					continue
				}
				curW := int(c.Size().Width)
				if curW != prevW {
					prevW = curW
					fyne.Do(func() { redraw(state) })
				}
			}
		}
	}()

	loadAsync(state)
	w.ShowAndRun()
}

func runHeadless(store *scenes.Store, dataPath, outDir string, width int) error {
	defer dataset.TimeTrack(time.Now(), "screenshots")
	if dataPath == "" {
		dataPath = defaultDataPath
	}
	ds, err := dataset.LoadFile(dataPath)
	if err != nil {
		return err
	}
	store.SetDataset(ds)
	if *sceneFlag != "" {
		if err := store.JumpToID(*sceneFlag); err != nil {
			return err
		}
	}
	files, err := RunScreenshotsMode(store, outDir, width)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d screenshots to %s\n", len(files), outDir)
	return nil
}

func buildUI(state *uiState) {
	store := state.store
	state.sceneLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	state.fileLabel = widget.NewLabel(truncatePath(state.dataPath, 50))

	state.prevBtn = widget.NewButtonWithIcon("Previous", theme.NavigateBackIcon(), func() { store.Prev() })
	state.nextBtn = widget.NewButtonWithIcon("Next", theme.NavigateNextIcon(), func() { store.Next() })

	state.statusSelect = widget.NewSelect(
		[]string{string(types.StatusDeveloped), string(types.StatusDeveloping), string(types.StatusAll)},
		func(v string) { setParameter(state, scenes.KeySelectedStatus, v) })

	labels := make([]string, 0, len(types.Metrics))
	for _, m := range types.Metrics {
		labels = append(labels, m.Label())
	}
	state.metricSelect = widget.NewSelect(labels, func(v string) {
		for _, m := range types.Metrics {
			if m.Label() == v {
				setParameter(state, scenes.KeySelectedMetric, m)
				return
			}
		}
	})

	state.countrySelect = widget.NewSelect(nil, func(v string) { setParameter(state, scenes.KeySelectedCountry, v) })
	state.countrySelect.PlaceHolder = "Country"
	state.fromSelect = widget.NewSelect(nil, func(string) { setYears(state) })
	state.toSelect = widget.NewSelect(nil, func(string) { setYears(state) })

	state.imgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.imgCanvas.FillMode = canvas.ImageFillContain
	state.imgCanvas.SetMinSize(fyne.NewSize(900, 600))
	state.tooltip = newPointTooltip(state.imgCanvas)

	nav := container.NewBorder(nil, nil, state.prevBtn, state.nextBtn, state.sceneLabel)
	controls := container.NewHBox(
		widget.NewLabel("Status:"), state.statusSelect,
		widget.NewLabel("Metric:"), state.metricSelect,
		widget.NewLabel("Country:"), state.countrySelect,
		widget.NewLabel("Years:"), state.fromSelect, widget.NewLabel("to"), state.toSelect,
		widget.NewLabel("File:"), state.fileLabel,
	)
	top := container.NewVBox(nav, controls)
	state.window.SetContent(container.NewBorder(top, nil, nil, nil, container.NewVScroll(container.NewStack(state.imgCanvas, state.tooltip))))

	state.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyLeft, fyne.KeyPageUp:
			store.Prev()
		case fyne.KeyRight, fyne.KeyPageDown, fyne.KeySpace:
			store.Next()
		case fyne.KeyHome:
			store.SetScene(0)
		case fyne.KeyEnd:
			store.SetScene(store.SceneCount() - 1)
		}
	})
}

// setParameter forwards a control change to the store; rejected values snap the
// controls back to the store state.
func setParameter(state *uiState, key string, value interface{}) {
	if err := state.store.SetParameter(key, value); err != nil {
		dataset.Warnf("viewer: %v", err)
		syncControls(state)
	}
}

func setYears(state *uiState) {
	from, err1 := strconv.Atoi(state.fromSelect.Selected)
	to, err2 := strconv.Atoi(state.toSelect.Selected)
	if err1 != nil || err2 != nil {
		return
	}
	setParameter(state, scenes.KeyYearRange, types.YearRange{Min: from, Max: to})
}

func onStoreEvent(state *uiState, e scenes.Event) {
	dataset.Debugf("viewer: %s key=%q scene=%d", e.Type, e.Key, e.Scene)
	if e.Type == scenes.EventDatasetLoaded {
		populateOptions(state)
	}
	syncControls(state)
	if !state.restoring {
		savePrefs(state)
	}
	redraw(state)
}

// populateOptions fills the country and year selects once the dataset is known.
func populateOptions(state *uiState) {
	ds := state.store.Dataset()
	state.countrySelect.Options = ds.Countries()
	var years []string
	if dom, ok := ds.YearDomain(); ok {
		for y := dom.Min; y <= dom.Max; y++ {
			years = append(years, strconv.Itoa(y))
		}
	}
	state.fromSelect.Options = years
	state.toSelect.Options = years
	state.fileLabel.SetText(truncatePath(state.dataPath, 50))
}

// syncControls mirrors the store snapshot into the widgets without firing callbacks.
func syncControls(state *uiState) {
	snap := state.store.Snapshot()
	id := snap.SceneID
	if !snap.Loaded {
		state.sceneLabel.SetText(fmt.Sprintf("Scene %d of %d: %s (loading...)", snap.Scene+1, snap.SceneCount, id))
	} else {
		state.sceneLabel.SetText(fmt.Sprintf("Scene %d of %d: %s", snap.Scene+1, snap.SceneCount, id))
	}
	if !snap.Loaded || snap.Scene == 0 {
		state.prevBtn.Disable()
	} else {
		state.prevBtn.Enable()
	}
	if !snap.Loaded || snap.Scene == snap.SceneCount-1 {
		state.nextBtn.Disable()
	} else {
		state.nextBtn.Enable()
	}
	setSelected(state.statusSelect, string(snap.SelectedStatus))
	setSelected(state.metricSelect, snap.SelectedMetric.Label())
	setSelected(state.countrySelect, snap.SelectedCountry)
	setSelected(state.fromSelect, strconv.Itoa(snap.YearRange.Min))
	setSelected(state.toSelect, strconv.Itoa(snap.YearRange.Max))
}

func setSelected(sel *widget.Select, v string) {
	if sel.Selected == v {
		return
	}
	sel.Selected = v
	sel.Refresh()
}

func redraw(state *uiState) {
	cw := 1100
	if c := state.window.Canvas(); c != nil && c.Size().Width > 0 {
		cw = int(c.Size().Width*0.95) - 12
	}
	w, h := uihelpers.ComputeChartDimensions(cw)
	vm := state.store.Render()
	// pinned and fallback metrics differ from the selection; show what is drawn
	if vm.Metric != "" {
		setSelected(state.metricSelect, vm.Metric.Label())
	}
	img, hits := renderSceneHits(vm, w, h)
	state.imgCanvas.Image = img
	state.imgCanvas.SetMinSize(fyne.NewSize(float32(img.Bounds().Dx()), float32(img.Bounds().Dy())))
	state.imgCanvas.Refresh()
	state.tooltip.SetHits(hits)
}

// loadAsync reads the dataset off the UI goroutine and installs it on the UI goroutine.
func loadAsync(state *uiState) {
	path := state.dataPath
	go func() {
		start := time.Now()
		ds, err := dataset.LoadFile(path)
		fyne.Do(func() {
			if err != nil {
				dataset.Errorf("viewer: %v", err)
				dialog.ShowError(err, state.window)
				return
			}
			dataset.TimeTrack(start, "load "+path)
			state.dataPath = path
			state.restoring = true
			state.store.SetDataset(ds)
			loadPrefs(state)
			state.restoring = false
			savePrefs(state)
		})
	}()
}

// menus and dialogs
func buildMenus(state *uiState) {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItem("Reload", func() { loadAsync(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Chart…", func() { exportChartPNG(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	var jump []*fyne.MenuItem
	for i, sc := range state.store.Config().Scenes {
		i := i
		jump = append(jump, fyne.NewMenuItem(fmt.Sprintf("%d. %s", i+1, sc.ID), func() {
			if err := state.store.JumpTo(i); err != nil {
				dataset.Debugf("viewer: %v", err)
			}
		}))
	}
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, fyne.NewMenu("Scenes", jump...)))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.dataPath = rc.URI().Path()
		state.fileLabel.SetText(truncatePath(state.dataPath, 50))
		loadAsync(state)
	}, state.window)
	d.Show()
}

func exportChartPNG(state *uiState) {
	if state.imgCanvas == nil || state.imgCanvas.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	snap := state.store.Snapshot()
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, state.imgCanvas.Image); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(screenshotName(snap.Scene, snap.SceneID))
	fs.Show()
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	snap := state.store.Snapshot()
	prefs := state.app.Preferences()
	prefs.SetString(prefDataPath, state.dataPath)
	prefs.SetInt(prefScene, snap.Scene)
	prefs.SetString(prefStatus, string(snap.SelectedStatus))
	prefs.SetString(prefMetric, string(snap.SelectedMetric))
	prefs.SetString(prefCountry, snap.SelectedCountry)
	prefs.SetInt(prefYearMin, snap.YearRange.Min)
	prefs.SetInt(prefYearMax, snap.YearRange.Max)
}

// loadPrefs replays saved parameters through the store; values the new dataset
// rejects are skipped. A --scene flag wins over the saved scene.
func loadPrefs(state *uiState) {
	prefs := state.app.Preferences()
	store := state.store
	replay := func(key string, v interface{}) {
		if err := store.SetParameter(key, v); err != nil {
			dataset.Debugf("viewer: saved %s not restored: %v", key, err)
		}
	}
	if v := prefs.String(prefStatus); v != "" {
		replay(scenes.KeySelectedStatus, v)
	}
	if v := prefs.String(prefMetric); v != "" {
		replay(scenes.KeySelectedMetric, v)
	}
	if v := prefs.String(prefCountry); v != "" {
		replay(scenes.KeySelectedCountry, v)
	}
	lo, hi := prefs.Int(prefYearMin), prefs.Int(prefYearMax)
	if lo != 0 || hi != 0 {
		replay(scenes.KeyYearRange, types.YearRange{Min: lo, Max: hi})
	}
	if *sceneFlag != "" {
		if err := store.JumpToID(*sceneFlag); err != nil {
			dataset.Warnf("viewer: %v", err)
		}
		return
	}
	store.SetScene(prefs.IntWithFallback(prefScene, 0))
}

func truncatePath(p string, n int) string {
	if len(p) <= n || n < 4 {
		return p
	}
	return "…" + p[len(p)-n+1:]
}
