package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/ZhiWang-UIUC/Life-Expectancy/src/views"
)

// hoverRadiusPx is how close (in image pixels) the cursor must be to a point.
const hoverRadiusPx = 12

// plotGeometry is the canvas box and axis ranges go-chart settled on while drawing.
type plotGeometry struct {
	box     chart.Box
	x, y    chart.ContinuousRange
	y2      chart.ContinuousRange
	ok, ok2 bool
}

func snapRange(r chart.Range) chart.ContinuousRange {
	return chart.ContinuousRange{Min: r.GetMin(), Max: r.GetMax(), Domain: r.GetDomain(), Descending: r.IsDescending()}
}

func (g *plotGeometry) record(box chart.Box, xr, yr chart.Range, secondary bool) {
	g.box = box
	g.x = snapRange(xr)
	if secondary {
		g.y2, g.ok2 = snapRange(yr), true
		return
	}
	g.y, g.ok = snapRange(yr), true
}

// pixel maps a data point (x already in axis space) to image pixels, the way go-chart draws it.
func (g *plotGeometry) pixel(x, y float64, secondary bool) (float32, float32, bool) {
	yr, ok := g.y, g.ok
	if secondary {
		yr, ok = g.y2, g.ok2
	}
	if !ok || g.x.GetDelta() == 0 || yr.GetDelta() == 0 {
		return 0, 0, false
	}
	px := g.box.Left + g.x.Translate(x)
	py := g.box.Bottom - yr.Translate(y)
	return float32(px), float32(py), true
}

// geometrySeries draws exactly like its ContinuousSeries and records where it drew.
type geometrySeries struct {
	chart.ContinuousSeries
	geo *plotGeometry
}

func (s geometrySeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	s.ContinuousSeries.Render(r, canvasBox, xrange, yrange, defaults)
	s.geo.record(canvasBox, xrange, yrange, s.YAxis == chart.YAxisSecondary)
}

// trackGeometry wraps the line and point series of ch so rendering reports the plot area.
func trackGeometry(ch *chart.Chart) *plotGeometry {
	geo := &plotGeometry{}
	for i, s := range ch.Series {
		if cs, ok := s.(chart.ContinuousSeries); ok {
			ch.Series[i] = geometrySeries{ContinuousSeries: cs, geo: geo}
		}
	}
	return geo
}

// hitPoint is one plotted point in image pixels with its tooltip text.
type hitPoint struct {
	X, Y float32
	Text string
}

// hitPoints places every finite point of vm on the rendered image.
func hitPoints(vm views.ViewModel, geo *plotGeometry) []hitPoint {
	if geo == nil || !vm.Ready() {
		return nil
	}
	xLog := useLogX(vm)
	var out []hitPoint
	for _, s := range vm.Series {
		secondary := s.Axis == views.AxisSecondary
		for i := range s.X {
			x, y := s.X[i], s.Y[i]
			if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
				continue
			}
			ax := x
			if xLog {
				if x <= 0 {
					continue
				}
				ax = math.Log10(x)
			}
			px, py, ok := geo.pixel(ax, y, secondary)
			if !ok {
				continue
			}
			out = append(out, hitPoint{X: px, Y: py, Text: pointText(vm, s, i)})
		}
	}
	return out
}

// pointText names the record under the cursor: country and year, then the plotted values.
func pointText(vm views.ViewModel, s views.Series, i int) string {
	yLabel := vm.YLabel
	if s.Axis == views.AxisSecondary && vm.Y2Label != "" {
		yLabel = vm.Y2Label
	}
	var head string
	switch {
	case i < len(s.Rows):
		head = fmt.Sprintf("%s (%d)", s.Rows[i].Country, s.Rows[i].Year)
	case vm.XYears:
		head = fmt.Sprintf("%s, %d", s.Name, int(s.X[i]))
	default:
		head = s.Name
	}
	lines := []string{head}
	if !vm.XYears {
		lines = append(lines, fmt.Sprintf("%s: %s", vm.XLabel, views.FormatValue(s.X[i])))
	}
	lines = append(lines, fmt.Sprintf("%s: %s", yLabel, views.FormatValue(s.Y[i])))
	return strings.Join(lines, "\n")
}

// nearestHit returns the point closest to (x,y) within radius.
func nearestHit(hits []hitPoint, x, y, radius float32) (hitPoint, bool) {
	best := -1
	bestD := radius * radius
	for i, h := range hits {
		dx, dy := h.X-x, h.Y-y
		if d := dx*dx + dy*dy; d <= bestD {
			bestD = d
			best = i
		}
	}
	if best < 0 {
		return hitPoint{}, false
	}
	return hits[best], true
}

// containRect is where an ImageFillContain image of imgW x imgH lands inside a view.
func containRect(imgW, imgH, viewW, viewH float32) (x, y, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 1
	}
	scale = viewW / imgW
	if s := viewH / imgH; s < scale {
		scale = s
	}
	return (viewW - imgW*scale) / 2, (viewH - imgH*scale) / 2, scale
}

// pointTooltip sits over the chart image and labels the data point under the cursor.
type pointTooltip struct {
	widget.BaseWidget
	img      *canvas.Image
	hits     []hitPoint
	mouse    fyne.Position
	hovering bool
}

func newPointTooltip(img *canvas.Image) *pointTooltip {
	t := &pointTooltip{img: img}
	t.ExtendBaseWidget(t)
	return t
}

// SetHits replaces the points after a redraw.
func (t *pointTooltip) SetHits(h []hitPoint) {
	t.hits = h
	t.Refresh()
}

func (t *pointTooltip) CreateRenderer() fyne.WidgetRenderer {
	// transparent background so the whole chart area receives hover events
	bg := canvas.NewRectangle(color.RGBA{})
	dot := canvas.NewCircle(color.RGBA{})
	dot.StrokeWidth = 2
	labelBG := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 190})
	label := widget.NewRichText()
	label.Wrapping = fyne.TextWrapOff
	r := &tooltipRenderer{t: t, bg: bg, dot: dot, labelBG: labelBG, label: label}
	r.objs = []fyne.CanvasObject{bg, dot, labelBG, label}
	return r
}

type tooltipRenderer struct {
	t       *pointTooltip
	bg      *canvas.Rectangle
	dot     *canvas.Circle
	labelBG *canvas.Rectangle
	label   *widget.RichText
	objs    []fyne.CanvasObject
}

func (r *tooltipRenderer) hide() {
	r.dot.Move(fyne.NewPos(-1000, -1000))
	r.labelBG.Resize(fyne.NewSize(0, 0))
	r.labelBG.Move(fyne.NewPos(-1000, -1000))
	r.label.Move(fyne.NewPos(-1000, -1000))
}

func (r *tooltipRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	t := r.t
	if !t.hovering || len(t.hits) == 0 || t.img == nil || t.img.Image == nil {
		r.hide()
		return
	}
	b := t.img.Image.Bounds()
	dx, dy, scale := containRect(float32(b.Dx()), float32(b.Dy()), size.Width, size.Height)
	ix := (t.mouse.X - dx) / scale
	iy := (t.mouse.Y - dy) / scale
	h, ok := nearestHit(t.hits, ix, iy, hoverRadiusPx)
	if !ok {
		r.hide()
		return
	}
	cx, cy := dx+h.X*scale, dy+h.Y*scale
	r.dot.Resize(fyne.NewSize(10, 10))
	r.dot.Move(fyne.NewPos(cx-5, cy-5))

	r.label.Segments = []widget.RichTextSegment{&widget.TextSegment{Text: h.Text}}
	r.label.Refresh()
	pad := float32(6)
	ts := r.label.MinSize()
	w, hgt := ts.Width+2*pad, ts.Height+2*pad
	tx, ty := cx+10, cy+10
	if tx+w > size.Width {
		tx = cx - 10 - w
	}
	if ty+hgt > size.Height {
		ty = cy - 10 - hgt
	}
	r.labelBG.Resize(fyne.NewSize(w, hgt))
	r.labelBG.Move(fyne.NewPos(tx, ty))
	r.label.Move(fyne.NewPos(tx+pad, ty+pad))
}

func (r *tooltipRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *tooltipRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *tooltipRenderer) Destroy()                     {}

func (r *tooltipRenderer) Refresh() {
	r.dot.StrokeColor = theme.Color(theme.ColorNamePrimary)
	r.Layout(r.t.Size())
	r.bg.Refresh()
	r.dot.Refresh()
	r.labelBG.Refresh()
	r.label.Refresh()
}

func (t *pointTooltip) MouseMoved(ev *desktop.MouseEvent) {
	t.hovering = true
	t.mouse = ev.Position
	t.Refresh()
}
func (t *pointTooltip) MouseIn(ev *desktop.MouseEvent) {
	t.hovering = true
	t.mouse = ev.Position
	t.Refresh()
}
func (t *pointTooltip) MouseOut() { t.hovering = false; t.Refresh() }

var _ desktop.Hoverable = (*pointTooltip)(nil)
