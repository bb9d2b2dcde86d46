package main

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const captionLineHeight = 16

var (
	backgroundColor = color.RGBA{R: 18, G: 18, B: 18, A: 255}
	captionColor    = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	mutedColor      = color.RGBA{R: 160, G: 170, B: 180, A: 255}
)

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
	return img
}

// drawHint draws a small hint string onto the provided image near the bottom-left.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

// drawCentered writes text in the middle of img.
func drawCentered(img *image.RGBA, text string, col color.Color) {
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	b := img.Bounds()
	tw := dr.MeasureString(text).Ceil()
	dr.Dot = fixed.P(b.Min.X+(b.Dx()-tw)/2, b.Min.Y+b.Dy()/2)
	dr.DrawString(text)
}

// captionHeight is the pixel height drawCaption adds for n lines.
func captionHeight(n int) int {
	if n == 0 {
		return 0
	}
	return n*captionLineHeight + 12
}

// drawCaption returns img extended downwards with one text line per entry.
// Lines starting with "  " are drawn in the muted colour.
func drawCaption(img image.Image, lines []string) image.Image {
	if img == nil || len(lines) == 0 {
		return img
	}
	b := img.Bounds()
	out := blank(b.Dx(), b.Dy()+captionHeight(len(lines)))
	draw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)
	face := basicfont.Face7x13
	y := b.Dy() + captionLineHeight
	for _, l := range lines {
		col := captionColor
		if strings.HasPrefix(l, "  ") {
			col = mutedColor
		}
		dr := &font.Drawer{Dst: out, Src: image.NewUniform(col), Face: face, Dot: fixed.P(12, y)}
		dr.DrawString(l)
		y += captionLineHeight
	}
	return out
}
