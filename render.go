/*
Copyright © 2021 the CGFDM3D authors.
This file is part of terrain.

terrain is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

terrain is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with terrain.  If not, see <http://www.gnu.org/licenses/>.
*/

package terrain

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Pcolor is a pseudocolor plotter for a curvilinear grid. X and Y give
// the coordinates of the grid points and C the values that are mapped to
// colors. Each point is drawn as a cell centered on it, with corners
// halfway to the neighboring points and extrapolated by half a step at
// the edges. Along an axis of length one the cells have zero width.
type Pcolor struct {
	X, Y, C mat.Matrix

	// ColorMap must have its range set before plotting.
	ColorMap palette.ColorMap
}

// NewPcolor returns a new pseudocolor plotter.
func NewPcolor(x, y, c mat.Matrix, cm palette.ColorMap) (*Pcolor, error) {
	r, cc := c.Dims()
	for _, m := range []mat.Matrix{x, y} {
		if mr, mc := m.Dims(); mr != r || mc != cc {
			return nil, fmt.Errorf("%w: coordinates are %dx%d but values are %dx%d", ErrShape, mr, mc, r, cc)
		}
	}
	return &Pcolor{X: x, Y: y, C: c, ColorMap: cm}, nil
}

// Plot implements the plot.Plotter interface.
func (pc *Pcolor) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	cx, cy := cellCorners(pc.X), cellCorners(pc.Y)
	r, cols := pc.C.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			v := pc.C.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			pts := make([]vg.Point, 0, 4)
			for _, k := range [4][2]int{{i, j}, {i + 1, j}, {i + 1, j + 1}, {i, j + 1}} {
				x, y := cx.At(k[0], k[1]), cy.At(k[0], k[1])
				if math.IsNaN(x) || math.IsNaN(y) {
					break
				}
				pts = append(pts, vg.Point{X: trX(x), Y: trY(y)})
			}
			if len(pts) < 4 {
				continue
			}
			c.FillPolygon(pc.color(v), pts)
		}
	}
}

func (pc *Pcolor) color(v float64) color.Color {
	v = math.Max(pc.ColorMap.Min(), math.Min(pc.ColorMap.Max(), v))
	clr, err := pc.ColorMap.At(v)
	if err != nil {
		return color.Transparent
	}
	return clr
}

// cellCorners returns the (r+1)×(c+1) corners of the cells centered on
// the r×c points of m.
func cellCorners(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	rowWise := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		rowWise.SetRow(i, edges(mat.Row(nil, i, m)))
	}
	o := mat.NewDense(r+1, c+1, nil)
	for j := 0; j < c+1; j++ {
		o.SetCol(j, edges(mat.Col(nil, j, rowWise)))
	}
	return o
}

// edges returns the len(v)+1 boundaries of the intervals centered on v.
func edges(v []float64) []float64 {
	n := len(v)
	o := make([]float64, n+1)
	if n == 1 {
		o[0], o[1] = v[0], v[0]
		return o
	}
	o[0] = v[0] - (v[1]-v[0])/2
	for i := 1; i < n; i++ {
		o[i] = v[i-1] + (v[i]-v[i-1])/2
	}
	o[n] = v[n-1] + (v[n-1]-v[n-2])/2
	return o
}

// Bounds returns the extent of the cell corners.
func (pc *Pcolor) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	cx, cy := cellCorners(pc.X), cellCorners(pc.Y)
	r, c := cx.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x, y := cx.At(i, j), cy.At(i, j)
			if math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			b.Extend(geom.Point{X: x, Y: y}.Bounds())
		}
	}
	return b
}

// DataRange implements the plot.DataRanger interface.
func (pc *Pcolor) DataRange() (xmin, xmax, ymin, ymax float64) {
	b := pc.Bounds()
	if b.Empty() {
		return 0, 0, 0, 0
	}
	return b.Min.X, b.Max.X, b.Min.Y, b.Max.Y
}

// RenderOptions specify the terrain figure.
type RenderOptions struct {
	// Stride keeps every Stride-th row and column of the field.
	Stride int

	// Width and Height are the figure size and DPI its resolution.
	Width, Height vg.Length
	DPI           int

	// ColorBarWidth is the part of the figure used for the color bar.
	ColorBarWidth vg.Length

	// ColorMap maps elevation to color. Its range is set from
	// the data. The default is moreland.ExtendedKindlmann().
	ColorMap palette.ColorMap
}

// minPlotSize is the smallest main plot, color bar excluded, that
// leaves room for the axes and a data area.
const minPlotSize = 1.5 * vg.Inch

// Check returns an error if the figure described by o can't be drawn.
func (o RenderOptions) Check() error {
	if o.Stride < 1 {
		return fmt.Errorf("%w: %d", ErrStride, o.Stride)
	}
	if o.DPI < 1 {
		return fmt.Errorf("%w: DPI is %d but should be >= 1", ErrFigure, o.DPI)
	}
	if !(o.Width-o.ColorBarWidth >= minPlotSize) || !(o.Height >= minPlotSize) {
		return fmt.Errorf("%w: %.2gx%.2g inches with a %.2g inch color bar; the plot needs at least %.2gx%.2g inches",
			ErrFigure, o.Width/vg.Inch, o.Height/vg.Inch, o.ColorBarWidth/vg.Inch,
			minPlotSize/vg.Inch, minPlotSize/vg.Inch)
	}
	return nil
}

// DefaultRenderOptions returns a 6×3 inch figure at 300 DPI with no
// subsampling.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Stride:        1,
		Width:         6 * vg.Inch,
		Height:        3 * vg.Inch,
		DPI:           300,
		ColorBarWidth: vg.Inch,
	}
}

type terrainPlots struct {
	main, bar *plot.Plot
	pcolor    *Pcolor
}

func newTerrainPlots(f *Field, opts RenderOptions) (*terrainPlots, error) {
	sub, err := f.Subsample(opts.Stride)
	if err != nil {
		return nil, err
	}
	cm := opts.ColorMap
	if cm == nil {
		cm = moreland.ExtendedKindlmann()
	}
	vals := finite(sub.Terrain)
	min, max := 0., 1.
	if len(vals) > 0 {
		min, max = floats.Min(vals), floats.Max(vals)
	}
	if max <= min {
		max = min + 1
	}
	cm.SetMin(min)
	cm.SetMax(max)

	pc, err := NewPcolor(sub.Lon, sub.Lat, sub.Terrain, cm)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(pc)

	bar := plot.New()
	bar.HideX()
	bar.Y.Label.Text = "Terrain (m)"
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})

	return &terrainPlots{main: p, bar: bar, pcolor: pc}, nil
}

// equalAspect widens one axis of p so that a data unit has the same
// length along both axes of the data area da.
func equalAspect(p *plot.Plot, da vg.Rectangle) {
	size := da.Size()
	xr, yr := p.X.Max-p.X.Min, p.Y.Max-p.Y.Min
	if !(size.X > 0) || !(size.Y > 0) || !(xr > 0) || !(yr > 0) {
		return
	}
	sx, sy := xr/float64(size.X), yr/float64(size.Y)
	if sx > sy {
		grow := sx*float64(size.Y) - yr
		p.Y.Min -= grow / 2
		p.Y.Max += grow / 2
	} else {
		grow := sy*float64(size.X) - xr
		p.X.Min -= grow / 2
		p.X.Max += grow / 2
	}
}

// Render draws the elevation of f over its longitude and latitude with a
// color bar and writes the figure to w as a PNG image.
func Render(w io.Writer, f *Field, opts RenderOptions) error {
	if err := opts.Check(); err != nil {
		return err
	}
	tp, err := newTerrainPlots(f, opts)
	if err != nil {
		return err
	}
	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	dc := draw.New(c)
	mainc := draw.Crop(dc, 0, -opts.ColorBarWidth, 0, 0)
	barc := draw.Crop(dc, opts.Width-opts.ColorBarWidth, 0, 0, 0)

	da := tp.main.DataCanvas(mainc).Rectangle
	if size := da.Size(); !(size.X > 0) || !(size.Y > 0) {
		return fmt.Errorf("%w: no room left for the data area", ErrFigure)
	}
	equalAspect(tp.main, da)
	tp.main.Draw(mainc)
	tp.bar.Draw(barc)

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("terrain: writing image: %w", err)
	}
	return nil
}

// RenderFile renders f to the PNG file at path. The directory
// must already exist.
func RenderFile(path string, f *Field, opts RenderOptions) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("terrain: creating image file: %w", err)
	}
	if err := Render(w, f, opts); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
