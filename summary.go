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
	"io"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a reassembled field.
type Summary struct {
	AxisOrder string `toml:"fast_axis"`
	Rows      int    `toml:"rows"`
	Cols      int    `toml:"cols"`
	Tiles     int    `toml:"tiles"`

	LonMin float64 `toml:"lon_min"`
	LonMax float64 `toml:"lon_max"`
	LatMin float64 `toml:"lat_min"`
	LatMax float64 `toml:"lat_max"`

	TerrainMin    float64 `toml:"terrain_min"`
	TerrainMax    float64 `toml:"terrain_max"`
	TerrainMean   float64 `toml:"terrain_mean"`
	TerrainStdDev float64 `toml:"terrain_stddev"`
}

// Summarize computes the extent and elevation statistics of f, which
// was assembled from the given number of tiles. NaN values are ignored.
func Summarize(f *Field, tiles int) *Summary {
	r, c := f.Dims()
	s := &Summary{
		AxisOrder: f.Order.String(),
		Rows:      r,
		Cols:      c,
		Tiles:     tiles,
	}

	b := geom.NewBounds()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x, y := f.Lon.At(i, j), f.Lat.At(i, j)
			if math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			b.Extend(geom.Point{X: x, Y: y}.Bounds())
		}
	}
	if !b.Empty() {
		s.LonMin, s.LonMax = b.Min.X, b.Max.X
		s.LatMin, s.LatMax = b.Min.Y, b.Max.Y
	}

	if vals := finite(f.Terrain); len(vals) > 0 {
		s.TerrainMin, s.TerrainMax = floats.Min(vals), floats.Max(vals)
		if len(vals) > 1 {
			s.TerrainMean, s.TerrainStdDev = stat.MeanStdDev(vals, nil)
		} else {
			s.TerrainMean = vals[0]
		}
	}
	return s
}

// Fields returns s as log fields.
func (s *Summary) Fields() logrus.Fields {
	return logrus.Fields{
		"fast_axis":      s.AxisOrder,
		"rows":           s.Rows,
		"cols":           s.Cols,
		"tiles":          s.Tiles,
		"lon":            fmt.Sprintf("[%.3f, %.3f]", s.LonMin, s.LonMax),
		"lat":            fmt.Sprintf("[%.3f, %.3f]", s.LatMin, s.LatMax),
		"terrain":        fmt.Sprintf("[%.3f, %.3f]", s.TerrainMin, s.TerrainMax),
		"terrain_mean":   s.TerrainMean,
		"terrain_stddev": s.TerrainStdDev,
	}
}

// Encode writes s to w in TOML format.
func (s *Summary) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("terrain: encoding summary: %w", err)
	}
	return nil
}

// WriteSummaryFile writes s to a TOML file at path.
func WriteSummaryFile(path string, s *Summary) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("terrain: creating summary file: %w", err)
	}
	if err := s.Encode(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// finite returns the values of m that are not NaN or infinite.
func finite(m mat.Matrix) []float64 {
	r, c := m.Dims()
	o := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); !math.IsNaN(v) && !math.IsInf(v, 0) {
				o = append(o, v)
			}
		}
	}
	return o
}
