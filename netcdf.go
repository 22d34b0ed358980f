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
	"os"

	"github.com/ctessum/cdf"
	"gonum.org/v1/gonum/mat"
)

var netCDFVars = []struct {
	name               FieldName
	description, units string
}{
	{Lon, "Longitude of the free-surface grid point", "degrees_east"},
	{Lat, "Latitude of the free-surface grid point", "degrees_north"},
	{Terrain, "Elevation of the free surface", "m"},
}

// WriteNetCDF writes the three arrays of f as float32 variables of a
// netCDF file at path. The dimension order follows the array shape:
// (x, y) for ZFast fields and (y, x) for XFast fields.
func WriteNetCDF(path string, f *Field) error {
	r, c := f.Dims()
	dims := f.Order.Dims()
	h := cdf.NewHeader(dims, []int{r, c})
	h.AddAttribute("", "comment", "Free-surface terrain reassembled from simulator tiles")
	h.AddAttribute("", "FAST_AXIS", f.Order.String())
	for _, v := range netCDFVars {
		h.AddVariable(string(v.name), dims, []float32{0})
		h.AddAttribute(string(v.name), "description", v.description)
		h.AddAttribute(string(v.name), "units", v.units)
	}
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("terrain: creating netCDF file: %w", err)
	}
	cf, err := cdf.Create(ff, h) // writes the header to ff
	if err != nil {
		ff.Close()
		return fmt.Errorf("terrain: writing netCDF header: %w", err)
	}
	for _, v := range netCDFVars {
		w := cf.Writer(string(v.name), []int{0, 0}, []int{r, c})
		if _, err := w.Write(float32s(f.Get(v.name))); err != nil {
			ff.Close()
			return fmt.Errorf("terrain: writing netCDF variable %s: %w", v.name, err)
		}
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		ff.Close()
		return fmt.Errorf("terrain: writing netCDF file: %w", err)
	}
	return ff.Close()
}

// float32s flattens m in row-major order.
func float32s(m mat.Matrix) []float32 {
	r, c := m.Dims()
	o := make([]float32, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			o = append(o, float32(m.At(i, j)))
		}
	}
	return o
}
