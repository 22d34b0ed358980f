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

	"gonum.org/v1/gonum/mat"
)

// Subsample returns every stride-th row and column of m, starting
// with the first.
func Subsample(m mat.Matrix, stride int) (*mat.Dense, error) {
	if stride < 1 {
		return nil, fmt.Errorf("%w: %d", ErrStride, stride)
	}
	r, c := m.Dims()
	sr, sc := (r+stride-1)/stride, (c+stride-1)/stride
	o := mat.NewDense(sr, sc, nil)
	for i := 0; i < sr; i++ {
		for j := 0; j < sc; j++ {
			o.Set(i, j, m.At(i*stride, j*stride))
		}
	}
	return o, nil
}

// Subsample applies Subsample to all three arrays of f.
func (f *Field) Subsample(stride int) (*Field, error) {
	if stride == 1 {
		return f, nil
	}
	o := &Field{Order: f.Order}
	var err error
	if o.Lon, err = Subsample(f.Lon, stride); err != nil {
		return nil, err
	}
	if o.Lat, err = Subsample(f.Lat, stride); err != nil {
		return nil, err
	}
	if o.Terrain, err = Subsample(f.Terrain, stride); err != nil {
		return nil, err
	}
	return o, nil
}
