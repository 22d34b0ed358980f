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

import "fmt"

// AxisOrder is the memory layout the simulator was compiled with
// (its FAST_AXIS setting). It decides whether the X or the Y index
// is the row index of the horizontal arrays.
type AxisOrder int

const (
	// ZFast arrays are indexed [x][y].
	ZFast AxisOrder = iota
	// XFast arrays are indexed [y][x].
	XFast
)

// ParseAxisOrder parses a FAST_AXIS value, which must be "Z" or "X".
func ParseAxisOrder(s string) (AxisOrder, error) {
	switch s {
	case "Z":
		return ZFast, nil
	case "X":
		return XFast, nil
	default:
		return ZFast, fmt.Errorf("%w: FAST_AXIS=%q but should be \"Z\" or \"X\"", ErrAxisOrder, s)
	}
}

func (o AxisOrder) String() string {
	switch o {
	case ZFast:
		return "Z"
	case XFast:
		return "X"
	default:
		return fmt.Sprintf("AxisOrder(%d)", int(o))
	}
}

// arrange returns an (x, y) pair as (row, col) for this order.
func (o AxisOrder) arrange(x, y int) (row, col int) {
	if o == ZFast {
		return x, y
	}
	return y, x
}

// Dims returns the netCDF dimension names of the array axes.
func (o AxisOrder) Dims() []string {
	if o == ZFast {
		return []string{"x", "y"}
	}
	return []string{"y", "x"}
}
