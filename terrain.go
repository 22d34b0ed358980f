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

// Package terrain reassembles the free-surface terrain written by the
// CGFDM3D seismic wave simulator. The simulator decomposes its domain over
// PX×PY×PZ processes and each process at the top of the vertical
// decomposition writes its own longitude, latitude and elevation tiles.
// This package puts those tiles back together into full two-dimensional
// arrays and writes them out as an image, a text table, a netCDF file
// and a short summary, so the terrain used by a run can be checked.
package terrain

import "errors"

// Version gives the version number.
const Version = "1.2.0"

var (
	// ErrPartition is returned when a grid descriptor does not describe
	// a complete, non-overlapping decomposition of the domain.
	ErrPartition = errors.New("terrain: invalid domain partition")

	// ErrAxisOrder is returned for an unknown FAST_AXIS value.
	ErrAxisOrder = errors.New("terrain: invalid axis order")

	// ErrTileNotFound is returned when a tile file does not exist.
	ErrTileNotFound = errors.New("terrain: tile not found")

	// ErrTileSize is returned when a tile file does not hold exactly
	// the number of values its partition requires.
	ErrTileSize = errors.New("terrain: tile size mismatch")

	// ErrShape is returned when matrices that should share a shape don't.
	ErrShape = errors.New("terrain: shape mismatch")

	// ErrStride is returned for a subsampling stride < 1.
	ErrStride = errors.New("terrain: invalid stride")

	// ErrFigure is returned for a figure too small to hold the plot
	// or with a resolution < 1 DPI.
	ErrFigure = errors.New("terrain: invalid figure size")
)
