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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WriteText writes one line per cell of f, in row-major order, holding
// the longitude, latitude and elevation of the cell with three decimals.
func WriteText(w io.Writer, f *Field) error {
	b := bufio.NewWriter(w)
	r, c := f.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if _, err := fmt.Fprintf(b, "%.3f %.3f %.3f\n",
				f.Lon.At(i, j), f.Lat.At(i, j), f.Terrain.At(i, j)); err != nil {
				return fmt.Errorf("terrain: writing text: %w", err)
			}
		}
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("terrain: writing text: %w", err)
	}
	return nil
}

// ExportText writes f to the text file at path. The directory
// must already exist.
func ExportText(path string, f *Field) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("terrain: creating text file: %w", err)
	}
	if err := WriteText(w, f); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// ReadText reads the (lon, lat, terrain) rows written by WriteText.
func ReadText(r io.Reader) ([][3]float64, error) {
	var o [][3]float64
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("terrain: text line %d has %d columns, want 3", line, len(fields))
		}
		var row [3]float64
		for i, fs := range fields {
			v, err := strconv.ParseFloat(fs, 64)
			if err != nil {
				return nil, fmt.Errorf("terrain: text line %d: %w", line, err)
			}
			row[i] = v
		}
		o = append(o, row)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("terrain: reading text: %w", err)
	}
	return o, nil
}
