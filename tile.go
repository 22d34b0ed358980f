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
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// FieldName is the file name prefix of one of the coordinate or
// elevation fields the simulator writes.
type FieldName string

// These are the fields that make up the terrain surface.
const (
	Lon     FieldName = "lon"
	Lat     FieldName = "lat"
	Terrain FieldName = "terrain"
)

// Fields lists the terrain fields in output column order.
var Fields = []FieldName{Lon, Lat, Terrain}

// TileKey returns the name of the file written by process (px, py, pz)
// for field f.
func TileKey(f FieldName, px, py, pz int) string {
	return fmt.Sprintf("%s_mpi_%d_%d_%d.bin", f, px, py, pz)
}

// ParseByteOrder parses "native", "little" or "big".
func ParseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "native", "":
		return binary.NativeEndian, nil
	case "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("terrain: invalid byte order %q; should be native, little or big", s)
	}
}

// DecodeTile interprets b as rows×cols 32-bit floats in row-major order.
// b must hold exactly rows×cols values.
func DecodeTile(b []byte, rows, cols int, order binary.ByteOrder) (*mat.Dense, error) {
	n := rows * cols
	if len(b) != 4*n {
		return nil, fmt.Errorf("%w: have %d bytes, want %d float32 values (%d bytes)",
			ErrTileSize, len(b), n, 4*n)
	}
	v32 := make([]float32, n)
	if err := binary.Read(bytes.NewReader(b), order, v32); err != nil {
		return nil, fmt.Errorf("terrain: decoding tile: %w", err)
	}
	v := make([]float64, n)
	for i, f := range v32 {
		v[i] = float64(f)
	}
	return mat.NewDense(rows, cols, v), nil
}

// ReadTile reads the tile stored at key into a rows×cols matrix.
func ReadTile(ctx context.Context, s *TileStore, key string, rows, cols int, order binary.ByteOrder) (*mat.Dense, error) {
	b, err := s.ReadAll(ctx, key)
	if err != nil {
		return nil, err
	}
	m, err := DecodeTile(b, rows, cols, order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return m, nil
}

// EncodeTile is the inverse of DecodeTile. It is used to write fixtures
// in the simulator's format.
func EncodeTile(m mat.Matrix, order binary.ByteOrder) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, order, float32s(m)) // Writes to a bytes.Buffer don't fail.
	return buf.Bytes()
}
