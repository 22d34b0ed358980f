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

	jsoniter "github.com/json-iterator/go"
)

// Params holds the parts of a simulator run descriptor (params.json)
// that are needed to find and reassemble the terrain tiles. Keys are
// matched case-sensitively because the descriptor may carry both the
// global extent NX and the per-process extents nx.
type Params struct {
	NX int `json:"NX"`
	NY int `json:"NY"`
	NZ int `json:"NZ"`

	PX int `json:"PX"`
	PY int `json:"PY"`
	PZ int `json:"PZ"`

	// Optional per-process extents and offsets. When they are
	// missing they are computed the same way the simulator
	// decomposes its domain.
	Nx      []int `json:"nx"`
	Ny      []int `json:"ny"`
	Nz      []int `json:"nz"`
	FrontNX []int `json:"frontNX"`
	FrontNY []int `json:"frontNY"`
	FrontNZ []int `json:"frontNZ"`

	FastAxis string `json:"FAST_AXIS"`

	// Out is the simulator output directory. The simulator itself
	// reads the upper-case OUT key, so both are accepted.
	Out string `json:"out"`
	OUT string `json:"OUT"`

	SliceX int `json:"sliceX"`
	SliceY int `json:"sliceY"`
	SliceZ int `json:"sliceZ"`
}

// OutputDir returns the simulator output location.
func (p *Params) OutputDir() string {
	if p.Out != "" {
		return p.Out
	}
	return p.OUT
}

var paramsJSON = jsoniter.Config{
	EscapeHTML:    true,
	CaseSensitive: true,
}.Froze()

// DecodeParams reads a run descriptor from r.
func DecodeParams(r io.Reader) (*Params, error) {
	p := new(Params)
	if err := paramsJSON.NewDecoder(r).Decode(p); err != nil {
		return nil, fmt.Errorf("terrain: decoding run descriptor: %w", err)
	}
	return p, nil
}

// Grid is a resolved domain decomposition.
type Grid struct {
	NX, NY, NZ int
	PX, PY, PZ int

	// Per-process extents.
	Nx, Ny, Nz []int

	// Per-process global offsets; these are the prefix sums of
	// the extents.
	FrontNX, FrontNY, FrontNZ []int
}

// NewGrid resolves and checks the decomposition described by p.
func NewGrid(p *Params) (*Grid, error) {
	g := &Grid{
		NX: p.NX, NY: p.NY, NZ: p.NZ,
		PX: p.PX, PY: p.PY, PZ: p.PZ,
	}
	var err error
	if g.Nx, g.FrontNX, err = resolveAxis("X", p.NX, p.PX, p.Nx, p.FrontNX); err != nil {
		return nil, err
	}
	if g.Ny, g.FrontNY, err = resolveAxis("Y", p.NY, p.PY, p.Ny, p.FrontNY); err != nil {
		return nil, err
	}
	if p.NZ == 0 && len(p.Nz) == 0 {
		// The vertical extent only matters for locating slices.
		if p.PZ <= 0 {
			return nil, fmt.Errorf("%w: PZ=%d but should be > 0", ErrPartition, p.PZ)
		}
		g.Nz, g.FrontNZ = make([]int, p.PZ), make([]int, p.PZ)
		return g, nil
	}
	if g.Nz, g.FrontNZ, err = resolveAxis("Z", p.NZ, p.PZ, p.Nz, p.FrontNZ); err != nil {
		return nil, err
	}
	return g, nil
}

// Decompose splits n cells over p processes. The first n%p processes
// get one extra cell.
func Decompose(n, p int) (extents, fronts []int) {
	extents, fronts = make([]int, p), make([]int, p)
	base, rem := n/p, n%p
	for i := 0; i < p; i++ {
		if i < rem {
			extents[i] = base + 1
			fronts[i] = i * (base + 1)
		} else {
			extents[i] = base
			fronts[i] = i*base + rem
		}
	}
	return extents, fronts
}

func resolveAxis(axis string, n, p int, extents, fronts []int) ([]int, []int, error) {
	if p <= 0 {
		return nil, nil, fmt.Errorf("%w: P%s=%d but should be > 0", ErrPartition, axis, p)
	}
	if n <= 0 {
		return nil, nil, fmt.Errorf("%w: N%s=%d but should be > 0", ErrPartition, axis, n)
	}
	if len(extents) == 0 {
		extents, fronts = Decompose(n, p)
	}
	if len(extents) != p {
		return nil, nil, fmt.Errorf("%w: %d extents along %s for P%s=%d", ErrPartition, len(extents), axis, axis, p)
	}
	if len(fronts) == 0 {
		fronts = make([]int, p)
		for i := 1; i < p; i++ {
			fronts[i] = fronts[i-1] + extents[i-1]
		}
	}
	if len(fronts) != p {
		return nil, nil, fmt.Errorf("%w: %d offsets along %s for P%s=%d", ErrPartition, len(fronts), axis, axis, p)
	}
	sum := 0
	for i, e := range extents {
		if e <= 0 {
			return nil, nil, fmt.Errorf("%w: process %d along %s has extent %d", ErrPartition, i, axis, e)
		}
		if fronts[i] != sum {
			return nil, nil, fmt.Errorf("%w: process %d along %s starts at %d but should start at %d",
				ErrPartition, i, axis, fronts[i], sum)
		}
		sum += e
	}
	if sum != n {
		return nil, nil, fmt.Errorf("%w: extents along %s sum to %d but N%s=%d", ErrPartition, axis, sum, axis, n)
	}
	return extents, fronts, nil
}

// TopProcess returns the vertical process index holding the free surface.
func (g *Grid) TopProcess() int { return g.PZ - 1 }

// Shape returns the shape of a full horizontal array.
func (g *Grid) Shape(order AxisOrder) (rows, cols int) {
	return order.arrange(g.NX, g.NY)
}

// Block is the destination of one process tile within a full array.
type Block struct {
	ProcessX, ProcessY int
	Row, Col           int
	Rows, Cols         int
}

// Blocks returns the destination of every tile in the horizontal
// decomposition, looping over ProcessY outermost.
func (g *Grid) Blocks(order AxisOrder) []Block {
	o := make([]Block, 0, g.PX*g.PY)
	for py := 0; py < g.PY; py++ {
		for px := 0; px < g.PX; px++ {
			b := Block{ProcessX: px, ProcessY: py}
			b.Row, b.Col = order.arrange(g.FrontNX[px], g.FrontNY[py])
			b.Rows, b.Cols = order.arrange(g.Nx[px], g.Ny[py])
			o = append(o, b)
		}
	}
	return o
}

// SliceLocation gives the process owning a global grid point and
// the point's index relative to that process's front offsets.
type SliceLocation struct {
	Process [3]int
	Local   [3]int

	// Inside is false if any index falls outside the grid.
	Inside bool
}

// LocateSlice finds the process holding the global point (x, y, z).
func (g *Grid) LocateSlice(x, y, z int) SliceLocation {
	var l SliceLocation
	var okX, okY bool
	okZ := true
	l.Process[0], l.Local[0], okX = locate(x, g.Nx, g.FrontNX)
	l.Process[1], l.Local[1], okY = locate(y, g.Ny, g.FrontNY)
	if g.NZ > 0 {
		l.Process[2], l.Local[2], okZ = locate(z, g.Nz, g.FrontNZ)
	} else {
		l.Process[2], l.Local[2] = g.TopProcess(), z
	}
	l.Inside = okX && okY && okZ
	return l
}

func locate(i int, extents, fronts []int) (process, local int, ok bool) {
	for p, f := range fronts {
		if i >= f && i < f+extents[p] {
			return p, i - f, true
		}
	}
	return -1, i, false
}
