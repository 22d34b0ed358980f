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
	"context"
	"encoding/binary"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Field holds the reassembled terrain surface. All three matrices share
// the shape given by the grid and the axis order.
type Field struct {
	Order AxisOrder

	Lon, Lat, Terrain *mat.Dense
}

// NewField returns a zero-valued field sized for g.
func NewField(g *Grid, order AxisOrder) *Field {
	r, c := g.Shape(order)
	return &Field{
		Order:   order,
		Lon:     mat.NewDense(r, c, nil),
		Lat:     mat.NewDense(r, c, nil),
		Terrain: mat.NewDense(r, c, nil),
	}
}

// Dims returns the shape of the field arrays.
func (f *Field) Dims() (r, c int) { return f.Terrain.Dims() }

// Get returns the array holding the named field.
func (f *Field) Get(name FieldName) *mat.Dense {
	switch name {
	case Lon:
		return f.Lon
	case Lat:
		return f.Lat
	case Terrain:
		return f.Terrain
	default:
		panic("terrain: unknown field " + string(name))
	}
}

// AssembleOptions control how tiles are read.
type AssembleOptions struct {
	// ByteOrder of the tile files. The default is the byte
	// order of the machine running the assembly.
	ByteOrder binary.ByteOrder

	// Workers is the number of tiles read concurrently.
	// Values < 2 read tiles one at a time.
	Workers int

	// Logger receives one entry per tile. The default
	// is the logrus standard logger.
	Logger logrus.FieldLogger
}

// Assemble reads every free-surface tile of g from s and copies it into
// its block of a new Field. Each cell of the field is written by exactly
// one tile. The first error encountered stops the assembly.
func Assemble(ctx context.Context, s *TileStore, g *Grid, order AxisOrder, opts *AssembleOptions) (*Field, error) {
	if opts == nil {
		opts = new(AssembleOptions)
	}
	bo := opts.ByteOrder
	if bo == nil {
		bo = binary.NativeEndian
	}
	var log logrus.FieldLogger = logrus.StandardLogger()
	if opts.Logger != nil {
		log = opts.Logger
	}

	f := NewField(g, order)
	blocks := g.Blocks(order)
	pz := g.TopProcess()

	place := func(ctx context.Context, b Block) error {
		log.WithFields(logrus.Fields{
			"processX": b.ProcessX,
			"processY": b.ProcessY,
			"nx":       g.Nx[b.ProcessX],
			"ny":       g.Ny[b.ProcessY],
		}).Info("reading terrain tile")
		for _, name := range Fields {
			t, err := ReadTile(ctx, s, TileKey(name, b.ProcessX, b.ProcessY, pz), b.Rows, b.Cols, bo)
			if err != nil {
				return err
			}
			dst := f.Get(name).Slice(b.Row, b.Row+b.Rows, b.Col, b.Col+b.Cols).(*mat.Dense)
			dst.Copy(t)
		}
		return nil
	}

	nprocs := opts.Workers
	if nprocs > len(blocks) {
		nprocs = len(blocks)
	}
	if nprocs < 2 {
		for _, b := range blocks {
			if err := place(ctx, b); err != nil {
				return nil, err
			}
		}
		return f, nil
	}

	// Blocks are disjoint, so the workers can share the field
	// arrays without locking.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for ii := pp; ii < len(blocks); ii += nprocs {
				if ctx.Err() != nil {
					return
				}
				if err := place(ctx, blocks[ii]); err != nil {
					once.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
			}
		}(pp)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f, nil
}
