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
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecompose(t *testing.T) {
	for _, test := range []struct {
		n, p            int
		extents, fronts []int
	}{
		{n: 10, p: 3, extents: []int{4, 3, 3}, fronts: []int{0, 4, 7}},
		{n: 5, p: 2, extents: []int{3, 2}, fronts: []int{0, 3}},
		{n: 8, p: 4, extents: []int{2, 2, 2, 2}, fronts: []int{0, 2, 4, 6}},
		{n: 4, p: 1, extents: []int{4}, fronts: []int{0}},
	} {
		extents, fronts := Decompose(test.n, test.p)
		if !reflect.DeepEqual(extents, test.extents) {
			t.Errorf("Decompose(%d, %d) extents = %v; want %v", test.n, test.p, extents, test.extents)
		}
		if !reflect.DeepEqual(fronts, test.fronts) {
			t.Errorf("Decompose(%d, %d) fronts = %v; want %v", test.n, test.p, fronts, test.fronts)
		}
	}
}

func unevenParams() *Params {
	return &Params{
		NX: 5, NY: 5, NZ: 4,
		PX: 2, PY: 2, PZ: 2,
		Nx: []int{3, 2}, Ny: []int{4, 1},
		FrontNX: []int{0, 3}, FrontNY: []int{0, 4},
		FastAxis: "Z",
		Out:      "output",
	}
}

func TestBlocksCoverage(t *testing.T) {
	g, err := NewGrid(unevenParams())
	if err != nil {
		t.Fatal(err)
	}
	for _, order := range []AxisOrder{ZFast, XFast} {
		t.Run(order.String(), func(t *testing.T) {
			rows, cols := g.Shape(order)
			count := make([][]int, rows)
			for i := range count {
				count[i] = make([]int, cols)
			}
			blocks := g.Blocks(order)
			if len(blocks) != 4 {
				t.Fatalf("have %d blocks, want 4", len(blocks))
			}
			for _, b := range blocks {
				for i := b.Row; i < b.Row+b.Rows; i++ {
					for j := b.Col; j < b.Col+b.Cols; j++ {
						count[i][j]++
					}
				}
			}
			for i := range count {
				for j, c := range count[i] {
					if c != 1 {
						t.Errorf("cell (%d, %d) written %d times", i, j, c)
					}
				}
			}
		})
	}
}

func TestBlocksOrder(t *testing.T) {
	g, err := NewGrid(unevenParams())
	if err != nil {
		t.Fatal(err)
	}
	want := []Block{
		{ProcessX: 0, ProcessY: 0, Row: 0, Col: 0, Rows: 3, Cols: 4},
		{ProcessX: 1, ProcessY: 0, Row: 3, Col: 0, Rows: 2, Cols: 4},
		{ProcessX: 0, ProcessY: 1, Row: 0, Col: 4, Rows: 3, Cols: 1},
		{ProcessX: 1, ProcessY: 1, Row: 3, Col: 4, Rows: 2, Cols: 1},
	}
	if have := g.Blocks(ZFast); !reflect.DeepEqual(have, want) {
		t.Errorf("ZFast blocks:\nhave %+v\nwant %+v", have, want)
	}
	wantX := []Block{
		{ProcessX: 0, ProcessY: 0, Row: 0, Col: 0, Rows: 4, Cols: 3},
		{ProcessX: 1, ProcessY: 0, Row: 0, Col: 3, Rows: 4, Cols: 2},
		{ProcessX: 0, ProcessY: 1, Row: 4, Col: 0, Rows: 1, Cols: 3},
		{ProcessX: 1, ProcessY: 1, Row: 4, Col: 3, Rows: 1, Cols: 2},
	}
	if have := g.Blocks(XFast); !reflect.DeepEqual(have, wantX) {
		t.Errorf("XFast blocks:\nhave %+v\nwant %+v", have, wantX)
	}
}

func TestNewGridDefaults(t *testing.T) {
	g, err := NewGrid(&Params{NX: 10, NY: 7, PX: 3, PY: 2, PZ: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(g.Nx, []int{4, 3, 3}) || !reflect.DeepEqual(g.FrontNX, []int{0, 4, 7}) {
		t.Errorf("x decomposition = %v, %v", g.Nx, g.FrontNX)
	}
	if !reflect.DeepEqual(g.Ny, []int{4, 3}) || !reflect.DeepEqual(g.FrontNY, []int{0, 4}) {
		t.Errorf("y decomposition = %v, %v", g.Ny, g.FrontNY)
	}
	if g.TopProcess() != 0 {
		t.Errorf("top process = %d; want 0", g.TopProcess())
	}
}

func TestNewGridInvalid(t *testing.T) {
	for name, modify := range map[string]func(p *Params){
		"gap":          func(p *Params) { p.FrontNX = []int{0, 4} },
		"overlap":      func(p *Params) { p.FrontNY = []int{0, 3} },
		"short":        func(p *Params) { p.Nx = []int{3, 1}; p.FrontNX = nil },
		"count":        func(p *Params) { p.Ny = []int{5}; p.FrontNY = []int{0} },
		"empty":        func(p *Params) { p.Nx = []int{5, 0}; p.FrontNX = []int{0, 5} },
		"no processes": func(p *Params) { p.PX = 0 },
		"no vertical":  func(p *Params) { p.NZ = 0; p.PZ = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			p := unevenParams()
			modify(p)
			if _, err := NewGrid(p); !errors.Is(err, ErrPartition) {
				t.Errorf("err = %v; want ErrPartition", err)
			}
		})
	}
}

func TestLocateSlice(t *testing.T) {
	g, err := NewGrid(unevenParams())
	if err != nil {
		t.Fatal(err)
	}
	l := g.LocateSlice(4, 2, 3)
	want := SliceLocation{Process: [3]int{1, 0, 1}, Local: [3]int{1, 2, 1}, Inside: true}
	if l != want {
		t.Errorf("LocateSlice(4, 2, 3) = %+v; want %+v", l, want)
	}
	if l := g.LocateSlice(5, 0, 0); l.Inside {
		t.Errorf("LocateSlice(5, 0, 0) should be outside the grid: %+v", l)
	}
}

func TestDecodeParams(t *testing.T) {
	const js = `{"NX": 5, "NY": 5, "NZ": 4, "PX": 2, "PY": 2, "PZ": 2,
		"nx": [3, 2], "ny": [4, 1], "frontNX": [0, 3], "frontNY": [0, 4],
		"FAST_AXIS": "Z", "OUT": "output", "sliceX": 4, "sliceY": 2, "sliceZ": 3}`
	p, err := DecodeParams(strings.NewReader(js))
	if err != nil {
		t.Fatal(err)
	}
	want := unevenParams()
	want.Out, want.OUT = "", "output"
	want.SliceX, want.SliceY, want.SliceZ = 4, 2, 3
	if !reflect.DeepEqual(p, want) {
		t.Errorf("have %+v\nwant %+v", p, want)
	}
	if p.OutputDir() != "output" {
		t.Errorf("output dir = %q", p.OutputDir())
	}
}

func TestDecodeParamsMalformed(t *testing.T) {
	for name, js := range map[string]string{
		"truncated":     `{"NX": 5, "NY": 5, "nx": [3,`,
		"wrong type":    `{"NX": "five"}`,
		"wrong element": `{"nx": [3, "two"]}`,
		"empty":         ``,
	} {
		if _, err := DecodeParams(strings.NewReader(js)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
