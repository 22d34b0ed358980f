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

package terrainutil

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cgfdm3d/terrain"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// writeRun writes a run descriptor and the tiles of a 2×2 process
// decomposition of a 5×4 grid to dir.
func writeRun(t *testing.T, dir, fastAxis string) string {
	t.Helper()
	out := filepath.Join(dir, "output")
	if err := os.Mkdir(out, 0755); err != nil {
		t.Fatal(err)
	}
	params := fmt.Sprintf(`{
	"NX": 5, "NY": 4, "NZ": 6,
	"PX": 2, "PY": 2, "PZ": 3,
	"nx": [3, 2], "ny": [2, 2],
	"frontNX": [0, 3], "frontNY": [0, 2],
	"FAST_AXIS": %q,
	"out": %q,
	"sliceX": 1, "sliceY": 1, "sliceZ": 5
}`, fastAxis, out)
	pf := filepath.Join(dir, "params.json")
	if err := os.WriteFile(pf, []byte(params), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadParams(pf)
	if err != nil {
		t.Fatal(err)
	}
	g, err := terrain.NewGrid(p)
	if err != nil {
		t.Fatal(err)
	}
	order, err := terrain.ParseAxisOrder(fastAxis)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range g.Blocks(order) {
		for k, name := range terrain.Fields {
			m := mat.NewDense(b.Rows, b.Cols, nil)
			for i := 0; i < b.Rows; i++ {
				for j := 0; j < b.Cols; j++ {
					m.Set(i, j, float64(100*k+10*(b.Row+i)+b.Col+j))
				}
			}
			key := terrain.TileKey(name, b.ProcessX, b.ProcessY, g.TopProcess())
			if err := os.WriteFile(filepath.Join(out, key), terrain.EncodeTile(m, binary.NativeEndian), 0644); err != nil {
				t.Fatal(err)
			}
		}
	}
	return pf
}

func TestVerifyCommand(t *testing.T) {
	for _, axis := range []string{"Z", "X"} {
		t.Run(axis, func(t *testing.T) {
			dir := t.TempDir()
			Cfg.Set("params", writeRun(t, dir, axis))
			Cfg.Set("ImageFile", filepath.Join(dir, "terrain.png"))
			Cfg.Set("DataFile", filepath.Join(dir, "terrain.txt"))
			Cfg.Set("NetCDFFile", filepath.Join(dir, "terrain.nc"))
			Cfg.Set("SummaryFile", filepath.Join(dir, "summary.toml"))
			Cfg.Set("workers", 2)
			Root.SetArgs([]string{"verify"})
			if err := Root.Execute(); err != nil {
				t.Fatal(err)
			}

			for _, f := range []string{"terrain.png", "terrain.nc", "summary.toml"} {
				if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
					t.Error(err)
				}
			}
			b, err := os.ReadFile(filepath.Join(dir, "terrain.txt"))
			if err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
			if len(lines) != 20 {
				t.Fatalf("have %d lines, want 20", len(lines))
			}
			if lines[0] != "0.000 100.000 200.000" {
				t.Errorf("line 0 = %q", lines[0])
			}
			// The second row of the full array starts at line cols.
			cols := 4
			if axis == "X" {
				cols = 5
			}
			if want := "10.000 110.000 210.000"; lines[cols] != want {
				t.Errorf("line %d = %q; want %q", cols, lines[cols], want)
			}
		})
	}
}

func TestVerifyMissingTile(t *testing.T) {
	dir := t.TempDir()
	pf := writeRun(t, dir, "Z")
	if err := os.Remove(filepath.Join(dir, "output", terrain.TileKey(terrain.Terrain, 1, 1, 2))); err != nil {
		t.Fatal(err)
	}
	cfg := &VerifyConfig{
		ParamsFile: pf,
		DataFile:   filepath.Join(dir, "terrain.txt"),
		Render:     terrain.DefaultRenderOptions(),
	}
	log := logrus.New()
	log.Out = new(bytes.Buffer)
	err := Verify(context.Background(), cfg, log)
	if !errors.Is(err, terrain.ErrTileNotFound) {
		t.Errorf("err = %v; want ErrTileNotFound", err)
	}
	if _, err := os.Stat(cfg.DataFile); !os.IsNotExist(err) {
		t.Error("no data should be written when a tile is missing")
	}
}

func TestVerifyBadAxis(t *testing.T) {
	dir := t.TempDir()
	pf := writeRun(t, dir, "Z")
	b, err := os.ReadFile(pf)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pf, bytes.Replace(b, []byte(`"FAST_AXIS": "Z"`), []byte(`"FAST_AXIS": "Y"`), 1), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &VerifyConfig{ParamsFile: pf, DataFile: filepath.Join(dir, "terrain.txt"), Render: terrain.DefaultRenderOptions()}
	if err := Verify(context.Background(), cfg, logrus.New()); !errors.Is(err, terrain.ErrAxisOrder) {
		t.Errorf("err = %v; want ErrAxisOrder", err)
	}
}

func TestVerifyConfigFromViper(t *testing.T) {
	cfg := viper.New()
	cfg.Set("params", "$TERRAIN_TEST_DIR/params.json")
	cfg.Set("DataFile", "out.txt")
	cfg.Set("sample", "3")
	cfg.Set("DPI", 100)
	cfg.Set("workers", 4)
	cfg.Set("FigWidth", 8)
	cfg.Set("FigHeight", "4")
	os.Setenv("TERRAIN_TEST_DIR", "/tmp/run")
	defer os.Unsetenv("TERRAIN_TEST_DIR")

	vc, err := VerifyConfigFromViper(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if vc.ParamsFile != "/tmp/run/params.json" {
		t.Errorf("params = %q", vc.ParamsFile)
	}
	if vc.Render.Stride != 3 || vc.Render.DPI != 100 || vc.Workers != 4 {
		t.Errorf("stride, DPI, workers = %d, %d, %d", vc.Render.Stride, vc.Render.DPI, vc.Workers)
	}
	if vc.Render.Width != 8*72 || vc.Render.Height != 4*72 {
		t.Errorf("figure size = %v×%v", vc.Render.Width, vc.Render.Height)
	}

	cfg.Set("sample", 0)
	if _, err := VerifyConfigFromViper(cfg); err == nil {
		t.Error("expected an error for sample = 0")
	}
	cfg.Set("sample", "many")
	if _, err := VerifyConfigFromViper(cfg); err == nil {
		t.Error("expected an error for sample = many")
	}
	cfg.Set("sample", 1)

	for _, bad := range []struct {
		key string
		val interface{}
	}{
		{"DPI", 0},
		{"DPI", -300},
		{"FigWidth", 1.01},
		{"FigWidth", 2.4},
		{"FigHeight", 0.05},
		{"FigHeight", -3},
	} {
		good := cfg.Get(bad.key)
		cfg.Set(bad.key, bad.val)
		if _, err := VerifyConfigFromViper(cfg); err == nil {
			t.Errorf("expected an error for %s = %v", bad.key, bad.val)
		}
		cfg.Set(bad.key, good)
	}
	if _, err := VerifyConfigFromViper(cfg); err != nil {
		t.Errorf("restored configuration: %v", err)
	}
}

func TestVerifyCommandSmallFigure(t *testing.T) {
	dir := t.TempDir()
	Cfg.Set("params", writeRun(t, dir, "Z"))
	Cfg.Set("ImageFile", filepath.Join(dir, "terrain.png"))
	Cfg.Set("DataFile", filepath.Join(dir, "terrain.txt"))
	Cfg.Set("FigWidth", 1.01)
	defer Cfg.Set("FigWidth", 6.0)
	Root.SetArgs([]string{"verify"})
	if err := Root.Execute(); !errors.Is(err, terrain.ErrFigure) {
		t.Errorf("err = %v; want ErrFigure", err)
	}
}

func TestLoadParamsMissing(t *testing.T) {
	if _, err := LoadParams(filepath.Join(t.TempDir(), "params.json")); err == nil {
		t.Error("expected an error")
	}
}

func TestLoadParamsMalformed(t *testing.T) {
	for name, js := range map[string]string{
		"truncated":  `{"NX": 5, "NY": 4, "PX": 2,`,
		"wrong type": `{"NX": "five"}`,
		"not json":   `NX = 5`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "params.json")
			if err := os.WriteFile(path, []byte(js), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadParams(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestVerifyMalformedParams(t *testing.T) {
	dir := t.TempDir()
	pf := filepath.Join(dir, "params.json")
	if err := os.WriteFile(pf, []byte(`{"NX": "five"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &VerifyConfig{ParamsFile: pf, DataFile: filepath.Join(dir, "terrain.txt"), Render: terrain.DefaultRenderOptions()}
	if err := Verify(context.Background(), cfg, logrus.New()); err == nil {
		t.Error("expected an error")
	}
	if _, err := os.Stat(cfg.DataFile); !os.IsNotExist(err) {
		t.Error("no data should be written for a malformed descriptor")
	}
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOut(&buf)
	defer Root.SetOut(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "terrain v" + terrain.Version + "\n"; buf.String() != want {
		t.Errorf("have %q, want %q", buf.String(), want)
	}
}
