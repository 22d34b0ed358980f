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
	"fmt"
	"os"

	"github.com/cgfdm3d/terrain"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"gonum.org/v1/plot/vg"
)

// VerifyConfig holds the settings of the verify command.
type VerifyConfig struct {
	// ParamsFile is the run descriptor.
	ParamsFile string

	// Output files. ImageFile, NetCDFFile and SummaryFile are skipped
	// when empty.
	ImageFile, DataFile, NetCDFFile, SummaryFile string

	ByteOrder string
	Workers   int

	Render terrain.RenderOptions
}

// VerifyConfigFromViper reads the verify settings from cfg, expanding
// environment variables in file paths.
func VerifyConfigFromViper(cfg *viper.Viper) (*VerifyConfig, error) {
	vc := &VerifyConfig{
		ParamsFile:  os.ExpandEnv(cfg.GetString("params")),
		ImageFile:   os.ExpandEnv(cfg.GetString("ImageFile")),
		DataFile:    os.ExpandEnv(cfg.GetString("DataFile")),
		NetCDFFile:  os.ExpandEnv(cfg.GetString("NetCDFFile")),
		SummaryFile: os.ExpandEnv(cfg.GetString("SummaryFile")),
		ByteOrder:   cfg.GetString("ByteOrder"),
		Render:      terrain.DefaultRenderOptions(),
	}
	var err error
	if vc.Render.Stride, err = cast.ToIntE(cfg.Get("sample")); err != nil {
		return nil, fmt.Errorf("terrain: invalid sample: %v", err)
	}
	if vc.Render.Stride < 1 {
		return nil, fmt.Errorf("terrain: sample is %d but should be >= 1", vc.Render.Stride)
	}
	if vc.Render.DPI, err = cast.ToIntE(cfg.Get("DPI")); err != nil {
		return nil, fmt.Errorf("terrain: invalid DPI: %v", err)
	}
	if vc.Render.DPI < 1 {
		return nil, fmt.Errorf("terrain: DPI is %d but should be >= 1", vc.Render.DPI)
	}
	if vc.Workers, err = cast.ToIntE(cfg.Get("workers")); err != nil {
		return nil, fmt.Errorf("terrain: invalid workers: %v", err)
	}
	w, err := cast.ToFloat64E(cfg.Get("FigWidth"))
	if err != nil {
		return nil, fmt.Errorf("terrain: invalid FigWidth: %v", err)
	}
	h, err := cast.ToFloat64E(cfg.Get("FigHeight"))
	if err != nil {
		return nil, fmt.Errorf("terrain: invalid FigHeight: %v", err)
	}
	vc.Render.Width = vg.Length(w) * vg.Inch
	vc.Render.Height = vg.Length(h) * vg.Inch
	if err := vc.Render.Check(); err != nil {
		return nil, err
	}
	if vc.DataFile == "" {
		return nil, fmt.Errorf("terrain: DataFile must be set")
	}
	return vc, nil
}

// LoadParams reads the run descriptor at path.
func LoadParams(path string) (*terrain.Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("terrain: opening run descriptor: %w", err)
	}
	defer f.Close()
	p, err := terrain.DecodeParams(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
