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
	"context"
	"fmt"

	"github.com/cgfdm3d/terrain"
	"github.com/sirupsen/logrus"
)

// Verify reassembles the free-surface terrain of the simulation described
// by cfg.ParamsFile and writes it to the configured output files.
func Verify(ctx context.Context, cfg *VerifyConfig, log logrus.FieldLogger) error {
	p, err := LoadParams(cfg.ParamsFile)
	if err != nil {
		return err
	}
	g, err := terrain.NewGrid(p)
	if err != nil {
		return err
	}
	order, err := terrain.ParseAxisOrder(p.FastAxis)
	if err != nil {
		return err
	}
	bo, err := terrain.ParseByteOrder(cfg.ByteOrder)
	if err != nil {
		return err
	}

	loc := g.LocateSlice(p.SliceX, p.SliceY, p.SliceZ)
	sliceLog := log.WithFields(logrus.Fields{
		"process": fmt.Sprint(loc.Process),
		"local":   fmt.Sprint(loc.Local),
	})
	if loc.Inside {
		sliceLog.Debug("output slice location")
	} else {
		sliceLog.Warn("output slice is outside the domain")
	}

	out := p.OutputDir()
	if out == "" {
		return fmt.Errorf("terrain: run descriptor %s has no output directory", cfg.ParamsFile)
	}
	s, err := terrain.OpenTileStore(ctx, out)
	if err != nil {
		return err
	}
	defer s.Close()

	rows, cols := g.Shape(order)
	log.WithFields(logrus.Fields{
		"fast_axis": order.String(),
		"rows":      rows,
		"cols":      cols,
		"processes": g.PX * g.PY,
		"out":       out,
	}).Info("assembling terrain")

	f, err := terrain.Assemble(ctx, s, g, order, &terrain.AssembleOptions{
		ByteOrder: bo,
		Workers:   cfg.Workers,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	if cfg.ImageFile != "" {
		if err := terrain.RenderFile(cfg.ImageFile, f, cfg.Render); err != nil {
			return err
		}
		log.WithField("file", cfg.ImageFile).Info("wrote terrain image")
	}
	if err := terrain.ExportText(cfg.DataFile, f); err != nil {
		return err
	}
	log.WithField("file", cfg.DataFile).Info("wrote terrain data")
	if cfg.NetCDFFile != "" {
		if err := terrain.WriteNetCDF(cfg.NetCDFFile, f); err != nil {
			return err
		}
		log.WithField("file", cfg.NetCDFFile).Info("wrote terrain netCDF file")
	}

	sum := terrain.Summarize(f, g.PX*g.PY)
	log.WithFields(sum.Fields()).Info("terrain summary")
	if cfg.SummaryFile != "" {
		if err := terrain.WriteSummaryFile(cfg.SummaryFile, sum); err != nil {
			return err
		}
	}
	return nil
}
