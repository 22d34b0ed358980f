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

// Package terrainutil holds the configuration handling and the
// command-line interface of the terrain tools.
package terrainutil

import (
	"context"
	"fmt"
	"time"

	"github.com/cgfdm3d/terrain"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is the logger used by the commands.
var Log = logrus.StandardLogger()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the terrain tools.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print.
              Valid options are "debug", "info", "warning" and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "params",
			usage: `
              params is the path to the run descriptor (params.json) of the
              simulation whose terrain should be checked. It can include
              environment variables.`,
			shorthand:  "p",
			defaultVal: "params.json",
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
		{
			name: "sample",
			usage: `
              sample is the stride used to thin the grid before plotting.
              Every sample-th row and column is drawn; 1 draws every cell.`,
			shorthand:  "s",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
		{
			name: "ImageFile",
			usage: `
              ImageFile is the path of the terrain image. Its directory must
              exist. It can include environment variables. If it is empty,
              no image is drawn.`,
			defaultVal: "./img/terrain.png",
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
		{
			name: "DataFile",
			usage: `
              DataFile is the path of the text file holding one
              "lon lat terrain" line per grid point. Its directory must
              exist. It can include environment variables.`,
			defaultVal: "./data/terrain.txt",
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
		{
			name: "NetCDFFile",
			usage: `
              NetCDFFile is the path of an optional netCDF copy of the
              reassembled terrain. It can include environment variables.
              If it is empty, no netCDF file is written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
		{
			name: "SummaryFile",
			usage: `
              SummaryFile is the path of an optional TOML file describing the
              shape, extent and elevation range of the reassembled terrain.
              It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
		{
			name: "DPI",
			usage: `
              DPI is the resolution of the terrain image in dots per inch.`,
			defaultVal: 300,
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
		{
			name: "FigWidth",
			usage: `
              FigWidth is the width of the terrain image in inches.`,
			defaultVal: 6.0,
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
		{
			name: "FigHeight",
			usage: `
              FigHeight is the height of the terrain image in inches.`,
			defaultVal: 3.0,
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
		{
			name: "ByteOrder",
			usage: `
              ByteOrder is the byte order of the tile files. Valid options are
              "native", "little" and "big".`,
			defaultVal: "native",
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers is the number of tiles read at the same time.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{verifyCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("TERRAIN")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(verifyCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and configures logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("terrain: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("terrain: LogLevel: %v", err)
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "terrain",
	Short: "Check the terrain of a CGFDM3D simulation.",
	Long: `terrain reassembles the free-surface terrain that a distributed CGFDM3D
simulation wrote as one longitude, latitude and elevation tile per process,
and writes it out as an image and a text table for inspection.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'TERRAIN_var' where 'var' is the
name of the variable to be set. File paths can contain environment variables.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of terrain.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("terrain v%s\n", terrain.Version)
	},
	DisableAutoGenTag: true,
}

// verifyCmd reassembles, plots and exports the terrain of a simulation.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Reassemble and export the simulation terrain.",
	Long: `verify reads the run descriptor given by --params, reads the longitude,
latitude and terrain tiles written by every process at the top of the vertical
decomposition, and puts them together into full grids. The result is drawn to
ImageFile and written to DataFile with one "lon lat terrain" line per grid point.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		vc, err := VerifyConfigFromViper(Cfg)
		if err != nil {
			return err
		}
		return Verify(context.Background(), vc, Log)
	},
	DisableAutoGenTag: true,
}
