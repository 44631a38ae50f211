/*
 * main.go, part of govacf.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// govacf prints the velocity autocorrelation function of a LAMMPS dump
// trajectory, one "lag N: value" line per lag.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/rmera/govacf/chemplot"
	"github.com/rmera/govacf/chemstat"
	"github.com/rmera/govacf/config"
	"github.com/rmera/govacf/traj/lammps"
	"github.com/spf13/cobra"
)

const usage = "Please provide a filename as a command line argument."

type flags struct {
	configFile string
	strict     bool
	verbose    bool
	cfg        config.Config
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{cfg: *config.Default()}
	cmd := &cobra.Command{
		Use:           "govacf [dumpfile]",
		Short:         "velocity autocorrelation function of a LAMMPS dump trajectory",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	fl := cmd.Flags()
	fl.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fl.BoolVar(&f.cfg.Centered, "centered", false, "subtract the ensemble mean velocity at each timestep")
	fl.IntVar(&f.cfg.Workers, "workers", 0, "concurrent lag computations (0: one per CPU)")
	fl.StringVar(&f.cfg.Method, "method", f.cfg.Method, "direct or fft")
	fl.Float64Var(&f.cfg.Dt, "dt", 0, "time between frames; if set, the Green-Kubo integral is reported")
	fl.BoolVar(&f.cfg.Normalize, "normalize", false, "divide the curve by its value at lag 0")
	fl.StringVar(&f.cfg.Plot, "plot", "", "save a plot of the curve to this file (png, svg, pdf)")
	fl.BoolVar(&f.cfg.Graph, "graph", false, "print a terminal plot of the curve to stderr")
	fl.StringVar(&f.cfg.Out, "out", "", "also write the lag lines to this file")
	fl.BoolVar(&f.strict, "strict", false, "exit with an error status if the trajectory can't be processed")
	fl.BoolVar(&f.verbose, "verbose", false, "log progress to stderr")
	return cmd
}

// settings merges the config file, if any, with the flags given explicitly.
func settings(cmd *cobra.Command, args []string, f *flags) (*config.Config, error) {
	c := &f.cfg
	if f.configFile != "" {
		var err error
		c, err = config.Load(f.configFile)
		if err != nil {
			return nil, err
		}
		fl := cmd.Flags()
		if fl.Changed("centered") {
			c.Centered = f.cfg.Centered
		}
		if fl.Changed("workers") {
			c.Workers = f.cfg.Workers
		}
		if fl.Changed("method") {
			c.Method = f.cfg.Method
		}
		if fl.Changed("dt") {
			c.Dt = f.cfg.Dt
		}
		if fl.Changed("normalize") {
			c.Normalize = f.cfg.Normalize
		}
		if fl.Changed("plot") {
			c.Plot = f.cfg.Plot
		}
		if fl.Changed("graph") {
			c.Graph = f.cfg.Graph
		}
		if fl.Changed("out") {
			c.Out = f.cfg.Out
		}
	}
	if len(args) > 0 {
		c.Traj = args[0]
	}
	return c, c.Check()
}

func run(cmd *cobra.Command, args []string, f *flags, stdout, stderr io.Writer) error {
	logger := log.New(io.Discard, "govacf: ", log.LstdFlags)
	if f.verbose {
		logger.SetOutput(stderr)
		lammps.SetLogger(log.New(stderr, "lammps: ", log.LstdFlags))
	}
	c, err := settings(cmd, args, f)
	if err != nil {
		return err
	}
	if c.Traj == "" {
		fmt.Fprintln(stdout, usage)
		return nil
	}
	opts, err := c.Options()
	if err != nil {
		return err
	}

	logger.Printf("Reading trajectory `%s`", c.Traj)
	frames, err := lammps.ReadFile(c.Traj)
	if err != nil {
		return soft(f, stdout, "Error reading file: %v", err)
	}
	logger.Printf("Read %d frames, calculating the VACF (method %v, centered %v)", len(frames), opts.Method, opts.Centered)
	v, err := chemstat.VACFFrames(frames, opts)
	if err != nil {
		return soft(f, stdout, "Error calculating the VACF: %v", err)
	}
	if c.Normalize {
		if v, err = chemstat.Normalize(v); err != nil {
			return soft(f, stdout, "Error normalizing the VACF: %v", err)
		}
	}

	if err := chemstat.WriteLags(stdout, v); err != nil {
		return err
	}
	if c.Out != "" {
		if err := writeOut(c.Out, v); err != nil {
			return err
		}
		logger.Printf("Wrote %s", c.Out)
	}
	if c.Dt > 0 {
		in, err := chemstat.Integral(v, c.Dt)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Integral %v\n", in)
		if !c.Normalize {
			d, err := chemstat.DiffusionCoefficient(v, c.Dt)
			if err != nil {
				return err
			}
			fmt.Fprintf(stderr, "Diffusion coefficient %v\n", d)
		}
	}
	if c.Graph {
		fmt.Fprintln(stderr, asciigraph.Plot(v,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("VACF")))
	}
	if c.Plot != "" {
		if err := chemplot.PlotVACF(v, c.Dt, "VACF "+c.Traj, c.Plot); err != nil {
			return err
		}
		logger.Printf("Wrote %s", c.Plot)
	}
	logger.Println("Done")
	return nil
}

// soft reports a failure to process the trajectory. Unless --strict was
// given, it is not treated as an error.
func soft(f *flags, stdout io.Writer, format string, err error) error {
	fmt.Fprintf(stdout, format+"\n", err)
	if f.strict {
		return err
	}
	return nil
}

func writeOut(name string, v []float64) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := chemstat.WriteLags(out, v); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
