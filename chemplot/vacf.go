/*
 * vacf.go, part of govacf
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
*/

// Package chemplot draws VACF curves with gonum/plot.
package chemplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

// basicVACFPlot returns a plot with title and axes, but no data.
func basicVACFPlot(title, xlabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "VACF"
	p.Add(plotter.NewGrid())
	return p
}

// VACFPoints returns the points of the curve. x is lag*dt, or just the
// lag if dt <= 0.
func VACFPoints(v []float64, dt float64) plotter.XYs {
	if dt <= 0 {
		dt = 1
	}
	pts := make(plotter.XYs, len(v))
	for i, val := range v {
		pts[i].X = float64(i) * dt
		pts[i].Y = val
	}
	return pts
}

// PlotVACF draws the VACF v and saves it to plotname. The format is taken from
// the extension of plotname (png, svg, pdf, eps...). dt is the time between
// frames; if dt <= 0, the x axis shows the lag instead.
func PlotVACF(v []float64, dt float64, title, plotname string) error {
	if len(v) == 0 {
		return fmt.Errorf("chemplot.PlotVACF: no data to plot")
	}
	xlabel := "time"
	if dt <= 0 {
		xlabel = "lag"
	}
	p := basicVACFPlot(title, xlabel)
	line, err := plotter.NewLine(VACFPoints(v, dt))
	if err != nil {
		return fmt.Errorf("chemplot.PlotVACF: %w", err)
	}
	line.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	line.Width = vg.Points(1.5)
	p.Add(line)
	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Gray{Y: 128}
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(zero)
	if err := p.Save(width, height, plotname); err != nil {
		return fmt.Errorf("chemplot.PlotVACF: %w", err)
	}
	return nil
}
