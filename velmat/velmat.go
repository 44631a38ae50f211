/*
 * velmat.go, part of govacf.
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

// Package velmat arranges the velocities of a trajectory in a dense matrix.
// Row i holds the particle at position i of every frame, and columns 3t, 3t+1
// and 3t+2 hold its vx, vy and vz at frame t.
package velmat

import (
	"fmt"

	vacf "github.com/rmera/govacf"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Matrix is a particles x 3*timesteps velocity matrix. It should not be
// modified once built.
type Matrix struct {
	*mat.Dense
}

// Build puts the velocities of frames in a new Matrix. The number of
// particles is taken from the first frame. Every frame must declare, and
// contain, that same number of atoms.
func Build(frames []*vacf.Frame) (*Matrix, error) {
	if len(frames) == 0 {
		return nil, vacf.NewError(vacf.EmptyTrajectory, "no frames", "", "velmat.Build")
	}
	if frames[0] == nil {
		return nil, vacf.NewError(vacf.EmptyTrajectory, "frame 0 is nil", "", "velmat.Build")
	}
	natoms := frames[0].NAtoms
	if natoms <= 0 {
		return nil, vacf.NewError(vacf.EmptyTrajectory, fmt.Sprintf("first frame (timestep %d) declares %d atoms", frames[0].Timestep, natoms), "", "velmat.Build")
	}
	//the buffer is sized only from atoms actually present
	if len(frames[0].Atoms) != natoms {
		msg := fmt.Sprintf("frame 0 (timestep %d) declares %d atoms and has %d", frames[0].Timestep, natoms, len(frames[0].Atoms))
		return nil, vacf.NewError(vacf.ParticleCountMismatch, msg, "", "velmat.Build")
	}
	data := make([]float64, natoms*3*len(frames))
	cols := 3 * len(frames)
	for t, f := range frames {
		if f == nil {
			return nil, vacf.NewError(vacf.EmptyTrajectory, fmt.Sprintf("frame %d is nil", t), "", "velmat.Build")
		}
		if f.NAtoms != natoms || len(f.Atoms) != natoms {
			msg := fmt.Sprintf("frame %d (timestep %d) declares %d atoms and has %d, first frame has %d", t, f.Timestep, f.NAtoms, len(f.Atoms), natoms)
			return nil, vacf.NewError(vacf.ParticleCountMismatch, msg, "", "velmat.Build")
		}
		for i, at := range f.Atoms {
			r := i*cols + 3*t
			data[r] = at.VX
			data[r+1] = at.VY
			data[r+2] = at.VZ
		}
	}
	return &Matrix{mat.NewDense(natoms, cols, data)}, nil
}

// NParticles returns the number of rows.
func (M *Matrix) NParticles() int {
	r, _ := M.Dims()
	return r
}

// NTimesteps returns the number of frames in the matrix.
func (M *Matrix) NTimesteps() int {
	_, c := M.Dims()
	return c / 3
}

// Vel returns the velocity of particle i at timestep t.
func (M *Matrix) Vel(i, t int) [3]float64 {
	raw := M.RawMatrix()
	r := i*raw.Stride + 3*t
	return [3]float64{raw.Data[r], raw.Data[r+1], raw.Data[r+2]}
}

// MeanVelocity returns the ensemble mean velocity at timestep t.
func (M *Matrix) MeanVelocity(t int) [3]float64 {
	var ret [3]float64
	for k := 0; k < 3; k++ {
		col := mat.Col(nil, 3*t+k, M.Dense)
		ret[k] = stat.Mean(col, nil)
	}
	return ret
}

// Centered returns a new matrix where, at each timestep, the ensemble mean
// velocity has been subtracted from the velocity of every particle.
// The receiver is not modified.
func (M *Matrix) Centered() *Matrix {
	r, c := M.Dims()
	ret := mat.NewDense(r, c, nil)
	ret.Copy(M.Dense)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, ret)
		floats.AddConst(-stat.Mean(col, nil), col)
		ret.SetCol(j, col)
	}
	return &Matrix{ret}
}

func (M *Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(M.Dense, mat.Squeeze()))
}
