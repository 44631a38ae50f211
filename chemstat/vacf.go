/*
 * vacf.go, part of govacf.
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

// Package chemstat calculates the velocity autocorrelation function
// of a trajectory, and a few quantities derived from it.
package chemstat

import (
	"fmt"
	"runtime"

	vacf "github.com/rmera/govacf"
	"github.com/rmera/govacf/velmat"
	"golang.org/x/sync/errgroup"
)

// Method selects the algorithm used to obtain the VACF.
type Method int

const (
	// Direct sums the dot products for each lag, one goroutine per lag. O(N*T^2).
	Direct Method = iota
	// FFT obtains the same sums through zero-padded FFTs. O(N*T*log(T)).
	FFT
)

func (m Method) String() string {
	switch m {
	case Direct:
		return "direct"
	case FFT:
		return "fft"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod returns the Method named s ("direct" or "fft").
func ParseMethod(s string) (Method, error) {
	switch s {
	case "direct", "":
		return Direct, nil
	case "fft":
		return FFT, nil
	}
	return Direct, fmt.Errorf("unknown VACF method %q", s)
}

// Options for the VACF calculation. The zero value gives the uncentered,
// direct VACF using GOMAXPROCS goroutines at the time.
type Options struct {
	//Centered subtracts the ensemble mean velocity at each timestep
	//before correlating, which removes the center of mass drift.
	Centered bool
	//Workers is the maximum number of lags (or particles, for FFT) processed
	//at the same time. Values < 1 mean runtime.GOMAXPROCS(0).
	Workers int
	Method  Method
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// VACF returns the velocity autocorrelation function for lags 0 to
// M.NTimesteps()-1:
//
//	VACF[L] = sum_{j<T-L} sum_{i<N} v(i,j).v(i,j+L) / (N*(T-L))
//
// The result does not depend on opts.Workers.
func VACF(M *velmat.Matrix, opts Options) ([]float64, error) {
	if M == nil || M.Dense == nil || M.IsEmpty() || M.NParticles() == 0 || M.NTimesteps() == 0 {
		return nil, vacf.NewError(vacf.EmptyTrajectory, "no velocities to correlate", "", "chemstat.VACF")
	}
	if opts.Centered {
		M = M.Centered()
	}
	switch opts.Method {
	case Direct:
		return direct(M, opts.workers())
	case FFT:
		return fftVACF(M, opts.workers())
	}
	return nil, fmt.Errorf("chemstat.VACF: %v", opts.Method)
}

// VACFFrames builds the velocity matrix from frames and returns its VACF.
// It behaves exactly as VACF for the same options.
func VACFFrames(frames []*vacf.Frame, opts Options) ([]float64, error) {
	M, err := velmat.Build(frames)
	if err != nil {
		return nil, vacf.ErrDecorate(err, "chemstat.VACFFrames")
	}
	return VACF(M, opts)
}

// direct runs one reduction per lag, at most workers at the same time.
// Each goroutine only writes its own element of ret.
func direct(M *velmat.Matrix, workers int) ([]float64, error) {
	T := M.NTimesteps()
	ret := make([]float64, T)
	var g errgroup.Group
	g.SetLimit(workers)
	for lag := 0; lag < T; lag++ {
		g.Go(func() error {
			ret[lag] = lagVACF(M, lag)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

// lagVACF is the VACF at one lag. The outer loop runs over starting times,
// the inner one over particles.
func lagVACF(M *velmat.Matrix, lag int) float64 {
	raw := M.RawMatrix()
	N := raw.Rows
	T := raw.Cols / 3
	var sum float64
	for j := 0; j < T-lag; j++ {
		a := 3 * j
		b := 3 * (j + lag)
		for i := 0; i < N; i++ {
			row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
			sum += row[a]*row[b] + row[a+1]*row[b+1] + row[a+2]*row[b+2]
		}
	}
	return sum / float64(N*(T-lag))
}
