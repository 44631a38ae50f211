package chemstat

import (
	"fmt"
	"math/cmplx"

	"github.com/rmera/govacf/velmat"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

func cmplxMulConj(dst, b []complex128) {
	if len(dst) != len(b) {
		panic(fmt.Sprintf("complex conjugate multiplication of slices: Both slices should have the same len %d, %d", len(dst), len(b)))
	}
	for i, v := range b {
		dst[i] *= cmplx.Conj(v)
	}
}

// fftWork holds the buffers one goroutine needs. gonum's FFT objects
// can't be shared between goroutines.
type fftWork struct {
	f      *fourier.FFT
	pad    []float64
	coeffs []complex128
	acf    []float64
}

func newFFTWork(T int) *fftWork {
	n := 2 * T //zero padding avoids the circular wrap-around
	return &fftWork{
		f:      fourier.NewFFT(n),
		pad:    make([]float64, n),
		coeffs: make([]complex128, n/2+1),
		acf:    make([]float64, n),
	}
}

// autocorr adds to dst the unnormalized autocorrelation sum_j x_j*x_{j+L}
// of the series x, for L in [0, len(x)).
func (w *fftWork) autocorr(dst, x []float64) {
	for i := range w.pad {
		w.pad[i] = 0
	}
	copy(w.pad, x)
	w.f.Coefficients(w.coeffs, w.pad)
	cmplxMulConj(w.coeffs, w.coeffs)
	w.f.Sequence(w.acf, w.coeffs)
	floats.AddScaled(dst, 1/float64(len(w.pad)), w.acf[:len(dst)])
}

// fftVACF gives the same values as direct, within floating point error.
// Each particle gets its own partial sum, and the partial sums are added
// in particle order, so the result does not depend on workers.
func fftVACF(M *velmat.Matrix, workers int) ([]float64, error) {
	N := M.NParticles()
	T := M.NTimesteps()
	partial := make([][]float64, N)
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < N; start += chunk(N, workers) {
		end := start + chunk(N, workers)
		if end > N {
			end = N
		}
		g.Go(func() error {
			w := newFFTWork(T)
			x := make([]float64, T)
			for i := start; i < end; i++ {
				partial[i] = make([]float64, T)
				for k := 0; k < 3; k++ {
					for t := 0; t < T; t++ {
						x[t] = M.At(i, 3*t+k)
					}
					w.autocorr(partial[i], x)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	ret := make([]float64, T)
	for _, p := range partial {
		floats.Add(ret, p)
	}
	for lag := range ret {
		ret[lag] /= float64(N * (T - lag))
	}
	return ret, nil
}

func chunk(n, workers int) int {
	c := n / workers
	if c < 1 {
		c = 1
	}
	return c
}
