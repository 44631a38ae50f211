package chemstat

import (
	"bufio"
	"fmt"
	"io"

	vacf "github.com/rmera/govacf"
	"gonum.org/v1/gonum/integrate"
)

// Normalize returns a copy of v divided by v[0].
func Normalize(v []float64) ([]float64, error) {
	if len(v) == 0 {
		return nil, vacf.NewError(vacf.EmptyTrajectory, "empty VACF", "", "chemstat.Normalize")
	}
	if v[0] == 0 {
		return nil, fmt.Errorf("chemstat.Normalize: VACF is zero at lag 0")
	}
	ret := make([]float64, len(v))
	for i, val := range v {
		ret[i] = val / v[0]
	}
	return ret, nil
}

// Integral integrates the VACF over time with the trapezoidal rule.
// dt is the time between frames. A single value integrates to 0.
func Integral(v []float64, dt float64) (float64, error) {
	if len(v) == 0 {
		return 0, vacf.NewError(vacf.EmptyTrajectory, "empty VACF", "", "chemstat.Integral")
	}
	if dt <= 0 {
		return 0, fmt.Errorf("chemstat.Integral: dt must be positive, got %g", dt)
	}
	if len(v) == 1 {
		return 0, nil
	}
	x := make([]float64, len(v))
	for i := range x {
		x[i] = float64(i) * dt
	}
	return integrate.Trapezoidal(x, v), nil
}

// DiffusionCoefficient returns the Green-Kubo self-diffusion coefficient,
// one third of the VACF integral, in units of velocity^2*time.
func DiffusionCoefficient(v []float64, dt float64) (float64, error) {
	in, err := Integral(v, dt)
	if err != nil {
		return 0, vacf.ErrDecorate(err, "chemstat.DiffusionCoefficient")
	}
	return in / 3, nil
}

// WriteLags writes one "lag N: value" line per element of v.
func WriteLags(w io.Writer, v []float64) error {
	b := bufio.NewWriter(w)
	for lag, val := range v {
		if _, err := fmt.Fprintf(b, "lag %d: %v\n", lag, val); err != nil {
			return err
		}
	}
	return b.Flush()
}
