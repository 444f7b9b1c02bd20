package anygen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/unixpickle/anyvec"
	"gonum.org/v1/gonum/floats"
)

// SumTolerance is the amount by which the probabilities of
// a distribution (all but the last) may sum past 1 before
// Multinomial rejects it.
const SumTolerance = 1e-12

// Multinomial draws a single class from a categorical
// distribution.
//
// Any probability mass that is missing from pdf goes to the
// last class.
// An error is returned if pdf is empty, if it contains
// NaNs or values outside of [0, 1], or if all but the last
// probability sum to more than 1+SumTolerance.
func Multinomial(r *rand.Rand, pdf []float64) (int, error) {
	if err := checkDistribution(pdf); err != nil {
		return 0, err
	}
	u := r.Float64()
	var cum float64
	for i, p := range pdf[:len(pdf)-1] {
		cum += p
		if u < cum {
			return i, nil
		}
	}
	return len(pdf) - 1, nil
}

// Argmax returns the index of the most likely class.
// Ties go to the lowest index.
func Argmax(pdf []float64) int {
	return floats.MaxIdx(pdf)
}

func checkDistribution(pdf []float64) error {
	if len(pdf) == 0 {
		return errors.New("empty distribution")
	}
	for i, p := range pdf {
		if math.IsNaN(p) {
			return fmt.Errorf("probability %d is NaN", i)
		} else if p < 0 || p > 1 {
			return fmt.Errorf("probability %d (%f) is outside of [0, 1]", i, p)
		}
	}
	if sum := floats.Sum(pdf[:len(pdf)-1]); sum > 1+SumTolerance {
		return fmt.Errorf("probabilities sum to %v", sum)
	}
	return nil
}

func vectorFloats(v anyvec.Vector) []float64 {
	switch d := v.Data().(type) {
	case []float64:
		return d
	case []float32:
		res := make([]float64, len(d))
		for i, x := range d {
			res[i] = float64(x)
		}
		return res
	default:
		panic(fmt.Sprintf("unsupported numeric type: %T", d))
	}
}
