// Package anywindow samples random fixed-length windows
// from time-aligned numeric series.
//
// It is intended for building training batches for
// recurrent models from inputs, targets, and weights that
// share a time axis.
package anywindow

import (
	"math/rand"

	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anytext"
	"github.com/unixpickle/anyvec"
	"gonum.org/v1/gonum/mat"
)

// A Window is a batch of equal-length windows which were
// cut out of a single source series.
//
// Each entry in Rows is a (steps x cols) matrix, where row
// t of the matrix is time-step t of the window.
type Window struct {
	Rows []*mat.Dense
}

// BatchSize returns the number of windows in the batch.
func (w *Window) BatchSize() int {
	return len(w.Rows)
}

// Steps returns the number of time-steps per window.
func (w *Window) Steps() int {
	r, _ := w.Rows[0].Dims()
	return r
}

// Cols returns the feature dimension of the window.
func (w *Window) Cols() int {
	_, c := w.Rows[0].Dims()
	return c
}

// Seq converts the window to an anyseq.Seq, with one
// sequence per batch row.
// The result can be fed directly to an RNN.
func (w *Window) Seq(c anyvec.Creator) anyseq.Seq {
	seqs := make([][]anyvec.Vector, len(w.Rows))
	for i, m := range w.Rows {
		steps, _ := m.Dims()
		seqs[i] = make([]anyvec.Vector, steps)
		for t := 0; t < steps; t++ {
			data := c.MakeNumericList(append([]float64{}, m.RawRowView(t)...))
			seqs[i][t] = c.MakeVectorData(data)
		}
	}
	return anyseq.ConstSeqList(c, seqs)
}

// A Sampler draws random windows from a list of series.
//
// Every series has one row per time-step, and all of them
// must have the same number of rows.
// Windows in the same batch row are cut at the same offset
// in every series, so that the series stay aligned.
//
// Windows are always float64 matrices, whatever the
// meaning of a series; integer data such as class labels
// must be converted by the caller.
//
// A Sampler owns its random generator and advances it on
// every batch.
// It is not safe to use a Sampler from more than one
// Goroutine at once.
type Sampler struct {
	Sources   []*mat.Dense
	Steps     int
	BatchSize int
	Rand      *rand.Rand

	lastOffsets []int
}

// NewSampler creates a Sampler.
//
// If r is nil, a generator is created with an
// automatically chosen seed.
func NewSampler(sources []*mat.Dense, steps, batchSize int, r *rand.Rand) *Sampler {
	res := &Sampler{
		Sources:   sources,
		Steps:     steps,
		BatchSize: batchSize,
		Rand:      anytext.RandOrAuto(r),
	}
	res.validate()
	return res
}

// Batch draws a new batch.
//
// The result contains one *Window per source, in the same
// order as s.Sources.
// Each call allocates new matrices, so a batch may be held
// on to while later batches are drawn.
func (s *Sampler) Batch() []*Window {
	s.validate()
	total, _ := s.Sources[0].Dims()
	offsets := make([]int, s.BatchSize)
	for i := range offsets {
		offsets[i] = s.Rand.Intn(total - s.Steps)
	}
	res := make([]*Window, len(s.Sources))
	for i, src := range s.Sources {
		_, cols := src.Dims()
		w := &Window{Rows: make([]*mat.Dense, s.BatchSize)}
		for j, offset := range offsets {
			w.Rows[j] = mat.DenseCopyOf(src.Slice(offset, offset+s.Steps, 0, cols))
		}
		res[i] = w
	}
	s.lastOffsets = offsets
	return res
}

// LastOffsets returns the start offsets of the windows in
// the last batch, in batch order.
func (s *Sampler) LastOffsets() []int {
	return append([]int{}, s.lastOffsets...)
}

// Stream draws batches on a background Goroutine and
// sends them on the returned channel, which is closed once
// stop is closed.
//
// The buffer argument is the number of batches to prepare
// ahead of time.
// While the stream is running, s must not be used
// directly.
func (s *Sampler) Stream(stop <-chan struct{}, buffer int) <-chan []*Window {
	s.validate()
	res := make(chan []*Window, buffer)
	go func() {
		defer close(res)
		for {
			batch := s.Batch()
			select {
			case res <- batch:
			case <-stop:
				return
			}
		}
	}()
	return res
}

func (s *Sampler) validate() {
	if s.BatchSize < 2 {
		panic("batch size must be at least 2")
	}
	if len(s.Sources) == 0 {
		panic("at least one source series is required")
	}
	var total int
	for i, src := range s.Sources {
		if src == nil {
			panic("source series may not be nil")
		}
		rows, _ := src.Dims()
		if i == 0 {
			total = rows
		} else if rows != total {
			panic("source series must have the same number of time-steps")
		}
	}
	if s.Steps < 1 || s.Steps >= total {
		panic("window length must be in [1, time-steps)")
	}
	if s.Rand == nil {
		panic("sampler has no random generator")
	}
}
