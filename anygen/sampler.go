package anygen

import (
	"log"
	"math/rand"

	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anytext"
	"github.com/unixpickle/anyvec"
)

// MinBatchSize is the smallest batch a Predictor is ever
// given.
// When fewer streams are requested, the extra rows are
// evaluated and then discarded.
const MinBatchSize = 2

// A Sampler draws sequences from a Predictor.
type Sampler struct {
	Predictor Predictor

	// Creator is used to allocate one-hot input vectors.
	Creator anyvec.Creator

	// NumClasses is the size of the one-hot input vectors,
	// which is typically 1 + the alphabet size.
	NumClasses int

	// Streams is the number of sequences to sample in
	// parallel.
	// If it is 0, one stream is sampled.
	Streams int

	// Rand is used to draw samples.
	// If it is nil, a generator is created with an
	// automatically chosen seed the first time Sample is
	// called.
	Rand *rand.Rand

	// Log, if non-nil, is used to report time-steps where
	// a distribution could not be sampled from and the most
	// likely class was picked instead.
	Log *log.Logger
}

// Sample creates a Generator which continues the seed
// sequence for the given number of steps.
//
// Every stream starts from the same seed.
// The seed must be non-empty, and each of its codes must
// be in [0, s.NumClasses).
func (s *Sampler) Sample(seed []int, steps int) *Generator {
	if s.Predictor == nil {
		panic("sampler has no Predictor")
	}
	if s.Creator == nil {
		panic("sampler has no Creator")
	}
	if s.NumClasses < 1 {
		panic("number of classes must be positive")
	}
	if s.Streams < 0 {
		panic("number of streams must be at least 1")
	}
	if len(seed) == 0 {
		panic("seed sequence must not be empty")
	}
	if steps < 0 {
		panic("number of steps must not be negative")
	}
	for _, code := range seed {
		if code < 0 || code >= s.NumClasses {
			panic("seed code out of class range")
		}
	}
	s.Rand = anytext.RandOrAuto(s.Rand)

	streams := s.Streams
	if streams == 0 {
		streams = 1
	}
	rows := streams
	if rows < MinBatchSize {
		rows = MinBatchSize
	}

	seedVecs := make([]anyvec.Vector, len(seed))
	for i, code := range seed {
		seedVecs[i] = oneHot(s.Creator, s.NumClasses, code)
	}
	seqs := make([][]anyvec.Vector, rows)
	for i := range seqs {
		seqs[i] = make([]anyvec.Vector, len(seed), len(seed)+steps)
		copy(seqs[i], seedVecs)
	}

	return &Generator{
		sampler: s,
		streams: streams,
		seqs:    seqs,
		offset:  len(seed),
		end:     len(seed) + steps,
	}
}

// A Generator lazily produces the time-steps of a sampled
// sequence.
//
// A Generator is finite and cannot be restarted.
// It may be abandoned at any point.
type Generator struct {
	sampler *Sampler
	streams int

	// seqs stores the one-hot inputs for every batch row.
	// Entries before offset are the seed.
	seqs   [][]anyvec.Vector
	offset int
	end    int

	fallbacks int
}

// Next samples the next time-step.
//
// It returns one code per stream, or false if every step
// has already been generated.
// With a single stream, the result is a one-element slice.
func (g *Generator) Next() ([]int, bool) {
	if g.Done() {
		return nil, false
	}
	s := g.sampler
	step := len(g.seqs[0])

	out := s.Predictor.PredictProba(anyseq.ConstSeqList(s.Creator, g.seqs)).Output()
	if len(out) == 0 {
		panic("predictor produced an empty sequence")
	}
	probs := vectorFloats(out[len(out)-1].Packed)
	rows := len(g.seqs)
	if len(probs) == 0 || len(probs)%rows != 0 {
		panic("predictor output does not match batch size")
	}
	numOut := len(probs) / rows
	if numOut > s.NumClasses {
		panic("predictor produced more classes than the input encoding")
	}

	codes := make([]int, rows)
	for row := range codes {
		pdf := probs[row*numOut : (row+1)*numOut]
		code, err := Multinomial(s.Rand, pdf)
		if err != nil {
			code = Argmax(pdf)
			g.fallbacks++
			if s.Log != nil {
				s.Log.Printf("anygen: step %d row %d: greedy fallback (%v)", step, row, err)
			}
		}
		codes[row] = code
		g.seqs[row] = append(g.seqs[row], oneHot(s.Creator, s.NumClasses, code))
	}
	return codes[:g.streams], true
}

// Collect generates all of the remaining time-steps.
func (g *Generator) Collect() [][]int {
	var res [][]int
	for {
		codes, ok := g.Next()
		if !ok {
			return res
		}
		res = append(res, codes)
	}
}

// Done returns true once every step has been generated.
func (g *Generator) Done() bool {
	return g.Remaining() == 0
}

// Remaining returns the number of steps left to generate.
func (g *Generator) Remaining() int {
	return g.end - len(g.seqs[0])
}

// Generated returns the number of steps generated so far.
func (g *Generator) Generated() int {
	return len(g.seqs[0]) - g.offset
}

// Fallbacks returns the number of times a distribution
// could not be sampled from, counting every batch row.
func (g *Generator) Fallbacks() int {
	return g.fallbacks
}

func oneHot(c anyvec.Creator, size, idx int) anyvec.Vector {
	data := make([]float64, size)
	data[idx] = 1
	return c.MakeVectorData(c.MakeNumericList(data))
}
