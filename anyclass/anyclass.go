// Package anyclass generates training batches for
// next-symbol classifiers from a text corpus.
//
// Each batch pairs one-hot encoded windows of the corpus
// with the code of the symbol that follows each position
// in the window.
package anyclass

import (
	"math/rand"

	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet/anys2s"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anytext"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
)

// A Batch is a batch of classifier training windows.
//
// Inputs is packed in (batch, step, class) order, so the
// one-hot vector for step t of row i starts at component
// (i*Steps+t)*NumClasses.
// Targets is packed in (batch, step) order.
type Batch struct {
	Inputs  anyvec.Vector
	Targets []int

	BatchSize  int
	Steps      int
	NumClasses int

	// Offsets stores the corpus offset of each row.
	Offsets []int
}

// InputVector returns the one-hot input for a time-step of
// a row.
func (b *Batch) InputVector(row, t int) anyvec.Vector {
	start := (row*b.Steps + t) * b.NumClasses
	return b.Inputs.Slice(start, start+b.NumClasses)
}

// InputCode returns the code of the input symbol at a
// time-step of a row.
func (b *Batch) InputCode(row, t int) int {
	return anyvec.MaxIndex(b.InputVector(row, t))
}

// Target returns the target code at a time-step of a row.
func (b *Batch) Target(row, t int) int {
	return b.Targets[row*b.Steps+t]
}

// S2S converts the batch into a sequence-to-sequence
// batch for an anys2s.Trainer.
//
// Targets are one-hot encoded, which is the format
// expected by anynet.DotCost on a LogSoftmax output.
func (b *Batch) S2S() *anys2s.Batch {
	c := b.Inputs.Creator()
	ins := make([][]anyvec.Vector, b.BatchSize)
	outs := make([][]anyvec.Vector, b.BatchSize)
	for row := 0; row < b.BatchSize; row++ {
		ins[row] = make([]anyvec.Vector, b.Steps)
		outs[row] = make([]anyvec.Vector, b.Steps)
		for t := 0; t < b.Steps; t++ {
			ins[row][t] = b.InputVector(row, t)
			outs[row][t] = oneHot(c, b.NumClasses, b.Target(row, t))
		}
	}
	return &anys2s.Batch{
		Inputs:  anyseq.ConstSeqList(c, ins),
		Outputs: anyseq.ConstSeqList(c, outs),
	}
}

// A Generator produces random classifier batches from a
// corpus.
//
// Like anywindow.Sampler, a Generator owns its random
// generator and must not be used concurrently.
type Generator struct {
	Corpus    *anytext.Corpus
	Steps     int
	BatchSize int

	// Creator is used to allocate input vectors.
	Creator anyvec.Creator

	Rand *rand.Rand
}

// NewGenerator creates a Generator which allocates 32-bit
// input vectors.
//
// If r is nil, a generator is created with an
// automatically chosen seed.
func NewGenerator(c *anytext.Corpus, steps, batchSize int, r *rand.Rand) *Generator {
	res := &Generator{
		Corpus:    c,
		Steps:     steps,
		BatchSize: batchSize,
		Creator:   anyvec32.CurrentCreator(),
		Rand:      anytext.RandOrAuto(r),
	}
	res.validate()
	return res
}

// Batch draws a new batch.
//
// For every row, a window of Steps+1 symbols is chosen
// uniformly at random from the corpus.
// The first Steps symbols become the inputs, and the last
// Steps symbols become the targets.
func (g *Generator) Batch() *Batch {
	g.validate()
	return g.batch(g.BatchSize)
}

// Fetch draws a random batch with one row per sample in s
// and returns it as an *anys2s.Batch.
// The contents of s are ignored.
//
// This makes it possible to use a Generator as the
// anysgd.Fetcher for an anys2s.Trainer.
func (g *Generator) Fetch(s anysgd.SampleList) (anysgd.Batch, error) {
	g.validate()
	if s.Len() < 2 {
		panic("batch size must be at least 2")
	}
	return g.batch(s.Len()).S2S(), nil
}

func (g *Generator) batch(batchSize int) *Batch {
	numClasses := g.Corpus.Alphabet.NumClasses()
	inputs := make([]float64, batchSize*g.Steps*numClasses)
	res := &Batch{
		Targets:    make([]int, batchSize*g.Steps),
		BatchSize:  batchSize,
		Steps:      g.Steps,
		NumClasses: numClasses,
		Offsets:    make([]int, batchSize),
	}
	for row := range res.Offsets {
		offset := g.Rand.Intn(g.Corpus.Len() - g.Steps)
		res.Offsets[row] = offset
		codes := g.Corpus.Encode(offset, g.Steps+1)
		for t := 0; t < g.Steps; t++ {
			idx := row*g.Steps + t
			inputs[idx*numClasses+codes[t]] = 1
			res.Targets[idx] = codes[t+1]
		}
	}
	res.Inputs = g.Creator.MakeVectorData(g.Creator.MakeNumericList(inputs))
	return res
}

// SampleList is an anysgd.SampleList of the given length
// whose samples carry no data.
//
// Since a Generator draws every batch at random, an SGD
// loop only needs a SampleList to decide on batch sizes.
type SampleList int

// Len returns the number of samples.
func (s SampleList) Len() int {
	return int(s)
}

// Swap does nothing.
func (s SampleList) Swap(i, j int) {
}

// Slice returns a SampleList of length j-i.
func (s SampleList) Slice(i, j int) anysgd.SampleList {
	return SampleList(j - i)
}

// Stream draws batches on a background Goroutine.
//
// See anywindow.Sampler.Stream for details.
func (g *Generator) Stream(stop <-chan struct{}, buffer int) <-chan *Batch {
	g.validate()
	res := make(chan *Batch, buffer)
	go func() {
		defer close(res)
		for {
			batch := g.Batch()
			select {
			case res <- batch:
			case <-stop:
				return
			}
		}
	}()
	return res
}

func (g *Generator) validate() {
	if g.BatchSize < 2 {
		panic("batch size must be at least 2")
	}
	if g.Steps < 1 {
		panic("steps must be at least 1")
	}
	if g.Corpus == nil {
		panic("generator has no corpus")
	}
	if g.Corpus.Len() < g.Steps+1 {
		panic("corpus must contain at least steps+1 symbols")
	}
	if g.Creator == nil {
		panic("generator has no Creator")
	}
	if g.Rand == nil {
		panic("generator has no random generator")
	}
}

func oneHot(c anyvec.Creator, size, idx int) anyvec.Vector {
	data := make([]float64, size)
	data[idx] = 1
	return c.MakeVectorData(c.MakeNumericList(data))
}
