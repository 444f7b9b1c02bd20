// Package anygen draws sequences from probabilistic
// sequence models, one time-step at a time.
//
// A model is anything that can turn a batch of one-hot
// encoded sequences into a batch of per-timestep class
// distributions (see Predictor).
// The sampled symbols are fed back into the model as the
// inputs for the following time-steps.
package anygen

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet/anyrnn"
)

// A Predictor computes class distributions for a batch of
// sequences.
//
// The input sequences are one-hot encoded.
// The output must have one distribution per input
// time-step, and every distribution in a batch must have
// the same number of classes.
type Predictor interface {
	PredictProba(in anyseq.Seq) anyseq.Seq
}

// PredictorFunc is a Predictor which calls a function.
type PredictorFunc func(in anyseq.Seq) anyseq.Seq

// PredictProba calls p(in).
func (p PredictorFunc) PredictProba(in anyseq.Seq) anyseq.Seq {
	return p(in)
}

// A BlockPredictor is a Predictor which evaluates an RNN
// block on the input sequences.
type BlockPredictor struct {
	Block anyrnn.Block

	// LogProbs indicates that the block outputs log
	// probabilities (e.g. from an anynet.LogSoftmax), which
	// should be exponentiated.
	LogProbs bool
}

// PredictProba applies the block to the sequences.
func (b *BlockPredictor) PredictProba(in anyseq.Seq) anyseq.Seq {
	out := anyrnn.Map(in, b.Block)
	if !b.LogProbs {
		return out
	}
	return anyseq.Map(out, func(v anydiff.Res, n int) anydiff.Res {
		return anydiff.Exp(v)
	})
}
