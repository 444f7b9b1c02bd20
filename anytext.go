// Package anytext provides the data layer for training
// and sampling sequence models on symbolic data.
// It maps symbols to dense class indices and cleans raw
// text into a corpus over a fixed alphabet.
//
// Sub-packages turn corpora and numeric time series into
// training batches (anyclass, anywindow) and draw new
// sequences from trained models (anygen).
package anytext

import (
	"math/rand"
	"time"

	"github.com/unixpickle/serializer"
)

func init() {
	var a Alphabet
	serializer.RegisterTypedDeserializer(a.SerializerType(), DeserializeAlphabet)
}

// These are the defaults used when an alphabet is inferred
// from a blob of text.
const (
	// DefaultMinCount is the number of times a symbol must
	// occur in a text to make it into an inferred alphabet.
	DefaultMinCount = 2

	// DefaultUnknown is the symbol which stands in for
	// anything outside of an alphabet.
	DefaultUnknown = '\x00'
)

// These are the default window parameters used when
// building training batches.
const (
	DefaultSteps     = 100
	DefaultBatchSize = 64
)

// NewRand creates a random generator with a fixed seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// AutoRand creates a random generator with an
// automatically chosen seed.
func AutoRand() *rand.Rand {
	return NewRand(time.Now().UnixNano())
}

// RandOrAuto returns r, or a new AutoRand() if r is nil.
func RandOrAuto(r *rand.Rand) *rand.Rand {
	if r == nil {
		return AutoRand()
	}
	return r
}
