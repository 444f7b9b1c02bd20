package anytext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

// An Alphabet is a bidirectional mapping between symbols
// and integer class codes.
//
// Code 0 is reserved for the unknown symbol, which is
// never a member of the alphabet.
// The alphabet's symbols are given codes 1 through Len(),
// in order.
//
// An Alphabet is immutable once created.
type Alphabet struct {
	symbols []rune
	unknown rune
	fwd     map[rune]int
}

// NewAlphabet creates an Alphabet with an explicit list of
// symbols.
//
// It fails if the unknown symbol is one of the symbols or
// if a symbol is repeated.
func NewAlphabet(symbols string, unknown rune) (*Alphabet, error) {
	runes := []rune(symbols)
	res := &Alphabet{
		symbols: runes,
		unknown: unknown,
		fwd:     make(map[rune]int, len(runes)+1),
	}
	res.fwd[unknown] = 0
	for i, r := range runes {
		if r == unknown {
			return nil, fmt.Errorf("create alphabet: unknown symbol %q is in the alphabet", r)
		}
		if _, ok := res.fwd[r]; ok {
			return nil, fmt.Errorf("create alphabet: duplicate symbol %q", r)
		}
		res.fwd[r] = i + 1
	}
	return res, nil
}

// InferAlphabet creates an Alphabet from the symbols of a
// text.
//
// Symbols occurring fewer than minCount times are left out,
// as is the unknown symbol.
// The remaining symbols are sorted by code point, which
// makes the codes reproducible for a given text.
func InferAlphabet(text string, minCount int, unknown rune) (*Alphabet, error) {
	counts := map[rune]int{}
	for _, r := range text {
		counts[r]++
	}
	var symbols []rune
	for r, count := range counts {
		if r != unknown && count >= minCount {
			symbols = append(symbols, r)
		}
	}
	sort.Slice(symbols, func(i, j int) bool {
		return symbols[i] < symbols[j]
	})
	res, err := NewAlphabet(string(symbols), unknown)
	if err != nil {
		return nil, essentials.AddCtx("infer alphabet", err)
	}
	return res, nil
}

// DeserializeAlphabet deserializes an Alphabet.
func DeserializeAlphabet(d []byte) (*Alphabet, error) {
	var symbols string
	var unknown int
	if err := serializer.DeserializeAny(d, &symbols, &unknown); err != nil {
		return nil, essentials.AddCtx("deserialize Alphabet", err)
	}
	res, err := NewAlphabet(symbols, rune(unknown))
	if err != nil {
		return nil, essentials.AddCtx("deserialize Alphabet", err)
	}
	return res, nil
}

// Len returns the number of symbols in the alphabet, not
// counting the unknown symbol.
func (a *Alphabet) Len() int {
	return len(a.symbols)
}

// NumClasses returns the number of distinct codes, which
// is Len()+1 because of the unknown code.
//
// This is the size of a one-hot vector for the alphabet.
func (a *Alphabet) NumClasses() int {
	return len(a.symbols) + 1
}

// Unknown returns the unknown symbol.
func (a *Alphabet) Unknown() rune {
	return a.unknown
}

// Symbols returns the alphabet's symbols in code order.
func (a *Alphabet) Symbols() string {
	return string(a.symbols)
}

// Contains checks if r is a symbol in the alphabet.
// The unknown symbol is not contained in the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	code, ok := a.fwd[r]
	return ok && code != 0
}

// Code returns the code for a symbol.
// Symbols outside of the alphabet map to 0.
func (a *Alphabet) Code(r rune) int {
	return a.fwd[r]
}

// Encode converts a text to a list of codes.
// Symbols outside of the alphabet map to 0.
func (a *Alphabet) Encode(text string) []int {
	return a.EncodeRunes([]rune(text))
}

// EncodeRunes is like Encode, but for a list of runes.
func (a *Alphabet) EncodeRunes(runes []rune) []int {
	res := make([]int, len(runes))
	for i, r := range runes {
		res[i] = a.fwd[r]
	}
	return res
}

// Symbol returns the symbol for a code.
func (a *Alphabet) Symbol(code int) (rune, error) {
	if code < 0 || code > len(a.symbols) {
		return 0, fmt.Errorf("code %d out of alphabet range [0, %d]", code, len(a.symbols))
	}
	if code == 0 {
		return a.unknown, nil
	}
	return a.symbols[code-1], nil
}

// Decode converts a list of codes back into text.
// It fails if any code is out of range.
func (a *Alphabet) Decode(codes []int) (string, error) {
	var res strings.Builder
	for _, code := range codes {
		r, err := a.Symbol(code)
		if err != nil {
			return "", essentials.AddCtx("decode", err)
		}
		res.WriteRune(r)
	}
	return res.String(), nil
}

// Clean replaces every symbol in text that is not in the
// alphabet with the unknown symbol.
func (a *Alphabet) Clean(text string) string {
	return strings.Map(a.cleanRune, text)
}

func (a *Alphabet) cleanRune(r rune) rune {
	if _, ok := a.fwd[r]; ok {
		return r
	}
	return a.unknown
}

// SerializerType returns the unique ID used to serialize
// an Alphabet with the serializer package.
func (a *Alphabet) SerializerType() string {
	return "github.com/unixpickle/anytext.Alphabet"
}

// Serialize serializes the Alphabet.
func (a *Alphabet) Serialize() ([]byte, error) {
	return serializer.SerializeAny(string(a.symbols), int(a.unknown))
}
