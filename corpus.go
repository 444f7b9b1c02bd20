package anytext

import "github.com/unixpickle/essentials"

// A Corpus is a blob of text which has been cleaned so
// that every symbol is either in an Alphabet or is the
// Alphabet's unknown symbol.
//
// A Corpus should not be modified after it is created.
type Corpus struct {
	Alphabet *Alphabet
	Text     []rune
}

// NewCorpus cleans a text against an alphabet.
func NewCorpus(text string, a *Alphabet) *Corpus {
	runes := []rune(text)
	for i, r := range runes {
		runes[i] = a.cleanRune(r)
	}
	return &Corpus{Alphabet: a, Text: runes}
}

// InferCorpus infers an alphabet from the text and then
// cleans the text against it.
//
// See InferAlphabet for the meaning of the arguments.
func InferCorpus(text string, minCount int, unknown rune) (*Corpus, error) {
	a, err := InferAlphabet(text, minCount, unknown)
	if err != nil {
		return nil, essentials.AddCtx("infer corpus", err)
	}
	return NewCorpus(text, a), nil
}

// Len returns the number of symbols in the corpus.
func (c *Corpus) Len() int {
	return len(c.Text)
}

// String returns the cleaned text.
func (c *Corpus) String() string {
	return string(c.Text)
}

// Window returns the n symbols starting at offset.
// The result aliases the corpus and should not be
// modified.
func (c *Corpus) Window(offset, n int) []rune {
	return c.Text[offset : offset+n]
}

// Encode returns the codes for the n symbols starting at
// offset.
func (c *Corpus) Encode(offset, n int) []int {
	return c.Alphabet.EncodeRunes(c.Window(offset, n))
}
