package anygen

import (
	"errors"

	"github.com/unixpickle/anytext"
	"github.com/unixpickle/essentials"
)

// SampleText continues a seed text with a Sampler and
// returns the generated text for each stream.
//
// The seed is encoded with the alphabet, so symbols that
// are not in the alphabet are fed to the model as unknown.
// The returned text does not include the seed.
func SampleText(s *Sampler, a *anytext.Alphabet, seed string, steps int) ([]string, error) {
	if seed == "" {
		return nil, errors.New("sample text: empty seed")
	}
	gen := s.Sample(a.Encode(seed), steps)
	var streams [][]int
	for {
		codes, ok := gen.Next()
		if !ok {
			break
		}
		if streams == nil {
			streams = make([][]int, len(codes))
		}
		for i, code := range codes {
			streams[i] = append(streams[i], code)
		}
	}
	if streams == nil {
		numStreams := s.Streams
		if numStreams == 0 {
			numStreams = 1
		}
		return make([]string, numStreams), nil
	}
	res := make([]string, len(streams))
	for i, codes := range streams {
		text, err := a.Decode(codes)
		if err != nil {
			return nil, essentials.AddCtx("sample text", err)
		}
		res[i] = text
	}
	return res, nil
}
