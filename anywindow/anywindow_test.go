package anywindow

import (
	"reflect"
	"testing"

	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anytext"
	"github.com/unixpickle/anyvec/anyvec64"
	"gonum.org/v1/gonum/mat"
)

func TestSamplerShapes(t *testing.T) {
	inputs, outputs := testSources(50)
	s := NewSampler([]*mat.Dense{inputs, outputs}, 5, 4, anytext.NewRand(1337))
	for i := 0; i < 20; i++ {
		batch := s.Batch()
		if len(batch) != 2 {
			t.Fatalf("expected 2 windows but got %d", len(batch))
		}
		for j, cols := range []int{3, 2} {
			w := batch[j]
			if w.BatchSize() != 4 || w.Steps() != 5 || w.Cols() != cols {
				t.Fatalf("window %d: bad shape (%d, %d, %d)", j, w.BatchSize(),
					w.Steps(), w.Cols())
			}
		}
	}
}

func TestSamplerAlignment(t *testing.T) {
	inputs, outputs := testSources(50)
	s := NewSampler([]*mat.Dense{inputs, outputs}, 5, 4, anytext.NewRand(42))
	for i := 0; i < 100; i++ {
		batch := s.Batch()
		offsets := s.LastOffsets()
		for row, offset := range offsets {
			if offset < 0 || offset >= 45 {
				t.Fatalf("offset out of range: %d", offset)
			}
			in := batch[0].Rows[row]
			out := batch[1].Rows[row]
			for step := 0; step < 5; step++ {
				timestep := float64(offset + step)
				if in.At(step, 0) != timestep || in.At(step, 2) != -timestep {
					t.Fatalf("row %d step %d: bad input %v", row, step, in.RawRowView(step))
				}
				if out.At(step, 0) != timestep*10 {
					t.Fatalf("row %d step %d: misaligned output %v", row, step,
						out.RawRowView(step))
				}
			}
		}
	}
}

func TestSamplerOffsetCoverage(t *testing.T) {
	inputs, _ := testSources(12)
	s := NewSampler([]*mat.Dense{inputs}, 2, 8, anytext.NewRand(3))
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		s.Batch()
		for _, o := range s.LastOffsets() {
			seen[o] = true
		}
	}
	for o := 0; o < 10; o++ {
		if !seen[o] {
			t.Errorf("offset %d never drawn", o)
		}
	}
	if len(seen) != 10 {
		t.Errorf("expected 10 distinct offsets but got %d", len(seen))
	}
}

func TestSamplerDeterministic(t *testing.T) {
	inputs, outputs := testSources(30)
	sources := []*mat.Dense{inputs, outputs}
	s1 := NewSampler(sources, 3, 5, anytext.NewRand(7))
	s2 := NewSampler(sources, 3, 5, anytext.NewRand(7))
	for i := 0; i < 10; i++ {
		b1, b2 := s1.Batch(), s2.Batch()
		if !reflect.DeepEqual(s1.LastOffsets(), s2.LastOffsets()) {
			t.Fatal("offsets differ for equal seeds")
		}
		for j := range b1 {
			for k := range b1[j].Rows {
				if !mat.Equal(b1[j].Rows[k], b2[j].Rows[k]) {
					t.Fatal("windows differ for equal seeds")
				}
			}
		}
	}
}

func TestSamplerFreshAllocation(t *testing.T) {
	inputs, _ := testSources(20)
	original := mat.DenseCopyOf(inputs)
	s := NewSampler([]*mat.Dense{inputs}, 4, 2, anytext.NewRand(1))
	first := s.Batch()
	first[0].Rows[0].Set(0, 0, 1000)
	if !mat.Equal(inputs, original) {
		t.Fatal("modifying a window changed the source")
	}
	second := s.Batch()
	if second[0].Rows[0] == first[0].Rows[0] {
		t.Fatal("batches share storage")
	}
}

func TestSamplerPreconditions(t *testing.T) {
	inputs, outputs := testSources(20)
	short, _ := testSources(19)
	cases := map[string]func(){
		"BatchSize": func() {
			NewSampler([]*mat.Dense{inputs}, 4, 1, nil)
		},
		"NoSources": func() {
			NewSampler(nil, 4, 2, nil)
		},
		"NilSource": func() {
			NewSampler([]*mat.Dense{inputs, nil}, 4, 2, nil)
		},
		"Ragged": func() {
			NewSampler([]*mat.Dense{inputs, outputs, short}, 4, 2, nil)
		},
		"TooLong": func() {
			NewSampler([]*mat.Dense{inputs}, 20, 2, nil)
		},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			f()
		})
	}
}

func TestWindowSeq(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	w := &Window{
		Rows: []*mat.Dense{
			mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			mat.NewDense(2, 2, []float64{5, 6, 7, 8}),
		},
	}
	seqs := anyseq.SeparateSeqs(w.Seq(c).Output())
	expected := [][][]float64{
		{{1, 2}, {3, 4}},
		{{5, 6}, {7, 8}},
	}
	if len(seqs) != len(expected) {
		t.Fatalf("expected %d sequences but got %d", len(expected), len(seqs))
	}
	for i, seq := range seqs {
		if len(seq) != len(expected[i]) {
			t.Fatalf("sequence %d: bad length %d", i, len(seq))
		}
		for j, vec := range seq {
			if !reflect.DeepEqual(vec.Data(), expected[i][j]) {
				t.Errorf("sequence %d step %d: expected %v but got %v", i, j,
					expected[i][j], vec.Data())
			}
		}
	}
}

func TestSamplerStream(t *testing.T) {
	inputs, outputs := testSources(40)
	s := NewSampler([]*mat.Dense{inputs, outputs}, 6, 3, anytext.NewRand(5))
	stop := make(chan struct{})
	stream := s.Stream(stop, 2)
	for i := 0; i < 5; i++ {
		batch := <-stream
		if len(batch) != 2 || batch[0].BatchSize() != 3 || batch[1].Steps() != 6 {
			t.Fatal("bad streamed batch")
		}
	}
	close(stop)
	for range stream {
	}
}

// testSources creates an input series whose row t is
// [t, t+0.5, -t] and an output series whose row t is
// [10t, 1].
func testSources(total int) (*mat.Dense, *mat.Dense) {
	inputs := mat.NewDense(total, 3, nil)
	outputs := mat.NewDense(total, 2, nil)
	for i := 0; i < total; i++ {
		x := float64(i)
		inputs.SetRow(i, []float64{x, x + 0.5, -x})
		outputs.SetRow(i, []float64{x * 10, 1})
	}
	return inputs, outputs
}

func TestSamplerIntegerLabels(t *testing.T) {
	labels := []int{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8}
	data := make([]float64, len(labels))
	for i, l := range labels {
		data[i] = float64(l)
	}
	src := mat.NewDense(len(labels), 1, data)
	s := NewSampler([]*mat.Dense{src}, 4, 3, anytext.NewRand(7))
	for i := 0; i < 20; i++ {
		window := s.Batch()[0]
		for row, offset := range s.LastOffsets() {
			for step := 0; step < 4; step++ {
				if actual := int(window.Rows[row].At(step, 0)); actual != labels[offset+step] {
					t.Fatalf("row %d step %d: expected label %d but got %d", row, step,
						labels[offset+step], actual)
				}
			}
		}
	}
}
