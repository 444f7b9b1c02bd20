// Command charrnn trains a character-level LSTM on a text
// file and then samples new text from it.
package main

import (
	"flag"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anynet/anys2s"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anytext"
	"github.com/unixpickle/anytext/anyclass"
	"github.com/unixpickle/anytext/anygen"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
)

var Creator anyvec.Creator

func main() {
	var dataPath string
	var steps int
	var batchSize int
	var hiddenSize int
	var rate float64
	var iters int
	var genSteps int
	var seedText string
	var streams int
	flag.StringVar(&dataPath, "data", "", "path to training text")
	flag.IntVar(&steps, "steps", anytext.DefaultSteps, "time-steps per training window")
	flag.IntVar(&batchSize, "batch", anytext.DefaultBatchSize, "training batch size")
	flag.IntVar(&hiddenSize, "hidden", 256, "LSTM state size")
	flag.Float64Var(&rate, "rate", 0.001, "learning rate")
	flag.IntVar(&iters, "iters", 0, "training iterations (0 runs until interrupted)")
	flag.IntVar(&genSteps, "generate", 200, "number of symbols to sample")
	flag.StringVar(&seedText, "seed", "The ", "text to start sampling from")
	flag.IntVar(&streams, "streams", 1, "number of samples to draw")
	flag.Parse()

	if dataPath == "" {
		log.Fatal("missing -data flag")
	}

	log.Println("Setting up...")

	Creator = anyvec32.CurrentCreator()

	text, err := ioutil.ReadFile(dataPath)
	essentials.Must(err)
	corpus, err := anytext.InferCorpus(string(text), anytext.DefaultMinCount,
		anytext.DefaultUnknown)
	essentials.Must(err)
	numClasses := corpus.Alphabet.NumClasses()
	log.Printf("Corpus has %d symbols over %d classes.", corpus.Len(), numClasses)

	lstm := anyrnn.NewLSTM(Creator, numClasses, hiddenSize)
	outNet := anynet.Net{
		anynet.NewFC(Creator, hiddenSize, numClasses),
		anynet.LogSoftmax,
	}
	block := anyrnn.Stack{lstm, &anyrnn.LayerBlock{Layer: outNet}}

	t := &anys2s.Trainer{
		Func: func(s anyseq.Seq) anyseq.Seq {
			return anyrnn.Map(s, block)
		},
		Cost:    anynet.DotCost{},
		Params:  append(lstm.Parameters(), outNet.Parameters()...),
		Average: true,
	}
	train(t, anyclass.NewGenerator(corpus, steps, batchSize, nil), rate, iters)

	log.Println("Sampling...")
	sampler := &anygen.Sampler{
		Predictor:  &anygen.BlockPredictor{Block: block, LogProbs: true},
		Creator:    Creator,
		NumClasses: numClasses,
		Streams:    streams,
		Log:        log.New(os.Stderr, "", log.LstdFlags),
	}
	samples, err := anygen.SampleText(sampler, corpus.Alphabet, seedText, genSteps)
	essentials.Must(err)
	for _, sample := range samples {
		log.Println(strings.Replace(seedText+sample, "\x00", "?", -1))
	}
}

func train(t *anys2s.Trainer, gen *anyclass.Generator, rate float64, iters int) {
	stop := make(chan struct{})
	var stopOnce sync.Once
	stopTraining := func() {
		stopOnce.Do(func() {
			close(stop)
		})
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		select {
		case <-interrupt:
			stopTraining()
		case <-stop:
		}
	}()

	var iterNum int
	s := &anysgd.SGD{
		Fetcher:     gen,
		Gradienter:  t,
		Transformer: &anysgd.Adam{},
		Samples:     anyclass.SampleList(gen.BatchSize),
		Rater:       anysgd.ConstRater(rate),
		StatusFunc: func(b anysgd.Batch) {
			if iterNum > 0 {
				log.Printf("iter %d: cost=%v", iterNum-1, t.LastCost)
			}
			if iters > 0 && iterNum == iters {
				stopTraining()
			}
			iterNum++
		},
		BatchSize: gen.BatchSize,
	}

	log.Println("Press ctrl+c once to stop...")
	s.Run(stop)
	stopTraining()
}
