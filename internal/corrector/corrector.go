// Package corrector runs the classification engines for one confusable pair:
// it evaluates them against labelled test windows and re-decides candidate
// words inside tagged sentences.
package corrector

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"disambig/internal/bayes"
	"disambig/internal/cbr"
	"disambig/internal/model"
	"disambig/internal/window"
	"disambig/pkg/options"
)

var (
	ErrInvalidCandidates = errors.New("candidates must be two distinct non-empty words")
	ErrNoEngines         = errors.New("no engines configured")
	ErrUnknownEngine     = errors.New("unknown engine")
)

// Engine picks one of the two candidates for the center of a window.
type Engine interface {
	Name() string
	Classify(query window.Example) (string, error)
}

var (
	_ Engine = (*bayes.Net)(nil)
	_ Engine = (*cbr.Reasoner)(nil)
)

// SpellCorrector holds every engine trained for one confusable pair.
type SpellCorrector struct {
	config    CorrectorConfig
	engines   []Engine
	primary   Engine
	trainSize int
	logger    *slog.Logger
}

// =====================
// Init
// =====================

// NewSpellCorrector trains one engine per configured topology and metric.
func NewSpellCorrector(cfg CorrectorConfig, trainSet []window.Example, logger *slog.Logger) (*SpellCorrector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c1, c2 := strings.TrimSpace(cfg.Candidate1), strings.TrimSpace(cfg.Candidate2)
	if c1 == "" || c2 == "" || c1 == c2 {
		return nil, fmt.Errorf("%w: %q, %q", ErrInvalidCandidates, cfg.Candidate1, cfg.Candidate2)
	}
	cfg.Candidate1, cfg.Candidate2 = c1, c2
	if len(cfg.Topologies)+len(cfg.Metrics) == 0 {
		return nil, ErrNoEngines
	}

	opts := []options.Options{options.WithLogger(logger)}
	if cfg.KMax > 0 {
		opts = append(opts, options.WithKMax(cfg.KMax))
	}
	if cfg.KRatio > 0 {
		opts = append(opts, options.WithKRatio(cfg.KRatio))
	}
	if cfg.CacheSize > 0 {
		opts = append(opts, options.WithCacheSize(cfg.CacheSize))
	}

	sc := &SpellCorrector{config: cfg, trainSize: len(trainSet), logger: logger}
	for _, topo := range cfg.Topologies {
		net, err := bayes.NewNet(topo, c1, c2, trainSet, opts...)
		if err != nil {
			return nil, fmt.Errorf("bayes %s: %w", topo.Name, err)
		}
		sc.engines = append(sc.engines, net)
	}
	for _, m := range cfg.Metrics {
		r, err := cbr.New(m, c1, c2, trainSet, opts...)
		if err != nil {
			return nil, fmt.Errorf("cbr %s: %w", m, err)
		}
		sc.engines = append(sc.engines, r)
	}

	sc.primary = sc.engines[0]
	if cfg.Primary != "" {
		e, ok := sc.Engine(cfg.Primary)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, cfg.Primary)
		}
		sc.primary = e
	}
	logger.Info("corrector ready",
		"candidates", []string{c1, c2},
		"engines", sc.EngineNames(),
		"primary", sc.primary.Name(),
		"train_size", len(trainSet))
	return sc, nil
}

func (sc *SpellCorrector) Engines() []Engine { return sc.engines }

func (sc *SpellCorrector) EngineNames() []string {
	names := make([]string, len(sc.engines))
	for i, e := range sc.engines {
		names[i] = e.Name()
	}
	return names
}

func (sc *SpellCorrector) Engine(name string) (Engine, bool) {
	for _, e := range sc.engines {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}

func (sc *SpellCorrector) Candidates() (string, string) {
	return sc.config.Candidate1, sc.config.Candidate2
}

// Classify asks every engine for the center word of query, keyed by engine name.
func (sc *SpellCorrector) Classify(query window.Example) (map[string]string, error) {
	out := make(map[string]string, len(sc.engines))
	for _, e := range sc.engines {
		w, err := e.Classify(query)
		if err != nil {
			return nil, err
		}
		out[e.Name()] = w
	}
	return out, nil
}

// =====================
// Evaluation
// =====================

// Evaluate classifies every positive example of testSet with e. Negative
// examples carry the wrong word at the center and are skipped.
func (sc *SpellCorrector) Evaluate(e Engine, testSet []window.Example) (model.Evaluation, error) {
	res := model.Evaluation{
		Engine:     e.Name(),
		Candidate1: sc.config.Candidate1,
		Candidate2: sc.config.Candidate2,
		TrainSize:  sc.trainSize,
	}
	for _, ex := range testSet {
		if !ex.Positive() {
			continue
		}
		res.Tested++
		guess, err := e.Classify(ex)
		if err != nil {
			return res, fmt.Errorf("evaluate %s: %w", e.Name(), err)
		}
		if guess == ex.CenterWord() {
			res.Correct++
		} else {
			res.Wrong++
			res.Failed = append(res.Failed, ex.String())
		}
	}
	if res.Tested > 0 {
		res.Accuracy = float64(res.Correct) / float64(res.Tested)
	}
	sc.logger.Info("evaluation finished",
		"engine", res.Engine,
		"tested", res.Tested,
		"correct", res.Correct,
		"accuracy", res.Accuracy)
	return res, nil
}

func (sc *SpellCorrector) EvaluateAll(testSet []window.Example) ([]model.Evaluation, error) {
	out := make([]model.Evaluation, 0, len(sc.engines))
	for _, e := range sc.engines {
		res, err := sc.Evaluate(e, testSet)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// =====================
// Sentence correction
// =====================

// CorrectTokens re-decides every occurrence of either candidate in a tagged
// sentence. The primary engine chooses; the other engines' answers are kept
// as votes.
func (sc *SpellCorrector) CorrectTokens(tokens []window.Word) (CorrectionResult, error) {
	res := CorrectionResult{
		Original:    make([]string, len(tokens)),
		Corrected:   make([]string, len(tokens)),
		Suggestions: make(map[int]SuggestionInfo),
	}
	for i, t := range tokens {
		res.Original[i] = t.Literal
		res.Corrected[i] = t.Literal
	}

	for idx, t := range tokens {
		if !sc.isCandidate(t.Literal) {
			continue
		}
		query := window.Around(tokens, idx, true)
		votes, err := sc.Classify(query)
		if err != nil {
			return res, fmt.Errorf("token %d: %w", idx, err)
		}
		chosen := votes[sc.primary.Name()]

		decision := "keep"
		if !strings.EqualFold(chosen, t.Literal) {
			decision = "replace"
			res.Corrected[idx] = matchCase(t.Literal, chosen)
		}
		res.Suggestions[idx] = SuggestionInfo{
			Token:    t.Literal,
			Chosen:   chosen,
			Votes:    votes,
			Decision: decision,
		}
	}
	return res, nil
}

func (sc *SpellCorrector) isCandidate(literal string) bool {
	return strings.EqualFold(literal, sc.config.Candidate1) || strings.EqualFold(literal, sc.config.Candidate2)
}
