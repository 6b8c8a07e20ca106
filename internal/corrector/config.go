package corrector

import (
	"disambig/internal/bayes"
	"disambig/internal/cbr"
)

// CorrectorConfig selects the candidate pair and the engines to train.
type CorrectorConfig struct {
	Candidate1 string
	Candidate2 string
	Topologies []bayes.Topology
	Metrics    []cbr.Metric
	Primary    string // engine used by CorrectTokens; the first engine when empty
	KMax       int
	KRatio     int
	CacheSize  int
}

// DefaultEngines wires both built-in topologies and both metrics.
func DefaultEngines(candidate1, candidate2 string) CorrectorConfig {
	return CorrectorConfig{
		Candidate1: candidate1,
		Candidate2: candidate2,
		Topologies: []bayes.Topology{bayes.Chain, bayes.Fork},
		Metrics:    []cbr.Metric{cbr.ExactMatch, cbr.EditDistance},
	}
}

// SuggestionInfo records the decision taken for one candidate token.
type SuggestionInfo struct {
	Token    string            `json:"token"`
	Chosen   string            `json:"chosen"`
	Votes    map[string]string `json:"votes"`
	Decision string            `json:"decision"`
}

// CorrectionResult pairs the input literals with the corrected ones.
type CorrectionResult struct {
	Original    []string               `json:"original"`
	Corrected   []string               `json:"corrected"`
	Suggestions map[int]SuggestionInfo `json:"suggestions"`
}
