// Package scoring derives behavioural, fraud-risk and vocal heuristics
// from a single document. Every score is a pure function of its input.
package scoring

import (
	"regexp"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"

	"docintel/domain"
	"docintel/errors"
)

// DefaultUncertaintyLexicon lists hedging words that lower the
// behavioural score. Matched as whole words, case-insensitive, once per
// document each.
var DefaultUncertaintyLexicon = []string{
	"maybe", "possibly", "uncertain", "believe", "guess", "perhaps", "unsure",
}

// DefaultFraudLexicon lists keywords that raise the fraud-risk score.
// Matched as case-insensitive substrings, so "lie" also fires inside
// "believe"; that looseness is intended.
var DefaultFraudLexicon = []string{
	"fake", "fraud", "lie", "forged", "tampered", "scam", "counterfeit",
}

const (
	behaviouralStart   = 100
	behaviouralPenalty = 5
	fraudIncrement     = 20
)

type Scorer struct {
	uncertaintyRes []*regexp.Regexp
	fraudMatcher   *goahocorasick.Machine
}

// NewScorer compiles both lexicons. The uncertainty lexicon becomes one
// whole-word regex per word; the fraud lexicon feeds an Aho-Corasick
// automaton built over lowercased runes so a single pass finds every
// substring hit.
func NewScorer(uncertainty, fraud []string) (*Scorer, error) {
	if len(uncertainty) == 0 || len(fraud) == 0 {
		return nil, errors.ErrEmptyLexicon
	}

	res := make([]*regexp.Regexp, 0, len(uncertainty))
	for _, w := range uncertainty {
		res = append(res, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}

	patterns := make([][]rune, len(fraud))
	for i, w := range fraud {
		patterns[i] = lowerRunes(w)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}

	return &Scorer{uncertaintyRes: res, fraudMatcher: m}, nil
}

// ScoreText computes the behavioural and fraud-risk scores. VocalTone and
// Stress stay nil; audio documents get them through ScoreAudio.
func (s *Scorer) ScoreText(text string) domain.ScoreSet {
	return domain.ScoreSet{
		Behavioural: s.behavioural(text),
		FraudRisk:   s.fraudRisk(text),
	}
}

// behavioural starts at 100 and subtracts a fixed penalty per lexicon
// word present in the text. Presence is a set-membership test: repeating
// the same hedge word does not compound.
func (s *Scorer) behavioural(text string) int {
	score := behaviouralStart
	for _, re := range s.uncertaintyRes {
		if re.MatchString(text) {
			score -= behaviouralPenalty
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// fraudRisk adds a fixed increment per lexicon word found anywhere in
// the text. Matched patterns are deduplicated so each keyword counts
// once regardless of how often it occurs.
func (s *Scorer) fraudRisk(text string) int {
	if text == "" {
		return 0
	}
	terms := s.fraudMatcher.MultiPatternSearch(lowerRunes(text), false)
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		seen[string(t.Word)] = struct{}{}
	}
	score := len(seen) * fraudIncrement
	if score > 100 {
		score = 100
	}
	return score
}

// ScoreAudio applies the fixed clamp/scale formulas to externally
// computed signal features. Feature acquisition failures are the
// caller's concern and degrade both values to zero there.
func (s *Scorer) ScoreAudio(f domain.AudioFeatures) (tone, stress int) {
	tone = clamp(f.RMS*1000 + f.Tempo/2)
	stress = clamp(f.RMS*500 + f.StdDev*100)
	return tone, stress
}

func clamp(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

func lowerRunes(s string) []rune {
	return []rune(strings.ToLower(s))
}
