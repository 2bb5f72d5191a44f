// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package strength is the password analysis engine: feature extraction,
// scoring, crack time estimation and improvement suggestions. Everything in
// it is deterministic and safe for concurrent use once constructed.
package strength

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of a single analysis.
type Result struct {
	Password    string            `json:"password"`
	Score       int               `json:"score"`
	Category    Category          `json:"category"`
	TimeToCrack map[string]string `json:"time_to_crack"`
	Features    Features          `json:"features"`
	Suggestions []string          `json:"suggestions"`
}

type Analyzer struct {
	corpus    Corpus
	scorer    ScoreModel
	estimator CrackTimeEstimator
	localizer Localizer
}

type Option func(a *Analyzer)

// WithScoreModel replaces the rule based scorer.
func WithScoreModel(m ScoreModel) Option {
	return func(a *Analyzer) {
		a.scorer = m
	}
}

// WithEstimator replaces the feature based crack time estimator.
func WithEstimator(e CrackTimeEstimator) Option {
	return func(a *Analyzer) {
		a.estimator = e
	}
}

// WithLocalizer sets the Localizer used for suggestions and, unless an
// estimator was given explicitly, for crack time strings.
func WithLocalizer(l Localizer) Option {
	return func(a *Analyzer) {
		a.localizer = l
	}
}

// NewAnalyzer builds an Analyzer over a read-only leak corpus. corpus may be
// nil, in which case no password is ever reported as leaked.
func NewAnalyzer(corpus Corpus, opts ...Option) *Analyzer {
	a := &Analyzer{corpus: corpus}
	for _, opt := range opts {
		opt(a)
	}

	if a.localizer == nil {
		a.localizer = English{}
	}
	if a.scorer == nil {
		a.scorer = RuleScorer{}
	}
	if a.estimator == nil {
		a.estimator = FeatureEstimator{Attackers: DefaultAttackers, Localizer: a.localizer}
	}

	log.Debug().Msgf("analyzer ready: scorer %T, estimator %T, localizer %T", a.scorer, a.estimator, a.localizer)
	return a
}

// Analyze runs the whole pipeline over password. An empty password fails with
// ErrInvalidInput and no result.
func (a *Analyzer) Analyze(password string) (*Result, error) {
	features, err := ExtractFeatures(password, a.corpus)
	if err != nil {
		return nil, err
	}

	score, err := a.scorer.Score(features)
	if err != nil {
		return nil, fmt.Errorf("score password: %w", err)
	}

	return &Result{
		Password:    password,
		Score:       score,
		Category:    Categorize(score),
		TimeToCrack: a.estimator.Estimate(features, score),
		Features:    features,
		Suggestions: Suggest(features, score, a.localizer),
	}, nil
}
