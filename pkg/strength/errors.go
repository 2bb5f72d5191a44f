// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import "errors"

var (
	// ErrInvalidInput is returned when there is nothing to analyze.
	ErrInvalidInput = errors.New("password cannot be empty")
	// ErrModelOutput is returned when a substituted score model fails or
	// produces a value that is not a usable score.
	ErrModelOutput = errors.New("score model returned an invalid result")
	// ErrCorpusLookup is returned when the leak corpus could not be queried.
	ErrCorpusLookup = errors.New("leak corpus lookup failed")
)
