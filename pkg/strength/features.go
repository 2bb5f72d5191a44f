// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"fmt"
	"math"
	"unicode"
)

// Corpus is a read-only collection of leaked passwords. Lookups are exact and
// case-sensitive.
type Corpus interface {
	Contains(password string) bool
}

// CheckedCorpus is a Corpus backed by storage that can fail. ExtractFeatures
// prefers Lookup so failures reach the caller instead of reading as not
// leaked.
type CheckedCorpus interface {
	Corpus
	Lookup(password string) (bool, error)
}

// Features is the fixed-shape summary of a password that scoring, crack time
// estimation and suggestions work from.
type Features struct {
	Length     int     `json:"length"`
	Entropy    float64 `json:"entropy"`
	Upper      int     `json:"upper"`
	Lower      int     `json:"lower"`
	Digits     int     `json:"digits"`
	Special    int     `json:"special"`
	Repeats    int     `json:"repeats"`
	Sequential int     `json:"sequential"`
	Proximity  int     `json:"proximity"`
	IsLeaked   bool    `json:"is_leaked"`
}

// ExtractFeatures computes the Features of password. A nil corpus is treated
// as empty.
func ExtractFeatures(password string, corpus Corpus) (Features, error) {
	if password == "" {
		return Features{}, fmt.Errorf("extract features: %w", ErrInvalidInput)
	}

	runes := []rune(password)
	f := Features{
		Length:     len(runes),
		Entropy:    bigramEntropy(runes),
		Repeats:    longestBorder(runes),
		Sequential: sequentialPairs(runes),
		Proximity:  keyboardPairs(runes),
	}
	f.Upper, f.Lower, f.Digits, f.Special = classCounts(runes)

	switch c := corpus.(type) {
	case nil:
	case CheckedCorpus:
		leaked, err := c.Lookup(password)
		if err != nil {
			return Features{}, fmt.Errorf("%w: %w", ErrCorpusLookup, err)
		}
		f.IsLeaked = leaked
	default:
		f.IsLeaked = c.Contains(password)
	}

	return f, nil
}

// classCounts splits runes in four disjoint classes. Letters that are not
// uppercase (including uncased scripts) count as lower.
func classCounts(runes []rune) (upper, lower, digits, special int) {
	for _, r := range runes {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLetter(r):
			lower++
		default:
			special++
		}
	}

	return
}

// bigramEntropy is the Shannon entropy, in bits, of the distribution of
// overlapping two-rune windows, rounded to 2 decimals.
func bigramEntropy(runes []rune) float64 {
	windows := len(runes) - 1
	if windows < 1 {
		return 0
	}

	freq := make(map[[2]rune]int, windows)
	for i := 0; i < windows; i++ {
		freq[[2]rune{runes[i], runes[i+1]}]++
	}

	h := 0.0
	total := float64(windows)
	for _, count := range freq {
		p := float64(count) / total
		h -= p * math.Log2(p)
	}

	return math.Round(h*100) / 100
}

// longestBorder returns the maximum of the prefix function of runes: the
// longest proper prefix that also ends at some later position.
func longestBorder(runes []rune) int {
	if len(runes) < 2 {
		return 0
	}

	pi := make([]int, len(runes))
	longest := 0
	for i := 1; i < len(runes); i++ {
		k := pi[i-1]
		for k > 0 && runes[i] != runes[k] {
			k = pi[k-1]
		}
		if runes[i] == runes[k] {
			k++
		}
		pi[i] = k
		if k > longest {
			longest = k
		}
	}

	return longest
}

// sequentialPairs counts ascending steps of exactly one code point ("ab",
// "12"). Descending runs are not counted.
func sequentialPairs(runes []rune) int {
	count := 0
	for i := 0; i+1 < len(runes); i++ {
		if runes[i+1]-runes[i] == 1 {
			count++
		}
	}

	return count
}

func keyboardPairs(runes []rune) int {
	count := 0
	for i := 0; i+1 < len(runes); i++ {
		if adjacent(runes[i], runes[i+1]) {
			count++
		}
	}

	return count
}
