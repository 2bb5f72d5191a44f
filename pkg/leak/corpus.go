// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package leak provides the known-leaked password collections the analyzer
// checks passwords against.
package leak

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
)

//go:embed default_passwords.txt
var defaultPasswords string

var (
	_ strength.Corpus        = Set{}
	_ strength.CheckedCorpus = (*GCSCorpus)(nil)
)

// Set is an exact, case-sensitive, in-memory collection of passwords. It is
// read-only once built and safe for concurrent lookups.
type Set map[string]struct{}

func NewSet(passwords ...string) Set {
	s := make(Set, len(passwords))
	for _, p := range passwords {
		if p != "" {
			s[p] = struct{}{}
		}
	}
	return s
}

func (s Set) Contains(password string) bool {
	_, ok := s[password]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// ReadSet reads one password per line. Trailing carriage returns and empty
// lines are dropped; nothing else is trimmed.
func ReadSet(in io.Reader) (Set, error) {
	s := make(Set)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			s[line] = struct{}{}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read leaked passwords: %w", err)
	}
	return s, nil
}

// LoadFile reads a plain text password list from disk.
func LoadFile(fileName string) (Set, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadSet(file)
}

var (
	defaultOnce sync.Once
	defaultSet  Set
)

// Default is the small built-in list of the most common leaked passwords.
func Default() Set {
	defaultOnce.Do(func() {
		// embedded content cannot fail to scan
		defaultSet, _ = ReadSet(strings.NewReader(defaultPasswords))
	})
	return defaultSet
}
