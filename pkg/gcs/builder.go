// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package gcs builds and queries Golomb coded sets of 64 bit password hashes.
// A set file is the Golomb-Rice encoded sorted deltas, followed by an index of
// (value, bit position) pairs and a fixed 40 byte footer.
package gcs

import (
	"bufio"
	"errors"
	"io"
	"sync"

	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/jfcg/sorty/v2"
	"github.com/rs/zerolog/log"
)

// https://github.com/rasky/gcs
// https://github.com/Freaky/gcstool
// https://giovanni.bajo.it/post/47119962313/golomb-coded-sets-smaller-than-bloom-filters
const gcsMagic = "[GCS:v1]"

const footerLen = 5 * 8

var ErrEmptySet = errors.New("no values to encode")

type indexPair struct {
	value  uint64
	bitPos uint64
}

type Builder struct {
	in               io.Reader
	out              io.Writer
	parse            LineParser
	estimate         uint64
	probability      uint64
	indexGranularity uint64
	values           []uint64
	stat             *status
}

// NewBuilder builder for a new GCS file database. Input lines are parsed with
// HexParser unless another parser is set.
//
// probability is the False positive rate for queries, 1-in-p.
// indexGranularity is the entries per index point (16 bytes each).
func NewBuilder(in io.Reader, out io.Writer, probability uint64, indexGranularity uint64) *Builder {
	estimate := estimateLines(in)

	return &Builder{
		in:               in,
		out:              out,
		parse:            HexParser,
		estimate:         estimate,
		probability:      max(probability, 2),
		indexGranularity: indexGranularity,
		values:           make([]uint64, 0, estimate),
	}
}

// WithParser sets how input lines become set values.
func (b *Builder) WithParser(parse LineParser) *Builder {
	b.parse = parse
	return b
}

// Process reads every input line and writes the encoded set.
// Concurrent file read inspired by https://marcellanz.com/post/file-read-challenge/
func (b *Builder) Process(skipWait bool) error {
	// Stop the process if not enough ram to actually hold all the entries read.
	if err := util.CheckRam(b.estimate, skipWait); err != nil {
		return err
	}

	s := util.Stats()
	defer s()

	b.stat = newStatus()
	log.Info().Msg("starting process. This might take a while, be patient :)")

	if err := b.read(); err != nil {
		return err
	}

	if err := b.finalize(); err != nil {
		return err
	}

	b.stat.Done()
	return nil
}

// read parses the input in chunks of lines, each chunk on its own goroutine.
func (b *Builder) read() error {
	const chunkLen = 64 * 1024

	linesPool := sync.Pool{New: func() interface{} {
		return make([]string, 0, chunkLen)
	}}

	mutex := sync.Mutex{}
	wg := sync.WaitGroup{}

	b.stat.StageWork("Read", b.estimate)
	scanner := bufio.NewScanner(b.in)
	lines := linesPool.Get().([]string)[:0]

	flush := func(chunk []string) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			parsed := make([]uint64, 0, len(chunk))
			for _, line := range chunk {
				if v, ok := b.parse(line); ok {
					parsed = append(parsed, v)
				} else {
					log.Trace().Msgf("skipping line %q", line)
				}
			}
			linesPool.Put(chunk[:0])

			mutex.Lock()
			b.values = append(b.values, parsed...)
			mutex.Unlock()

			for range parsed {
				b.stat.Incr()
			}
		}()
	}

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) == chunkLen {
			flush(lines)
			lines = linesPool.Get().([]string)[:0]
		}
	}
	if len(lines) > 0 {
		flush(lines)
	}

	wg.Wait()
	return scanner.Err()
}

// finalize normalises, sorts and encodes the values, then writes the index
// and footer.
func (b *Builder) finalize() error {
	num := uint64(len(b.values))
	if num == 0 {
		return ErrEmptySet
	}
	log.Debug().Msgf("database will have %d items", num)

	np := num * b.probability

	b.stat.Stage("Normalise")
	for i, v := range b.values {
		b.values[i] = v % np
	}

	b.stat.Stage("Sort")
	sorty.SortSlice(b.values)

	b.stat.Stage("Deduplicate")
	b.values = dedup(b.values)

	index := make([]indexPair, 0, 1+uint64(len(b.values))/max(b.indexGranularity, 1))
	encoder := newEncoder(b.out, b.probability)
	b.stat.StageWork("Encode", uint64(len(b.values)))

	// Values are stored shifted by one so a zero delta can only be the end
	// marker.
	prev := uint64(0)
	totalBits := uint64(0)
	for i, v := range b.values {
		stored := v + 1
		d, err := encoder.Encode(stored - prev)
		if err != nil {
			return err
		}
		totalBits += d
		prev = stored

		if b.indexGranularity > 0 && uint64(i+1)%b.indexGranularity == 0 {
			index = append(index, indexPair{value: stored, bitPos: totalBits})
		}
		b.stat.Incr()
	}

	d, err := encoder.Encode(0)
	if err != nil {
		return err
	}
	totalBits += d

	padding, err := encoder.Finalize()
	if err != nil {
		return err
	}

	endOfData := (totalBits + padding) / 8
	log.Debug().Msgf("end of data: %d", endOfData)
	b.stat.Stage("Write Index")
	log.Debug().Msgf("index will have %d items", len(index))

	w := bufio.NewWriter(b.out)
	for _, pair := range index {
		if _, err = w.Write(toFixedBytes(pair.value)); err != nil {
			return err
		}
		if _, err = w.Write(toFixedBytes(pair.bitPos)); err != nil {
			return err
		}
	}

	// N, P, index position in bytes, index size in entries, magic
	footer := [][]byte{
		toFixedBytes(num),
		toFixedBytes(b.probability),
		toFixedBytes(endOfData),
		toFixedBytes(uint64(len(index))),
		[]byte(gcsMagic),
	}
	for _, part := range footer {
		if _, err = w.Write(part); err != nil {
			return err
		}
	}

	return w.Flush()
}
