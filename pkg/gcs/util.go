// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package gcs

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"strings"
)

// LineParser turns one input line into a set value. Lines it cannot use are
// reported with ok == false and skipped.
type LineParser func(line string) (value uint64, ok bool)

// HexParser reads Pwned Passwords dump lines ("SHA1HEX:count"), keeping the
// first 64 bits of the hash.
func HexParser(line string) (uint64, bool) {
	if len(line) < 16 {
		return 0, false
	}

	v, err := U64FromHex(line[0:16])
	if err != nil {
		return 0, false
	}
	return v, true
}

// PlainParser hashes plain text passwords, one per line.
func PlainParser(line string) (uint64, bool) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return 0, false
	}
	return Hash(line), true
}

// Hash returns the first 64 bits of the SHA1 of password, big endian. This is
// the value stored for each password in a set.
func Hash(password string) uint64 {
	sum := sha1.Sum([]byte(password))
	return binary.BigEndian.Uint64(sum[:8])
}

// U64FromHex parses up to 16 hexadecimal characters.
func U64FromHex(src string) (uint64, error) {
	return strconv.ParseUint(src, 16, 64)
}

// estimateLines samples up to 16 MiB of a file to guess its line count, then
// rewinds it. Inputs that are not regular files report 0.
func estimateLines(in io.Reader) uint64 {
	const sampleLimit = 16 * 1024 * 1024

	f, ok := in.(*os.File)
	if !ok {
		return 0
	}

	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return 0
	}

	sampleSize := min(info.Size(), sampleLimit)
	buffer := make([]byte, sampleSize)
	read, err := io.ReadFull(f, buffer)
	if _, serr := f.Seek(0, io.SeekStart); serr != nil || (err != nil && read == 0) {
		return 0
	}

	lines := uint64(bytes.Count(buffer[:read], []byte("\n")))
	return lines * uint64(info.Size()) / uint64(read)
}

func toFixedBytes(content uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, content)
	return buf
}

// dedup removes adjacent duplicates in place.
func dedup(slice []uint64) []uint64 {
	if len(slice) < 2 {
		return slice
	}

	e := 1
	for i := 1; i < len(slice); i++ {
		if slice[i] == slice[i-1] {
			continue
		}
		slice[e] = slice[i]
		e++
	}

	return slice[:e]
}
