package gcs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func buildFile(t *testing.T, input string, parse LineParser, probability, granularity uint64) string {
	t.Helper()

	out := filepath.Join(t.TempDir(), "set.gcs")
	file, err := os.Create(out)
	if err != nil {
		t.Fatalf("Should not fail creating file: %s", err)
	}
	defer file.Close()

	builder := NewBuilder(strings.NewReader(input), file, probability, granularity).WithParser(parse)
	if err = builder.Process(true); err != nil {
		t.Fatalf("Should not fail processing input: %s", err)
	}

	return out
}

func passwords(n int) []string {
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, fmt.Sprintf("secret-%d", i))
	}
	return list
}

func TestBuilderFooter(t *testing.T) {
	// 3 lines, one duplicate.
	input := "password\n123456\npassword\n"

	var out bytes.Buffer
	if err := NewBuilder(strings.NewReader(input), &out, 64, 1).WithParser(PlainParser).Process(true); err != nil {
		t.Fatalf("Should not fail processing: %s", err)
	}

	data := out.Bytes()
	if len(data) < footerLen {
		t.Fatalf("There should be a footer, have %d bytes", len(data))
	}

	footer := data[len(data)-footerLen:]
	if num := binary.BigEndian.Uint64(footer[0:8]); num != 3 {
		t.Errorf("GCS should have %d items, have %d", 3, num)
	}
	if p := binary.BigEndian.Uint64(footer[8:16]); p != 64 {
		t.Errorf("GCS should have probability %d, have %d", 64, p)
	}
	endOfData := binary.BigEndian.Uint64(footer[16:24])
	indexLen := binary.BigEndian.Uint64(footer[24:32])
	if indexLen != 2 {
		t.Errorf("Index should have one point per distinct value, have %d", indexLen)
	}
	if endOfData+indexLen*16+footerLen != uint64(len(data)) {
		t.Errorf("Layout mismatch: data %d, index %d, total %d", endOfData, indexLen, len(data))
	}
	if magic := string(footer[32:]); magic != gcsMagic {
		t.Errorf("Unexpected magic %q", magic)
	}
}

func TestBuilderEmptyInput(t *testing.T) {
	var out bytes.Buffer
	err := NewBuilder(strings.NewReader("\n\n"), &out, 16, 4).WithParser(PlainParser).Process(true)
	if !errors.Is(err, ErrEmptySet) {
		t.Errorf("Expected ErrEmptySet, have %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	members := passwords(500)
	granularities := []uint64{0, 1, 7, 64, 1000}

	for _, g := range granularities {
		t.Run(fmt.Sprintf("granularity-%d", g), func(t *testing.T) {
			file := buildFile(t, strings.Join(members, "\n"), PlainParser, 1024, g)

			reader := NewReader(file)
			if err := reader.Initialize(); err != nil {
				t.Fatalf("Should not fail initializing: %s", err)
			}
			if reader.Len() != uint64(len(members)) {
				t.Errorf("Expected %d items, have %d", len(members), reader.Len())
			}
			if reader.Probability() != 1024 {
				t.Errorf("Expected probability 1024, have %d", reader.Probability())
			}

			for _, m := range members {
				ok, err := reader.Exists(Hash(m))
				if err != nil {
					t.Fatalf("Should not fail querying %q: %s", m, err)
				}
				if !ok {
					t.Errorf("%q should be in the set", m)
				}
			}

			falsePositives := 0
			for i := 0; i < 1000; i++ {
				ok, err := reader.Exists(Hash(fmt.Sprintf("absent-%d", i)))
				if err != nil {
					t.Fatalf("Should not fail querying: %s", err)
				}
				if ok {
					falsePositives++
				}
			}
			// expected around 1 in 1024
			if falsePositives > 10 {
				t.Errorf("Too many false positives: %d", falsePositives)
			}
		})
	}
}

func TestRoundTripHex(t *testing.T) {
	input := strings.Join([]string{
		"5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8:3861493",
		"7C4A8D09CA3762AF61E59520943DC26494F8941B:37359195",
		"B1B3773A05C0ED0176787A4F1574FF0075F7521E:4500000",
	}, "\n")
	file := buildFile(t, input, HexParser, 100, 2)

	reader := NewReader(file)
	if err := reader.Initialize(); err != nil {
		t.Fatalf("Should not fail initializing: %s", err)
	}

	for _, pwd := range []string{"password", "123456", "qwerty"} {
		ok, err := reader.Exists(Hash(pwd))
		if err != nil {
			t.Fatalf("Should not fail querying: %s", err)
		}
		if !ok {
			t.Errorf("%q should be in the set", pwd)
		}
	}
}

func TestReaderNotGCS(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not.gcs")
	if err := os.WriteFile(file, bytes.Repeat([]byte("x"), 64), 0o600); err != nil {
		t.Fatalf("Should not fail writing file: %s", err)
	}

	if err := NewReader(file).Initialize(); !errors.Is(err, ErrNotGCS) {
		t.Errorf("Expected ErrNotGCS, have %v", err)
	}

	short := filepath.Join(t.TempDir(), "short.gcs")
	if err := os.WriteFile(short, []byte("[GCS:v1]"), 0o600); err != nil {
		t.Fatalf("Should not fail writing file: %s", err)
	}
	if err := NewReader(short).Initialize(); !errors.Is(err, ErrNotGCS) {
		t.Errorf("Expected ErrNotGCS, have %v", err)
	}
}

func TestReaderUninitialized(t *testing.T) {
	if _, err := NewReader("missing.gcs").Exists(1); err == nil {
		t.Errorf("Querying before Initialize should fail")
	}
}
