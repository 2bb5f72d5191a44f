// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// rangeServer answers every prefix with two suffixes.
func rangeServer(t *testing.T, failPrefix string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := strings.TrimPrefix(r.URL.Path, "/range/")
		if len(prefix) != 5 {
			http.Error(w, "bad prefix", http.StatusBadRequest)
			return
		}
		if prefix == failPrefix {
			http.Error(w, "not here", http.StatusNotFound)
			return
		}
		w.Header().Set("CF-Cache-Status", "HIT")
		_, _ = fmt.Fprintf(w, "%s:1\r\n%s:42\r\n", strings.Repeat("A", 35), strings.Repeat("B", 35))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloader(t *testing.T) {
	srv := rangeServer(t, "")

	file, err := os.Create(filepath.Join(t.TempDir(), "download-test.txt"))
	if err != nil {
		t.Fatalf("Should not fail creating a file: %s", err)
	}
	defer file.Close()

	downloader := NewDownloader(file, 1).WithBaseURL(srv.URL + "/range")
	if err = downloader.ProcessRanges(context.Background(), 3, true); err != nil {
		t.Errorf("Should not fail download: %s", err)
	}

	data, err := os.ReadFile(file.Name())
	if err != nil {
		t.Fatalf("Should not fail reading the file: %s", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected 6 lines, have %d", len(lines))
	}

	sort.Strings(lines)
	expected := "00000" + strings.Repeat("A", 35) + ":1"
	if lines[0] != expected {
		t.Errorf("Expected %q, have %q", expected, lines[0])
	}
	for _, l := range lines {
		if len(l) < 40 || strings.Contains(l, "\r") {
			t.Errorf("Malformed line %q", l)
		}
	}
}

func TestDownloader_Parallel(t *testing.T) {
	srv := rangeServer(t, "")

	var out bytes.Buffer
	downloader := NewDownloader(&out, 0).WithBaseURL(srv.URL + "/range/")
	if err := downloader.ProcessRanges(context.Background(), 32, true); err != nil {
		t.Errorf("Should not fail download: %s", err)
	}

	if lines := strings.Count(out.String(), "\n"); lines != 64 {
		t.Errorf("Expected 64 lines, have %d", lines)
	}
}

func TestDownloader_FailedRange(t *testing.T) {
	srv := rangeServer(t, "00001")

	var out bytes.Buffer
	downloader := NewDownloader(&out, 2).WithBaseURL(srv.URL + "/range")
	downloader.http.RetryMax = 0

	err := downloader.ProcessRanges(context.Background(), 3, true)
	if !errors.Is(err, ErrRangesFailed) {
		t.Errorf("Expected ErrRangesFailed, have %v", err)
	}
	if strings.Contains(out.String(), "00001") {
		t.Errorf("Failed range should not be written")
	}
}

func TestHashRange(t *testing.T) {
	cases := []struct {
		i        int
		expected string
	}{
		{0, "00000"},
		{10, "0000A"},
		{255, "000FF"},
		{AllRanges - 1, "FFFFF"},
	}

	for _, c := range cases {
		if got := hashRange(c.i); got != c.expected {
			t.Errorf("hashRange(%d): expected %s, have %s", c.i, c.expected, got)
		}
	}
}
