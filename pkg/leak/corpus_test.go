package leak

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alvinbaena/pwd-analyzer/pkg/gcs"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
)

func TestDefault(t *testing.T) {
	d := Default()
	for _, p := range []string{"password", "123456", "qwerty", "abc123"} {
		if !d.Contains(p) {
			t.Errorf("%q should be in the default list", p)
		}
	}

	cases := []string{"PASSWORD", "password ", "", "correct horse battery staple"}
	for _, p := range cases {
		if d.Contains(p) {
			t.Errorf("%q should not be in the default list", p)
		}
	}
}

func TestReadSet(t *testing.T) {
	s, err := ReadSet(strings.NewReader("alpha\r\n\nbeta\n gamma\n"))
	if err != nil {
		t.Fatalf("Should not fail reading set: %s", err)
	}

	if s.Len() != 3 {
		t.Errorf("Expected 3 passwords, have %d", s.Len())
	}
	for _, p := range []string{"alpha", "beta", " gamma"} {
		if !s.Contains(p) {
			t.Errorf("%q should be in the set", p)
		}
	}
	if s.Contains("gamma") {
		t.Errorf("Leading spaces are part of the password")
	}
}

func TestNewSet(t *testing.T) {
	s := NewSet("a", "b", "", "a")
	if s.Len() != 2 {
		t.Errorf("Expected 2 passwords, have %d", s.Len())
	}
	if s.Contains("") {
		t.Errorf("Empty password should never be stored")
	}
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "leaked.txt")
	if err := os.WriteFile(file, []byte("hunter2\nletmein\n"), 0o600); err != nil {
		t.Fatalf("Should not fail writing file: %s", err)
	}

	s, err := LoadFile(file)
	if err != nil {
		t.Fatalf("Should not fail loading file: %s", err)
	}
	if !s.Contains("hunter2") || !s.Contains("letmein") {
		t.Errorf("Unexpected set contents %v", s)
	}

	if _, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Errorf("Loading a missing file should fail")
	}
}

func TestGCSCorpus(t *testing.T) {
	file := filepath.Join(t.TempDir(), "leaked.gcs")
	out, err := os.Create(file)
	if err != nil {
		t.Fatalf("Should not fail creating file: %s", err)
	}

	input := strings.NewReader("password\n123456\nqwerty\nabc123\nhunter2\n")
	if err = gcs.NewBuilder(input, out, 1<<20, 2).WithParser(gcs.PlainParser).Process(true); err != nil {
		t.Fatalf("Should not fail building set: %s", err)
	}
	if err = out.Close(); err != nil {
		t.Fatalf("Should not fail closing file: %s", err)
	}

	for _, size := range []int64{0, 100} {
		corpus, err := OpenGCS(file, size)
		if err != nil {
			t.Fatalf("Should not fail opening set: %s", err)
		}

		if corpus.Len() != 5 {
			t.Errorf("Expected 5 items, have %d", corpus.Len())
		}
		// twice, the second lookup may be served from the cache
		for i := 0; i < 2; i++ {
			if !corpus.Contains("hunter2") {
				t.Errorf("hunter2 should be leaked")
			}
			if corpus.Contains("Tr0ub4dor&3-horse") {
				t.Errorf("Tr0ub4dor&3-horse should not be leaked")
			}
			time.Sleep(10 * time.Millisecond)
		}
		corpus.Close()
	}

	if _, err = OpenGCS(filepath.Join(t.TempDir(), "missing.gcs"), 0); err == nil {
		t.Errorf("Opening a missing set should fail")
	}
}

func TestGCSCorpusLookupError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "leaked.gcs")
	out, err := os.Create(file)
	if err != nil {
		t.Fatalf("Should not fail creating file: %s", err)
	}
	if err = gcs.NewBuilder(strings.NewReader("password\nhunter2\n"), out, 1<<20, 1000).WithParser(gcs.PlainParser).Process(true); err != nil {
		t.Fatalf("Should not fail building set: %s", err)
	}
	if err = out.Close(); err != nil {
		t.Fatalf("Should not fail closing file: %s", err)
	}

	corpus, err := OpenGCS(file, 100)
	if err != nil {
		t.Fatalf("Should not fail opening set: %s", err)
	}
	defer corpus.Close()

	// the index stays in memory, reads past it go to the file
	if err = os.Remove(file); err != nil {
		t.Fatalf("Should not fail removing file: %s", err)
	}

	if _, err = corpus.Lookup("Tr0ub4dor&3-horse"); err == nil {
		t.Errorf("Lookup should fail once the set file is gone")
	}
	if corpus.Contains("Tr0ub4dor&3-horse") {
		t.Errorf("Contains should report failed lookups as not leaked")
	}

	res, err := strength.NewAnalyzer(corpus).Analyze("Tr0ub4dor&3-horse")
	if !errors.Is(err, strength.ErrCorpusLookup) {
		t.Errorf("Analyze should fail with ErrCorpusLookup, have %v", err)
	}
	if res != nil {
		t.Errorf("Analyze should not return a partial result")
	}
}

type fakeObjects struct {
	body string
	err  error
}

func (f fakeObjects) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if aws.ToString(params.Bucket) != "leaks" || aws.ToString(params.Key) != "list.txt" {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(f.body))}, nil
}

func TestLoadS3Set(t *testing.T) {
	s, err := LoadS3Set(context.Background(), fakeObjects{body: "dragon\nmonkey\n"}, "leaks", "list.txt")
	if err != nil {
		t.Fatalf("Should not fail loading object: %s", err)
	}
	if s.Len() != 2 || !s.Contains("dragon") {
		t.Errorf("Unexpected set contents %v", s)
	}

	if _, err = LoadS3Set(context.Background(), fakeObjects{}, "leaks", "other.txt"); err == nil {
		t.Errorf("Missing objects should fail")
	}

	boom := errors.New("boom")
	if _, err = LoadS3Set(context.Background(), fakeObjects{err: boom}, "leaks", "list.txt"); !errors.Is(err, boom) {
		t.Errorf("Expected wrapped client error, have %v", err)
	}
}

func TestLoadRedisSetUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	if _, err := LoadRedisSet(context.Background(), client, "leaked"); err == nil {
		t.Errorf("Loading from an unreachable server should fail")
	}
}

func TestNewRedisClientInvalidURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "http://not-redis"); err == nil {
		t.Errorf("Non redis URLs should fail")
	}
}
