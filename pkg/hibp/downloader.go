// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package hibp downloads the Pwned Passwords SHA1 dump through the k-anonymity
// range API. The result is the input for gcs.Builder.
package hibp

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"github.com/thinhdanggroup/executor"
)

const (
	// AllRanges is the number of 5 hex character prefixes, 00000 to FFFFF.
	AllRanges = 1 << 20

	DefaultBaseURL = "https://api.pwnedpasswords.com/range/"

	// the full dump is around 40 GiB
	requiredDiskGb = 40
)

var ErrRangesFailed = errors.New("some hash ranges could not be downloaded")

type Downloader struct {
	parallelism int
	baseURL     string
	stat        *status
	wm          sync.Mutex
	fileName    string
	writer      *bufio.Writer
	http        *retryablehttp.Client
	failed      atomic.Uint64
	writeErr    error
}

// NewDownloader writes every downloaded hash to out as "HASH:count" lines.
// parallelism below 1 uses eight workers per logical CPU.
func NewDownloader(out io.Writer, parallelism int) *Downloader {
	d := &Downloader{
		parallelism: parallelism,
		baseURL:     DefaultBaseURL,
		writer:      bufio.NewWriter(out),
		http:        initHttpClient(),
	}
	if f, ok := out.(*os.File); ok {
		d.fileName = f.Name()
	}
	return d
}

// WithBaseURL points the downloader at another range API. The prefix is
// appended to it.
func (d *Downloader) WithBaseURL(url string) *Downloader {
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	d.baseURL = url
	return d
}

func initHttpClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	// Too much garbage in the logs, it slowed the download too much.
	client.Logger = nil
	client.RetryMax = 10

	client.HTTPClient = &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS13,
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       10 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			// HTTP/2 only establishes one connection, HTTP/1.1 is much faster here.
			ForceAttemptHTTP2:   false,
			MaxIdleConnsPerHost: runtime.GOMAXPROCS(0) + 1,
		},
	}

	return client
}

// ProcessRanges downloads the first ranges prefixes. Unless skipWait is set,
// it waits a few seconds so the user can stop the process.
func (d *Downloader) ProcessRanges(ctx context.Context, ranges int, skipWait bool) error {
	if d.fileName != "" && ranges == AllRanges {
		if err := util.CheckDiskSpace(d.fileName, requiredDiskGb); err != nil {
			return err
		}
	}

	s := util.Stats()
	defer s()

	threads := d.parallelism
	if threads < 1 {
		// About 8 times nets a sustained download of about 150 Mbit/s.
		threads = runtime.NumCPU() * 8
	}

	// bounded worker pool
	downloadTasks, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     2 * threads,
		NumWorkers:    threads,
	})
	if err != nil {
		return err
	}
	defer downloadTasks.Close()

	log.Info().Msgf("downloading %d Pwned Passwords SHA1 hash ranges with %d threads, ^C to stop the process", ranges, threads)
	if !skipWait {
		time.Sleep(10 * time.Second)
	}
	log.Info().Msg("starting process. This might take a while, be patient :)")
	d.stat = newStatus(ranges)
	d.stat.BeginProgress()

	for i := 0; i < ranges; i++ {
		if ctx.Err() != nil {
			break
		}
		if err = downloadTasks.Publish(d.processRange, ctx, hashRange(i)); err != nil {
			return err
		}
	}

	downloadTasks.Wait()
	d.stat.Done()

	if d.writeErr != nil {
		return d.writeErr
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if failed := d.failed.Load(); failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRangesFailed, failed, ranges)
	}
	return nil
}

// hashRange is the i-th 5 character uppercase hex prefix.
func hashRange(i int) string {
	return fmt.Sprintf("%05X", i&(AllRanges-1))
}

func (d *Downloader) rangeRequest(ctx context.Context, prefix string) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+prefix, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "pwd-analyzer-hibp-downloader/1.0")
	return req, nil
}

func (d *Downloader) processRange(ctx context.Context, prefix string) {
	data, err := d.downloadRange(ctx, prefix)
	if err != nil {
		d.failed.Add(1)
		log.Error().Err(err).Msgf("error downloading range %s", prefix)
		return
	}

	if err = d.writeRange(prefix, data); err != nil {
		log.Error().Err(err).Msgf("error during file write for range %s", prefix)
		return
	}
	d.stat.RangeDownloaded()
}

func (d *Downloader) downloadRange(ctx context.Context, prefix string) ([]byte, error) {
	timer := time.Now()
	req, err := d.rangeRequest(ctx, prefix)
	if err != nil {
		return nil, err
	}

	res, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("request for range %s failed with status %s", prefix, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	d.stat.RequestComplete(res, time.Since(timer).Milliseconds())
	return body, nil
}

// writeRange writes whole ranges at a time so lines from different ranges
// never interleave. The first write error stops all later writes.
func (d *Downloader) writeRange(prefix string, r []byte) error {
	d.wm.Lock()
	defer d.wm.Unlock()

	if d.writeErr != nil {
		return d.writeErr
	}

	scanner := bufio.NewScanner(bytes.NewReader(r))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := d.writer.WriteString(prefix + line + "\n"); err != nil {
			d.writeErr = err
			return err
		}
		d.stat.HashDownloaded()
	}

	if err := d.writer.Flush(); err != nil {
		d.writeErr = err
		return err
	}
	return nil
}
