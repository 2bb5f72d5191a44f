package hibp

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type status struct {
	rangesDownloaded           atomic.Uint64
	hashesDownloaded           atomic.Uint64
	cloudflareRequests         atomic.Uint64
	cloudflareHits             atomic.Uint64
	cloudflareRequestTimeTotal atomic.Uint64
	start                      time.Time
	ticker                     *time.Ticker
	progress                   chan struct{}
	totalRanges                int
}

func newStatus(totalRanges int) *status {
	return &status{
		start:       time.Now(),
		ticker:      time.NewTicker(10 * time.Second),
		progress:    make(chan struct{}),
		totalRanges: totalRanges,
	}
}

// BeginProgress reports the progress of the download every 10 seconds.
func (s *status) BeginProgress() {
	go func() {
		for {
			select {
			case <-s.progress:
				return
			case <-s.ticker.C:
				total := float64(max(s.totalRanges, 1))
				log.Info().Msgf("%.2f%% hash ranges downloaded. %.0f hashes/s",
					float64(s.rangesDownloaded.Load())*100/total, s.hashesPerSecond())
			}
		}
	}()
}

func (s *status) RangeDownloaded() {
	s.rangesDownloaded.Add(1)
}

func (s *status) HashDownloaded() {
	s.hashesDownloaded.Add(1)
}

func (s *status) RequestComplete(res *http.Response, millis int64) {
	s.cloudflareRequestTimeTotal.Add(uint64(max(millis, 0)))
	s.cloudflareRequests.Add(1)

	if res.Header.Get("CF-Cache-Status") == "HIT" {
		s.cloudflareHits.Add(1)
	}
}

func (s *status) hashesPerSecond() float64 {
	hashes := float64(s.hashesDownloaded.Load())
	if elapsed := time.Since(s.start).Seconds(); elapsed > 0 {
		return hashes / elapsed
	}
	return hashes
}

func (s *status) Done() {
	s.ticker.Stop()
	close(s.progress)

	p := message.NewPrinter(language.English)
	log.Info().Msgf("finished downloading %s hash ranges in %v. %.0f hashes/s",
		p.Sprintf("%d", s.rangesDownloaded.Load()), time.Since(s.start), s.hashesPerSecond())

	requests := s.cloudflareRequests.Load()
	if requests == 0 {
		return
	}
	hits := s.cloudflareHits.Load()
	log.Debug().Msgf("made %s Cloudflare requests. Average response time %.2f ms", p.Sprintf("%d", requests),
		float64(s.cloudflareRequestTimeTotal.Load())/float64(requests))
	log.Debug().Msgf("cloudflare cache hits: %s (%.2f%%), misses: %s", p.Sprintf("%d", hits),
		float64(hits*100)/float64(requests), p.Sprintf("%d", requests-hits))
}
