// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package gcs

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// status logs build progress by stage, roughly every 5% of the stage work.
type status struct {
	stageName  string
	workCount  uint64
	doneCount  atomic.Uint64
	step       uint64
	start      time.Time
	stageStart time.Time
	printer    *message.Printer
}

func newStatus() *status {
	return &status{start: time.Now(), printer: message.NewPrinter(language.English)}
}

func (s *status) Stage(stage string) {
	s.FinishStage()

	s.stageName = stage
	log.Info().Msgf("%s starting...", stage)

	s.stageStart = time.Now()
	s.doneCount.Store(0)
	s.workCount, s.step = 0, 0
}

func (s *status) StageWork(name string, work uint64) {
	s.Stage(name)
	s.workCount = work
	s.step = work / 20
}

func (s *status) Incr() {
	done := s.doneCount.Add(1)
	if s.step > 0 && done%s.step == 0 {
		s.printStatus(done)
	}
}

func (s *status) printStatus(done uint64) {
	elapsed := time.Since(s.stageStart).Seconds()
	rate := float64(done)
	if elapsed > 0 {
		rate /= elapsed
	}

	log.Info().Msgf("%s: %s of %s, %.2f%%, %.0f/s", s.stageName,
		s.printer.Sprintf("%d", done), s.printer.Sprintf("%d", s.workCount),
		float64(done)/float64(s.workCount)*100, rate)
}

func (s *status) FinishStage() {
	if s.stageName != "" {
		log.Info().Msgf("%s complete in %v", s.stageName, time.Since(s.stageStart))
	}
	s.stageName = ""
}

func (s *status) Done() {
	s.FinishStage()
	log.Info().Msgf("complete in %v", time.Since(s.start))
}
