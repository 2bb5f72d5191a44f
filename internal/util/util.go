package util

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

var (
	ErrNotEnoughRam  = errors.New("not enough RAM available for this process")
	ErrNotEnoughDisk = errors.New("not enough disk space available for this process")
)

// Stats returns a func that logs the current memory statistics, meant to be deferred.
func Stats() func() {
	return func() {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		log.Debug().Msgf("Alloc: %d MB, TotalAlloc: %d MB, Requested: %d MB",
			ms.Alloc/1024/1024, ms.TotalAlloc/1024/1024, ms.Sys/1024/1024)
		log.Debug().Msgf("Mallocs: %d, Frees: %d, GC: %d", ms.Mallocs, ms.Frees, ms.NumGC)
		log.Debug().Msgf("HeapAlloc: %d MB, HeapSys: %d MB, HeapIdle: %d MB",
			ms.HeapAlloc/1024/1024, ms.HeapSys/1024/1024, ms.HeapIdle/1024/1024)
		log.Debug().Msgf("HeapObjects: %d", ms.HeapObjects)
	}
}

func ApplyCliSettings(verbose bool, profile bool, pprofPort uint16) {
	if verbose {
		log.Warn().Msgf("verbosity up")
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if profile {
		log.Info().Msgf("profiling is enabled for this session. Server will listen on port %d", pprofPort)
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf(":%d", pprofPort), nil); err != nil {
				log.Error().Err(err).Msgf("error starting profiling server on port %d", pprofPort)
			}
		}()
	}
}

// CheckRam verifies the system can hold items 64 bit values in memory. Unless
// skipWait is set, it gives the user a few seconds to stop the process.
func CheckRam(items uint64, skipWait bool) error {
	required := items * 8
	if memStat, err := mem.VirtualMemory(); err == nil {
		log.Debug().Msgf("system has %.2f MiB of RAM available", float64(memStat.Available)/(1024*1024))
		if required > memStat.Available {
			return fmt.Errorf("%w: %d MiB required", ErrNotEnoughRam, required/(1024*1024))
		}
	} else {
		log.Warn().Msgf("estimated memory use for %d items %d MiB", items, required/(1024*1024))
		log.Warn().Msgf("this process will cause disk swapping and general slowness if your "+
			"current system memory is not at least %d MiB", required/(1024*1024))
	}

	if !skipWait {
		log.Info().Msgf("^C now to stop the process.")
		time.Sleep(5 * time.Second)
	}
	return nil
}

// CheckDiskSpace verifies the partition holding fileName has at least sizeGb
// GiB free. Failing to read the partitions only logs.
func CheckDiskSpace(fileName string, sizeGb uint64) error {
	abs, err := filepath.Abs(fileName)
	if err != nil {
		return err
	}

	parts, err := disk.Partitions(false)
	if err != nil {
		log.Debug().Err(err).Msgf("error getting current storage sizes")
		log.Warn().Msgf("IMPORTANT: please ensure you have at least %d GiB free", sizeGb)
		return nil
	}

	// The longest matching mount point is the partition of the file.
	mount := ""
	for _, part := range parts {
		if strings.HasPrefix(abs, part.Mountpoint) && len(part.Mountpoint) > len(mount) {
			mount = part.Mountpoint
		}
	}
	if mount == "" {
		return nil
	}

	usage, err := disk.Usage(mount)
	if err != nil {
		log.Debug().Err(err).Msgf("error getting current storage sizes")
		return nil
	}

	log.Debug().Msgf("%s has %.2f GiB free", mount, float64(usage.Free)/(1024*1024*1024))
	if sizeGb*1024*1024*1024 > usage.Free {
		return fmt.Errorf("%w: drive %s needs %d GiB free", ErrNotEnoughDisk, mount, sizeGb)
	}
	return nil
}

// ToScreamingSnakeCase turns Go field names into environment variable names,
// e.g. "TLSCert" into "TLS_CERT". Space separated lists are converted word by word.
func ToScreamingSnakeCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = screamingSnake(w)
	}
	return strings.Join(words, " ")
}

func screamingSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
