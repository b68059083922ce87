package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Runtime profiles by CPU count. Route search allocates small, short-lived
// slices per query, so GOGC is raised and GOMEMLIMIT bounds the heap.
const (
	SmallServerGOGC     = 200
	SmallServerMemLimit = 1536 * 1024 * 1024 // 1.5GB

	MediumServerGOGC     = 400
	MediumServerMemLimit = 4 * 1024 * 1024 * 1024 // 4GB

	LargeServerGOGC     = 800
	LargeServerMemLimit = 8 * 1024 * 1024 * 1024 // 8GB
)

type RuntimeProfile struct {
	Name     string
	GOGC     int
	MemLimit int64
	MaxProcs int
}

// DetectRuntimeProfile picks defaults for numCPU cores.
func DetectRuntimeProfile(numCPU int) RuntimeProfile {
	switch {
	case numCPU <= 2:
		return RuntimeProfile{Name: "small", GOGC: SmallServerGOGC, MemLimit: SmallServerMemLimit, MaxProcs: max(numCPU, 1)}
	case numCPU <= 8:
		return RuntimeProfile{Name: "medium", GOGC: MediumServerGOGC, MemLimit: MediumServerMemLimit, MaxProcs: numCPU}
	default:
		return RuntimeProfile{Name: "large", GOGC: LargeServerGOGC, MemLimit: LargeServerMemLimit, MaxProcs: numCPU - 1}
	}
}

// InitRuntime applies the detected profile. GOGC, GOMAXPROCS and GOMEMLIMIT
// set in the environment always win.
func InitRuntime() RuntimeProfile {
	p := DetectRuntimeProfile(runtime.NumCPU())

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(p.GOGC)
	}
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(p.MaxProcs)
	}
	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(p.MemLimit)
	}

	log.Info().
		Str("profile", p.Name).
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Str("go_version", runtime.Version()).
		Msg("[runtime] runtime settings applied")

	return p
}
