package common

import (
	"log"
	"os"
	"strconv"
)

// DefaultConcurrency is the block transfer queue's worker-pool size.
const DefaultConcurrency = 32

// DefaultChunkSize is the fixed engine chunk size every file's blocks
// are laid out against.
const DefaultChunkSize int64 = 16 * 1024 * 1024

// ComputeConcurrencyValue returns the configured block-queue
// concurrency. If XFERCORE_CONCURRENCY is set it wins outright;
// otherwise DefaultConcurrency is used.
func ComputeConcurrencyValue() int {
	if override := os.Getenv("XFERCORE_CONCURRENCY"); override != "" {
		val, err := strconv.Atoi(override)
		if err != nil {
			log.Fatalf("error parsing XFERCORE_CONCURRENCY %q: %v", override, err)
		}
		return val
	}
	return DefaultConcurrency
}

// EngineConfig bundles the knobs the transfer manager, queue and store
// are constructed with.
type EngineConfig struct {
	Concurrency   int
	ChunkSize     int64
	DatabasePath  string
	QueueCapacity int
}

// DefaultEngineConfig applies the env-overridable defaults.
func DefaultEngineConfig(databasePath string) EngineConfig {
	concurrency := ComputeConcurrencyValue()
	return EngineConfig{
		Concurrency:   concurrency,
		ChunkSize:     DefaultChunkSize,
		DatabasePath:  databasePath,
		QueueCapacity: concurrency,
	}
}
