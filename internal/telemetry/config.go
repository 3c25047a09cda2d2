package telemetry

import (
	"os"
	"path/filepath"
	"sync"
)

const (
	EnvObserveJSON     = "NANOCODE_OBSERVE_JSON"
	EnvPersistPayloads = "NANOCODE_PERSIST_PAYLOADS"
	EnvArtifactsDir    = "NANOCODE_ARTIFACTS_DIR"

	DefaultArtifactsDir = ".nanocode"
)

var (
	mu                     sync.RWMutex
	observeEnabled         bool
	persistPayloadsEnabled bool
	artifactsDir           string
)

func init() {
	// Read once at process start; Configure may override later.
	observeEnabled = os.Getenv(EnvObserveJSON) == "1"
	persistPayloadsEnabled = os.Getenv(EnvPersistPayloads) == "1"
	artifactsDir = os.Getenv(EnvArtifactsDir)
}

// Configure applies settings loaded from the config file. Call before the
// session starts. An empty dir keeps the current artifacts directory.
func Configure(observe, persistPayloads bool, dir string) {
	mu.Lock()
	defer mu.Unlock()
	observeEnabled = observe
	persistPayloadsEnabled = persistPayloads
	if dir != "" {
		artifactsDir = dir
	}
}

// SessionArtifactsDir anchors a relative (or empty, meaning the default)
// artifacts directory at the session root.
func SessionArtifactsDir(root, dir string) string {
	if dir == "" {
		dir = DefaultArtifactsDir
	}
	if filepath.IsAbs(dir) || root == "" {
		return dir
	}
	return filepath.Join(root, dir)
}

// ObserveEnabled reports whether JSONL events are written.
func ObserveEnabled() bool {
	// Tests flip this mid-run through the environment.
	if v, ok := os.LookupEnv(EnvObserveJSON); ok {
		return v == "1"
	}
	mu.RLock()
	defer mu.RUnlock()
	return observeEnabled
}

// PersistPayloadsEnabled reports whether raw request and response bodies are
// written under ArtifactsDir()/payloads.
func PersistPayloadsEnabled() bool {
	if v, ok := os.LookupEnv(EnvPersistPayloads); ok {
		return v == "1"
	}
	mu.RLock()
	defer mu.RUnlock()
	return persistPayloadsEnabled
}

// ArtifactsDir is where events and payloads are written.
func ArtifactsDir() string {
	if v := os.Getenv(EnvArtifactsDir); v != "" {
		return v
	}
	mu.RLock()
	defer mu.RUnlock()
	if artifactsDir != "" {
		return artifactsDir
	}
	return DefaultArtifactsDir
}
