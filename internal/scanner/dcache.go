package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/benji-york/fend/internal/pattern"
	"github.com/benji-york/fend/internal/source"
)

// Increment when the payload format changes.
const dcacheSchemaVersion uint16 = 1

// DCache is an on-disk cache of detection results keyed by file content
// hash and pattern name. It stores raw Detect output, before suppression
// is applied, so directive changes never require invalidation. The cache
// is best-effort: every failure degrades to a miss.
//
// Thread-safe for concurrent access.
type DCache struct {
	mu  sync.RWMutex
	dir string
}

type cachedViolation struct {
	Line    int
	EndLine int
	Message string
}

type cachePayload struct {
	Schema     uint16
	Violations []cachedViolation
}

// OpenDCache initializes the cache at the standard XDG location.
func OpenDCache(app string) (*DCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DCache{dir: dir}, nil
}

// OpenDCacheAt initializes the cache rooted at an explicit directory.
func OpenDCacheAt(dir string) (*DCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DCache{dir: dir}, nil
}

// key mixes the content hash with the pattern name and the file path.
// The path participates because detection may depend on it (a Makefile
// pattern keys off the file name, not just the bytes).
func (c *DCache) key(f *source.File, patternName string) string {
	h := sha256.New()
	h.Write(f.Hash[:])
	h.Write([]byte{0})
	h.Write([]byte(patternName))
	h.Write([]byte{0})
	h.Write([]byte(f.Path))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *DCache) pathFor(key string) string {
	return filepath.Join(c.dir, "detect", key[:2], key+".mp")
}

// Get returns cached Detect output for (file content, pattern), if
// present. Violations are rehydrated with the pattern name and the
// file's current path.
func (c *DCache) Get(f *source.File, patternName string) ([]pattern.Violation, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	fh, err := os.Open(c.pathFor(c.key(f, patternName)))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Debug("detection cache read failed", "error", err)
		}
		return nil, false
	}
	defer fh.Close() //nolint:errcheck // read-only handle

	var payload cachePayload
	if err := msgpack.NewDecoder(fh).Decode(&payload); err != nil {
		slog.Debug("detection cache decode failed", "error", err)
		return nil, false
	}
	if payload.Schema != dcacheSchemaVersion {
		return nil, false
	}

	violations := make([]pattern.Violation, len(payload.Violations))
	for i, cv := range payload.Violations {
		violations[i] = pattern.Violation{
			Pattern: patternName,
			Path:    f.Path,
			Line:    cv.Line,
			EndLine: cv.EndLine,
			Message: cv.Message,
		}
	}
	return violations, true
}

// Put stores Detect output. Degraded entries must not be cached; the
// caller only passes genuine violations.
func (c *DCache) Put(f *source.File, patternName string, violations []pattern.Violation) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := cachePayload{Schema: dcacheSchemaVersion}
	for _, v := range violations {
		payload.Violations = append(payload.Violations, cachedViolation{
			Line:    v.Line,
			EndLine: v.EndLine,
			Message: v.Message,
		})
	}

	p := c.pathFor(c.key(f, patternName))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		slog.Debug("detection cache write failed", "error", err)
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		slog.Debug("detection cache write failed", "error", err)
		return
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after rename

	if err := msgpack.NewEncoder(tmp).Encode(&payload); err != nil {
		tmp.Close() //nolint:errcheck // already failing
		slog.Debug("detection cache encode failed", "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		slog.Debug("detection cache write failed", "error", err)
		return
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		slog.Debug("detection cache write failed", "error", err)
	}
}

// DropAll invalidates the whole cache.
func (c *DCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
