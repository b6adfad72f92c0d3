package linter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 value used as a cache key component.
type Digest [sha256.Size]byte

// DiskCache хранит результаты lint-only прогонов по ключу
// (hash содержимого, hash конфигурации).
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the cached findings of one file version.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Hashes for validation
	ContentHash Digest
	ConfigHash  Digest

	// Findings (span offsets only, segments are not cached)
	Findings []CachedFinding
}

// CachedFinding is the serializable form of a Finding.
type CachedFinding struct {
	Rule        string
	Severity    uint8
	Start       uint32
	End         uint32
	Description string
	Fixable     bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
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
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt использует явный каталог; удобно в тестах.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки — подкаталог "lint".
	return filepath.Join(c.dir, "lint", hexKey+".mp")
}

// cacheKey derives the cache key from the file content hash and config hash.
func cacheKey(contentHash, configHash [32]byte) Digest {
	h := sha256.New()
	h.Write(contentHash[:])
	h.Write(configHash[:])
	var key Digest
	copy(key[:], h.Sum(nil))
	return key
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// После успешного rename временного файла уже нет.
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим целиком
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// findingsToPayload converts findings to the serializable payload form.
func findingsToPayload(contentHash, configHash [32]byte, findings []Finding) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		ContentHash: contentHash,
		ConfigHash:  configHash,
	}
	payload.Findings = make([]CachedFinding, len(findings))
	for i, f := range findings {
		payload.Findings[i] = CachedFinding{
			Rule:        f.Rule,
			Severity:    uint8(f.Severity),
			Start:       f.Span.Start,
			End:         f.Span.End,
			Description: f.Description,
			Fixable:     f.Fixable,
		}
	}
	return payload
}

// payloadToFindings converts a payload back to findings, rebinding spans to
// the current FileID. Неподходящая схема — промах кэша, не ошибка.
func payloadToFindings(payload *DiskPayload, file source.FileID) []Finding {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil
	}
	findings := make([]Finding, len(payload.Findings))
	for i, cf := range payload.Findings {
		findings[i] = Finding{
			Rule:        cf.Rule,
			Severity:    lint.Severity(cf.Severity),
			Span:        source.Span{File: file, Start: cf.Start, End: cf.End},
			Description: cf.Description,
			Fixable:     cf.Fixable,
		}
	}
	return findings
}
