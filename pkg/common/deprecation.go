package common

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DeprecationCategory classifies a deprecation event.
type DeprecationCategory string

const (
	DeprecationCategoryAPI      DeprecationCategory = "api"
	DeprecationCategorySettings DeprecationCategory = "settings"
)

const deprecationCacheSize = 1024

// DeprecationLogger is the process-wide sink for deprecation events. It is
// append-only and safe for concurrent use; repeated events under the same
// key are suppressed while the key stays in the dedup cache.
type DeprecationLogger struct {
	logger zerolog.Logger
	seen   *lru.Cache[string, struct{}]
}

// NewDeprecationLogger returns a sink emitting through the global logger.
func NewDeprecationLogger() *DeprecationLogger {
	seen, _ := lru.New[string, struct{}](deprecationCacheSize)
	return &DeprecationLogger{logger: log.Logger, seen: seen}
}

// Warn records one deprecation event. The key identifies the deprecated
// behavior; only the first event per key (per cache window) is emitted.
func (d *DeprecationLogger) Warn(category DeprecationCategory, key string, format string, args ...interface{}) {
	if present, _ := d.seen.ContainsOrAdd(key, struct{}{}); present {
		return
	}
	d.logger.Warn().
		Str("category", string(category)).
		Str("key", key).
		Msg(fmt.Sprintf(format, args...))
}
