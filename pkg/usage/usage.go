// Package usage aggregates the references made by a package's sources.
//
// [Aggregator.Collect] walks the inputs of one package (src/, tests/ and
// build.rs), runs a [refs.Extractor] over every file and unions the results.
// Files that cannot be read or parsed are counted and logged at debug level;
// they never fail the collection.
package usage

import (
	"context"
	"encoding/json"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cargodead/pkg/cache"
	"github.com/matzehuels/cargodead/pkg/observability"
	"github.com/matzehuels/cargodead/pkg/refs"
	"github.com/matzehuels/cargodead/pkg/source"
)

// keyType labels reference-set entries in cache hooks.
const keyType = "refs"

// Stats counts what Collect saw.
type Stats struct {
	Files   int // Source files found
	Parsed  int // Files run through the extractor
	Cached  int // Files answered from the cache
	Skipped int // Files that could not be read or parsed
}

// Aggregator unions per-file references over a package's sources.
type Aggregator struct {
	extractor refs.Extractor
	ext       string
	cache     cache.Cache
	keyer     cache.Keyer
	logger    *log.Logger
}

// NewAggregator creates an Aggregator for files ending in ext. A nil cache
// disables memoization and a nil logger uses log.Default().
func NewAggregator(extractor refs.Extractor, ext string, c cache.Cache, logger *log.Logger) *Aggregator {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Aggregator{
		extractor: extractor,
		ext:       ext,
		cache:     c,
		keyer:     cache.NewDefaultKeyer(),
		logger:    logger,
	}
}

// Collect returns every reference made by the sources under root. It only
// fails when ctx is cancelled.
func (a *Aggregator) Collect(ctx context.Context, root string) (refs.Set, Stats, error) {
	used := refs.NewSet()
	var stats Stats
	for path := range source.Inputs(ctx, root, a.ext) {
		stats.Files++
		set, cached, err := a.file(ctx, path)
		if err != nil {
			stats.Skipped++
			a.logger.Debug("skipping source file", "path", path, "err", err)
			continue
		}
		if cached {
			stats.Cached++
		} else {
			stats.Parsed++
		}
		used.Merge(set)
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	return used, stats, nil
}

// file returns the references of one file, from the cache when possible.
func (a *Aggregator) file(ctx context.Context, path string) (refs.Set, bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	key := a.keyer.ReferencesKey(a.extractor.Version(), cache.Hash(src))
	if data, ok, err := a.cache.Get(ctx, key); err == nil && ok {
		var names []string
		if json.Unmarshal(data, &names) == nil {
			observability.Cache().OnCacheHit(ctx, keyType)
			return refs.NewSet(names...), true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	set, err := a.extractor.Extract(src)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(set.Sorted()); err == nil {
		if err := a.cache.Set(ctx, key, data, cache.TTLReferences); err != nil {
			a.logger.Debug("cache write failed", "path", path, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
	}
	return set, false, nil
}
