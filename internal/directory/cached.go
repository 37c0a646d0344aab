package directory

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/orgstack/orghub/internal/cache"
	"github.com/orgstack/orghub/pkg/models"
)

const indexEntryTTL = 5 * time.Minute

// CachedDirectory decorates a Directory with a read-through Redis cache for
// master-index lookups by name. Writes and deletes invalidate. Cache failures
// never fail a request; lookups fall through to the inner directory.
type CachedDirectory struct {
	Directory
	cache cache.Cache
}

// NewCachedDirectory wraps inner with index-entry caching.
func NewCachedDirectory(inner Directory, c cache.Cache) *CachedDirectory {
	return &CachedDirectory{Directory: inner, cache: c}
}

func (d *CachedDirectory) GetIndexEntry(ctx context.Context, organizationName string) (*models.OrganizationMetadata, error) {
	key := cache.IndexEntryKey(organizationName)

	if raw, found, err := d.cache.Get(ctx, key); err == nil && found {
		var m models.OrganizationMetadata
		if err := json.Unmarshal(raw, &m); err == nil {
			return &m, nil
		}
	}

	m, err := d.Directory.GetIndexEntry(ctx, organizationName)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(m); err == nil {
		if err := d.cache.Set(ctx, key, raw, indexEntryTTL); err != nil {
			slog.Warn("index entry cache set failed", "organization", organizationName, "error", err)
		}
	}
	return m, nil
}

func (d *CachedDirectory) PutIndexEntry(ctx context.Context, meta *models.OrganizationMetadata) error {
	if err := d.Directory.PutIndexEntry(ctx, meta); err != nil {
		return err
	}
	d.invalidate(ctx, meta.OrganizationName)
	return nil
}

func (d *CachedDirectory) DeleteIndexEntry(ctx context.Context, organizationName string) (bool, error) {
	removed, err := d.Directory.DeleteIndexEntry(ctx, organizationName)
	if err != nil {
		return false, err
	}
	d.invalidate(ctx, organizationName)
	return removed, nil
}

func (d *CachedDirectory) invalidate(ctx context.Context, organizationName string) {
	if err := d.cache.Delete(ctx, cache.IndexEntryKey(organizationName)); err != nil {
		slog.Warn("index entry cache invalidation failed", "organization", organizationName, "error", err)
	}
}
